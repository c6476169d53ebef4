package embedding

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker prints one line per finished section while a manual is
// embedded, followed by a summary line.
type ProgressTracker struct {
	mu      sync.Mutex
	writer  io.Writer
	total   int
	done    int
	skipped int
	started time.Time
	running bool
}

// NewProgressTracker creates a tracker for total sections. A nil writer
// discards output.
func NewProgressTracker(writer io.Writer, total int) *ProgressTracker {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressTracker{writer: writer, total: total}
}

// Start resets the counters and the clock.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started = time.Now()
	p.running = true
	p.done = 0
	p.skipped = 0
}

// Done records that the section with the given heading has been processed.
// Sections finish in whatever order the worker pool completes them, so the
// counter reflects completions rather than the section's position.
func (p *ProgressTracker) Done(heading string, embedded bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running || p.done >= p.total {
		return
	}
	p.done++
	verb := "Processing"
	if !embedded {
		p.skipped++
		verb = "Skipped"
	}
	fmt.Fprintf(p.writer, "%s section %d/%d: '%s'\n", verb, p.done, p.total, heading)
}

// Finish prints the summary line and stops the tracker.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.running = false
	fmt.Fprintf(p.writer, "Embedded %d of %d sections (%d skipped) in %s\n",
		p.done-p.skipped, p.total, p.skipped, time.Since(p.started).Round(time.Millisecond))
}

// Elapsed returns the time since Start, or zero if the tracker never started.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started.IsZero() {
		return 0
	}
	return time.Since(p.started)
}
