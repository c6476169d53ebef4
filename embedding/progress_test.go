package embedding

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_ReportsHeadings(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 3)

	tracker.Start()
	tracker.Done("Login", true)
	tracker.Done("Dashboard", false)
	tracker.Done("Reports", true)
	tracker.Finish()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"Processing section 1/3: 'Login'",
		"Skipped section 2/3: 'Dashboard'",
		"Processing section 3/3: 'Reports'",
	}, lines[:3])
	assert.True(t, strings.HasPrefix(lines[3], "Embedded 2 of 3 sections (1 skipped) in "), lines[3])
}

func TestProgressTracker_IgnoresExtraSections(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 1)

	tracker.Start()
	tracker.Done("Login", true)
	tracker.Done("Dashboard", true)

	assert.NotContains(t, buf.String(), "Dashboard")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10)

	tracker.Done("Login", true)
	tracker.Finish()

	assert.Empty(t, buf.String())
	assert.Zero(t, tracker.Elapsed())
}

func TestProgressTracker_NilWriter(t *testing.T) {
	tracker := NewProgressTracker(nil, 3)
	tracker.Start()
	tracker.Done("Login", true)
	tracker.Finish()
	assert.False(t, tracker.started.IsZero())
}
