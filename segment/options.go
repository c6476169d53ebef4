// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package segment

import (
	"fmt"
	"log/slog"
	"regexp"
)

// Options holds the thresholds used by the segmentation heuristics.
type Options struct {
	// Marker is the line (trimmed, uppercased) that starts the table of contents.
	Marker string
	// RunningHeader is the recurring page header/footer phrase, matched case-insensitively.
	RunningHeader string
	// LeaderArtifact is a known leader-dot suffix left behind by some PDF exports.
	LeaderArtifact string

	// ScanWindow bounds how many lines past the marker are scanned for entries.
	ScanWindow int
	// DenseEntries is the entry count above which the dense stop rule applies.
	DenseEntries int
	// DenseStopAfter stops a dense scan after this many consecutive non-matching lines.
	DenseStopAfter int
	// LongLine is the length above which a non-all-caps line counts as a strike in a sparse scan.
	LongLine int
	// SparseStrikes and SparseEntries guard a scan that has not reached DenseEntries:
	// it stops after SparseStrikes strikes while fewer than SparseEntries entries were found.
	SparseStrikes int
	SparseEntries int
	// MaxHeadingLine is the exclusive upper bound on the length of a heading line in the body.
	MaxHeadingLine int
	// MinHeading is the exclusive lower bound on a cleaned heading's length.
	MinHeading int

	Logger *slog.Logger
}

// DefaultOptions returns the thresholds used in production.
func DefaultOptions() Options {
	return Options{
		Marker:         "TABLE OF CONTENT",
		RunningHeader:  "User Manual",
		LeaderArtifact: "................................................................-xl",
		ScanWindow:     700,
		DenseEntries:   5,
		DenseStopAfter: 5,
		LongLine:       60,
		SparseStrikes:  2,
		SparseEntries:  3,
		MaxHeadingLine: 150,
		MinHeading:     2,
	}
}

func (o Options) validate() error {
	switch {
	case o.Marker == "":
		return fmt.Errorf("%w: empty marker", ErrInvalidOptions)
	case o.ScanWindow <= 0:
		return fmt.Errorf("%w: scan window must be positive", ErrInvalidOptions)
	case o.DenseStopAfter <= 0 || o.SparseStrikes <= 0:
		return fmt.Errorf("%w: stop limits must be positive", ErrInvalidOptions)
	case o.MaxHeadingLine <= 0:
		return fmt.Errorf("%w: heading line bound must be positive", ErrInvalidOptions)
	}
	return nil
}

// patterns are the regular expressions derived from Options.
type patterns struct {
	entry          *regexp.Regexp // <text> <3+ dots> <page>
	headerSuffix   *regexp.Regexp // trailing running header with optional page number
	trailingNumber *regexp.Regexp
	headerLine     *regexp.Regexp // a body line that is only the running header
}

var contentsEntryPattern = regexp.MustCompile(`^(.*?)\s*\.{3,}\s*(\d+)\s*$`)

func compilePatterns(o Options) patterns {
	p := patterns{
		entry:          contentsEntryPattern,
		trailingNumber: regexp.MustCompile(`\s+\d+$`),
	}
	if o.RunningHeader != "" {
		header := regexp.QuoteMeta(o.RunningHeader)
		p.headerSuffix = regexp.MustCompile(`(?i)\s+` + header + `\s*\d*$`)
		p.headerLine = regexp.MustCompile(`(?i)^\s*` + header + `\s*\d*\s*$`)
	}
	return p
}
