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
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/manualqa/core"
)

// Segmenter splits manual text into sections using the table of contents.
// A Segmenter is stateless between calls and safe for concurrent use.
type Segmenter struct {
	options  Options
	patterns patterns
	logger   *slog.Logger
}

// NewSegmenter creates a segmenter with the given options.
func NewSegmenter(opts Options) (*Segmenter, error) {
	opts.Marker = matchKey(opts.Marker)
	if err := opts.validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Segmenter{
		options:  opts,
		patterns: compilePatterns(opts),
		logger:   logger.With("component", "segmenter"),
	}, nil
}

// Segment splits text with DefaultOptions.
func Segment(text string) ([]core.Section, error) {
	s, err := NewSegmenter(DefaultOptions())
	if err != nil {
		return []core.Section{}, err
	}
	return s.Segment(text)
}

// Segment returns the manual's sections in document order.
// On failure it returns an empty list and an error wrapping core.ErrSegmentationFailure.
func (s *Segmenter) Segment(text string) ([]core.Section, error) {
	lines := splitLines(text)

	scan := scanContents(lines, s.options, s.patterns)
	if scan.marker == -1 {
		s.logger.Error("table of contents not found in manual")
		return []core.Section{}, ErrNoTableOfContents
	}
	s.logger.Info("table of contents scanned",
		"markerLine", scan.marker,
		"entries", len(scan.entries),
		"stop", string(scan.reason))

	if len(scan.entries) == 0 {
		s.logger.Error("no valid table of contents entries extracted")
		return []core.Section{}, ErrNoContentsEntries
	}

	headings := extractHeadings(scan.entries, s.options, s.patterns)
	if len(headings) == 0 {
		s.logger.Error("no usable headings after cleaning contents entries", "entries", len(scan.entries))
		return []core.Section{}, ErrNoContentsEntries
	}

	loc := newLocator(lines, s.options.MaxHeadingLine, s.logger)
	positions := loc.locate(headings, scan.marker+len(scan.entries)+1)
	slices.SortStableFunc(positions, func(a, b position) int {
		return a.line - b.line
	})

	sections := s.buildSections(lines, positions)
	if len(sections) == 0 {
		s.logger.Error("no sections resolved from manual", "headings", len(headings), "located", len(positions))
		return []core.Section{}, ErrNoSections
	}

	s.logger.Info("parsed manual sections", "sections", len(sections))
	return sections, nil
}

// buildSections cuts the body of each located heading up to the next one.
func (s *Segmenter) buildSections(lines []string, positions []position) []core.Section {
	sections := make([]core.Section, 0, len(positions))
	for i, pos := range positions {
		end := len(lines)
		if i < len(positions)-1 {
			end = positions[i+1].line
		}

		body := s.cleanBody(lines[pos.line+1 : end])
		if body == "" {
			s.logger.Info("section has no content after parsing", "heading", pos.heading.display)
			continue
		}
		sections = append(sections, core.Section{
			Heading:  pos.heading.display,
			MatchKey: pos.heading.key,
			Body:     body,
		})
	}
	return sections
}

// cleanBody keeps non-blank trimmed lines and drops running-header lines.
func (s *Segmenter) cleanBody(lines []string) string {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if s.patterns.headerLine != nil && s.patterns.headerLine.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
