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
	"strings"
)

// heading is a cleaned contents entry.
type heading struct {
	display string
	key     string
}

// position is a heading located in the body.
type position struct {
	heading heading
	line    int
}

// extractHeadings cleans contents entries into display headings.
// Entries that clean down to nothing, a bare number, or a too-short string are dropped.
func extractHeadings(entries []string, o Options, p patterns) []heading {
	headings := make([]heading, 0, len(entries))
	for _, entry := range entries {
		m := p.entry.FindStringSubmatch(entry)
		if m == nil {
			continue
		}
		text := cleanHeading(strings.TrimSpace(m[1]), o, p)
		if text == "" || isNumeric(text) || runeLen(text) <= o.MinHeading {
			continue
		}
		headings = append(headings, heading{display: text, key: strings.ToUpper(text)})
	}
	return headings
}

// cleanHeading strips the leader artifact, a trailing running header and a trailing page number.
func cleanHeading(text string, o Options, p patterns) string {
	if o.LeaderArtifact != "" {
		if before, _, found := strings.Cut(text, o.LeaderArtifact); found {
			text = strings.TrimSpace(before)
		}
	}
	if p.headerSuffix != nil {
		text = strings.TrimSpace(p.headerSuffix.ReplaceAllString(text, ""))
	}
	return strings.TrimSpace(p.trailingNumber.ReplaceAllString(text, ""))
}

// locator finds heading lines after the contents listing.
type locator struct {
	stripped []string
	keys     []string
	maxLen   int
	logger   *slog.Logger
}

func newLocator(lines []string, maxLen int, logger *slog.Logger) *locator {
	l := &locator{
		stripped: make([]string, len(lines)),
		keys:     make([]string, len(lines)),
		maxLen:   maxLen,
		logger:   logger,
	}
	for i, line := range lines {
		l.stripped[i] = strings.TrimSpace(line)
		l.keys[i] = matchKey(line)
	}
	return l
}

// isHeadingLine reports whether line i is a short line equal to key.
func (l *locator) isHeadingLine(i int, key string) bool {
	return l.keys[i] == key && runeLen(l.stripped[i]) < l.maxLen
}

// find returns the first heading line for key at or after start, or -1.
func (l *locator) find(key string, start int, skip map[int]bool) int {
	for i := max(start, 0); i < len(l.keys); i++ {
		if skip[i] {
			continue
		}
		if l.isHeadingLine(i, key) {
			return i
		}
	}
	return -1
}

// locate finds each heading in order, starting at start. The search is
// anchored to the first occurrence of the first heading, and the cursor only
// moves forward: a heading is searched for after the previous one found.
// Missing headings are logged and skipped.
func (l *locator) locate(headings []heading, start int) []position {
	if len(headings) == 0 {
		return nil
	}

	if anchor := l.find(headings[0].key, start, nil); anchor != -1 {
		start = anchor
		l.logger.Debug("anchored content search to first heading", "heading", headings[0].display, "line", anchor)
	} else {
		l.logger.Warn("first contents heading not found after table of contents", "heading", headings[0].display)
	}

	positions := make([]position, 0, len(headings))
	found := make(map[int]bool, len(headings))
	cursor := start
	for _, h := range headings {
		idx := l.find(h.key, cursor, found)
		if idx == -1 {
			l.logger.Warn("heading not found in manual content", "heading", h.display)
			continue
		}
		found[idx] = true
		positions = append(positions, position{heading: h, line: idx})
		cursor = idx + 1
	}
	return positions
}
