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

import "strings"

// scanState is the state of the contents scan.
type scanState int

const (
	stateBeforeTOC scanState = iota
	stateScanningTOC
	stateTOCDone
)

func (s scanState) String() string {
	switch s {
	case stateBeforeTOC:
		return "before_toc"
	case stateScanningTOC:
		return "scanning_toc"
	case stateTOCDone:
		return "toc_done"
	default:
		return "unknown"
	}
}

// stopReason records why a contents scan ended.
type stopReason string

const (
	stopNone      stopReason = ""
	stopEndOfText stopReason = "end of text"
	stopWindow    stopReason = "scan window exhausted"
	stopDense     stopReason = "consecutive non-matching lines after dense listing"
	stopSparse    stopReason = "long non-matching lines with few entries"
	stopNoMarker  stopReason = "marker not found"
)

// tocScan is the accumulator threaded through the contents scan.
type tocScan struct {
	state      scanState
	marker     int // index of the marker line, -1 until found
	limit      int // exclusive line index the scan may reach
	nonMatches int // consecutive non-matching lines, reset by blanks and matches
	meaningful int // entries accepted so far
	entries    []string
	reason     stopReason
}

func newTOCScan() *tocScan {
	return &tocScan{state: stateBeforeTOC, marker: -1}
}

// scanContents drives the scan over every line and returns the final accumulator.
func scanContents(lines []string, o Options, p patterns) *tocScan {
	sc := newTOCScan()
	for i, line := range lines {
		sc.step(i, line, o, p)
		if sc.state == stateTOCDone {
			return sc
		}
	}
	switch sc.state {
	case stateBeforeTOC:
		sc.reason = stopNoMarker
	case stateScanningTOC:
		sc.reason = stopEndOfText
	}
	sc.state = stateTOCDone
	return sc
}

// step feeds one line to the scan.
func (sc *tocScan) step(idx int, line string, o Options, p patterns) {
	switch sc.state {
	case stateBeforeTOC:
		if matchKey(line) == o.Marker {
			sc.marker = idx
			sc.limit = idx + 1 + o.ScanWindow
			sc.state = stateScanningTOC
		}
	case stateScanningTOC:
		if idx >= sc.limit {
			sc.finish(stopWindow)
			return
		}
		sc.scanLine(strings.TrimSpace(line), o, p)
	}
}

func (sc *tocScan) scanLine(line string, o Options, p patterns) {
	if line == "" {
		sc.nonMatches = 0
		return
	}

	if m := p.entry.FindStringSubmatch(line); m != nil {
		candidate := strings.TrimSpace(m[1])
		if !isNumeric(candidate) && !mentionsRunningHeader(candidate, o.RunningHeader) {
			sc.entries = append(sc.entries, line)
			sc.meaningful++
		}
		sc.nonMatches = 0
		return
	}

	if sc.meaningful > o.DenseEntries {
		sc.nonMatches++
		if sc.nonMatches >= o.DenseStopAfter {
			sc.finish(stopDense)
		}
		return
	}

	if !isAllCaps(line) && runeLen(line) > o.LongLine {
		sc.nonMatches++
		if sc.nonMatches >= o.SparseStrikes && sc.meaningful < o.SparseEntries {
			sc.finish(stopSparse)
		}
	}
}

func (sc *tocScan) finish(reason stopReason) {
	sc.reason = reason
	sc.state = stateTOCDone
}

func mentionsRunningHeader(text, header string) bool {
	if header == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(header))
}
