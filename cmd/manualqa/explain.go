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


package main

import (
	"fmt"
	"io"

	"github.com/poiesic/manualqa/core"
	"github.com/poiesic/manualqa/search"
)

// explainMonitor prints how a question was matched against the manual.
type explainMonitor struct {
	w       io.Writer
	scored  int
	skipped int
}

var _ search.SearchMonitor = (*explainMonitor)(nil)

func newExplainMonitor(w io.Writer) *explainMonitor {
	return &explainMonitor{w: w}
}

func (m *explainMonitor) Start(question string) {
	m.scored, m.skipped = 0, 0
	fmt.Fprintf(m.w, "Question: %q\n", question)
}

func (m *explainMonitor) AfterQueryEmbedding(dimensions int) {
	fmt.Fprintf(m.w, "Query embedding: %d dimensions\n", dimensions)
}

func (m *explainMonitor) Scored(string, float64) {
	m.scored++
}

func (m *explainMonitor) Skipped(heading string, err error) {
	m.skipped++
	fmt.Fprintf(m.w, "Skipped '%s': %v\n", heading, err)
}

func (m *explainMonitor) AfterRanking(shortlist []core.RetrievalResult) {
	fmt.Fprintf(m.w, "Scored %d sections, skipped %d\n", m.scored, m.skipped)
	fmt.Fprintln(m.w, "Ranked sections:")
	for i, r := range shortlist {
		fmt.Fprintf(m.w, "%3d. [%.3f] %s\n", i+1, r.Similarity, r.Heading)
	}
}

func (m *explainMonitor) Finish(result search.Result) {
	fmt.Fprintf(m.w, "Outcome: %s (%d accepted, top similarity %.3f)\n",
		result.Outcome, len(result.Sections), result.TopSimilarity)
}
