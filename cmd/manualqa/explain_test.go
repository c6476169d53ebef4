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
	"bytes"
	"errors"
	"testing"

	"github.com/poiesic/manualqa/core"
	"github.com/poiesic/manualqa/search"
	"github.com/stretchr/testify/assert"
)

func TestExplainMonitor_PrintsRankedAndSkipped(t *testing.T) {
	var buf bytes.Buffer
	m := newExplainMonitor(&buf)

	m.Start("How do I log in?")
	m.AfterQueryEmbedding(768)
	m.Scored("Login", 0.91)
	m.Skipped("Broken", search.ErrNonFiniteVector)
	m.Scored("Dashboard", 0.12)
	m.AfterRanking([]core.RetrievalResult{
		{Heading: "Login", Similarity: 0.91},
		{Heading: "Dashboard", Similarity: 0.12},
	})
	m.Finish(search.Result{
		Outcome:       search.Found,
		Sections:      []core.RetrievalResult{{Heading: "Login", Similarity: 0.91}},
		TopSimilarity: 0.91,
	})

	out := buf.String()
	assert.Contains(t, out, `Question: "How do I log in?"`)
	assert.Contains(t, out, "Query embedding: 768 dimensions")
	assert.Contains(t, out, "Skipped 'Broken': non-finite vector")
	assert.Contains(t, out, "Scored 2 sections, skipped 1")
	assert.Contains(t, out, "  1. [0.910] Login\n")
	assert.Contains(t, out, "  2. [0.120] Dashboard\n")
	assert.Contains(t, out, "Outcome: found (1 accepted, top similarity 0.910)")
}

func TestExplainMonitor_StartResetsCounts(t *testing.T) {
	var buf bytes.Buffer
	m := newExplainMonitor(&buf)

	m.Start("first")
	m.Skipped("A", errors.New("bad"))
	m.Start("second")
	m.AfterRanking(nil)

	assert.Contains(t, buf.String(), "Scored 0 sections, skipped 0")
}
