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


package search

import "github.com/poiesic/manualqa/core"

// Implement this interface to track intermediate steps and results during retrieval.
type SearchMonitor interface {
	Start(question string)
	AfterQueryEmbedding(dimensions int)
	Scored(heading string, similarity float64)
	Skipped(heading string, err error)
	AfterRanking(shortlist []core.RetrievalResult)
	Finish(result Result)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                        {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)             {}
func (n *noopMonitor) Scored(_ string, _ float64)            {}
func (n *noopMonitor) Skipped(_ string, _ error)             {}
func (n *noopMonitor) AfterRanking(_ []core.RetrievalResult) {}
func (n *noopMonitor) Finish(_ Result)                       {}
