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

import (
	"fmt"

	"github.com/poiesic/manualqa/core"
)

// Outcome classifies a retrieval.
type Outcome int

const (
	// Found means at least one section passed the threshold.
	Found Outcome = iota
	// EmbeddingUnavailable means the question could not be embedded.
	EmbeddingUnavailable
	// Unsearchable means no section had a usable vector.
	Unsearchable
	// NoRelevantContent means no scored section passed the threshold.
	NoRelevantContent
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case EmbeddingUnavailable:
		return "embedding_unavailable"
	case Unsearchable:
		return "unsearchable"
	case NoRelevantContent:
		return "no_relevant_content"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the outcome of one retrieval.
type Result struct {
	Outcome Outcome
	// Sections holds the accepted sections in descending similarity. Empty unless Outcome is Found.
	Sections []core.RetrievalResult
	// TopSimilarity is the best score seen, or -1 when nothing was scored.
	TopSimilarity float64
}

// Message returns the user-facing text for a non-Found outcome, or "" for Found.
// manualName names the manual in the no-relevant-content message.
func (r Result) Message(manualName string) string {
	switch r.Outcome {
	case EmbeddingUnavailable:
		return "I encountered an issue processing your question with the embedding model. Please try again."
	case Unsearchable:
		return "The user manual content could not be searched at this time due to an issue with section embeddings."
	case NoRelevantContent:
		return fmt.Sprintf("I've searched the %s user manual, but I couldn't find specific information that directly addresses your question in the available excerpts.", manualName)
	default:
		return ""
	}
}
