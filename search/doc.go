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


// Package search ranks manual sections against a question.
//
// The Retriever embeds the question, scores every cached section by cosine
// similarity, and accepts the top-ranked sections while they stay at or
// above a similarity threshold. Acceptance stops at the first section below
// the threshold.
//
// Every call produces a Result whose Outcome tells the caller which of four
// cases occurred:
//   - Found: one or more sections passed the threshold
//   - EmbeddingUnavailable: the question could not be embedded
//   - Unsearchable: no section had a usable vector
//   - NoRelevantContent: sections were scored but none passed
//
// Each non-Found outcome has its own user-facing message.
package search
