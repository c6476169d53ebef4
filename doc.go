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


// Package manualqa answers questions about a software user manual.
//
// The manual is split into sections using its table of contents, each
// section is embedded once and cached, and every question is answered by
// retrieving the most similar sections and asking a language model to answer
// from them alone.
//
// # Quick Start
//
//	cfg, err := config.Load("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	assistant, err := manualqa.Open(ctx, manualqa.WithConfig(cfg))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer assistant.Close()
//
//	reply, err := assistant.Ask(ctx, "How do I print a student ID card?")
//
// # Architecture
//
//   - segment: table-of-contents driven sectioning
//   - embedding: section embedding, truncation, cache build
//   - storage/badger: persistent section cache
//   - search: cosine ranking with a relevance threshold
//   - answer: prompt assembly and generation
//   - ai: provider interfaces with openai and googleai implementations
//   - api, tui: HTTP and terminal front ends
package manualqa
