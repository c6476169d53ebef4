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


// Package embedding turns manual sections into embedded section records.
//
// Service wraps an ai.Embedder with input checks and the shared retry
// policy. Builder drives a Service over every section of a manual, skips
// sections that cannot be embedded, and persists the result to a
// storage.SectionCache keyed by a fingerprint of the manual and model.
//
// # Usage
//
//	service, err := embedding.NewService(provider.Embedder())
//	builder, err := embedding.NewBuilder(service, cache, embedding.WithProgress(os.Stderr))
//	defer builder.Release()
//
//	fp := core.FingerprintOf(manualText, model)
//	records, err := builder.LoadOrBuild(ctx, sections, fp, false)
//
// # Input Bounding
//
// Section text is truncated to MaxTokens*CharsPerToken characters before it
// is sent to the provider. Truncation keeps the head of the text.
package embedding
