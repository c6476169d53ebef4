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


// Package ai provides abstractions for the AI services used to answer questions
// about a manual.
//
// Two capabilities are needed: an Embedder that turns text into vectors,
// with a role telling the provider whether the text is a document being indexed
// or a query being asked, and a Generator that completes a prompt. An
// AIProvider bundles both with a shared configuration.
//
// # Implementation Packages
//
//   - ai/langchain: adapters from langchaingo models to these interfaces
//   - ai/openai: OpenAI-compatible servers (OpenAI, Ollama, LocalAI, vLLM)
//   - ai/googleai: the Gemini API
//   - ai/mock: test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, googleai.NewProvider) return
// interface types. Mock constructors return concrete types so tests can
// inject behavior and assert call counts.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "How do I log in?", core.RoleQuery)
//	answer, err := provider.Generator().Generate(ctx, prompt)
package ai
