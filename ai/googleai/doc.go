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


// Package googleai provides AI service implementations backed by the Gemini API.
//
// Embeddings call the genai SDK with the retrieval task type that matches the
// role: RETRIEVAL_DOCUMENT for manual sections, RETRIEVAL_QUERY for questions.
// Answers come from the configured Gemini model through langchaingo.
//
//	provider, err := googleai.NewProvider(ctx, ai.GoogleAIConfig(os.Getenv("GEMINI_API_KEY")))
package googleai
