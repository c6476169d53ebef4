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


package googleai

import (
	"context"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"github.com/poiesic/manualqa/ai"
	"github.com/poiesic/manualqa/core"
)

// Embedder implements ai.Embedder on the Gemini embedding API, sending the
// retrieval task type that matches each role.
type Embedder struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder creates an embedder for model on client.
func NewEmbedder(client *genai.Client, model string, logger *slog.Logger) *Embedder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Embedder{client: client, model: model, logger: logger}
}

// taskType maps a role to the Gemini retrieval task type.
func taskType(role core.Role) genai.TaskType {
	if role == core.RoleQuery {
		return genai.TaskTypeRetrievalQuery
	}
	return genai.TaskTypeRetrievalDocument
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string, role core.Role) ([]float32, error) {
	if err := core.ValidateRole(role); err != nil {
		return nil, err
	}
	e.logger.Debug("generating embedding for single text", "length", len(text), "role", role)

	em := e.client.EmbeddingModel(e.model)
	em.TaskType = taskType(role)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		e.logger.Error("failed to generate embedding", "role", role, "err", err)
		return nil, err
	}
	if res == nil || res.Embedding == nil {
		e.logger.Warn("embedder returned empty result")
		return []float32{}, nil
	}
	return res.Embedding.Values, nil
}
