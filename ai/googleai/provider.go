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
	"errors"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"github.com/poiesic/manualqa/ai"
	"github.com/poiesic/manualqa/ai/langchain"
	"github.com/tmc/langchaingo/llms/googleai"
	"google.golang.org/api/option"
)

// Provider implements ai.AIProvider using the Gemini API.
// Generation runs through langchaingo; embeddings use the genai client
// directly so the retrieval task type reaches the API.
type Provider struct {
	llm       *googleai.GoogleAI
	client    *genai.Client
	embedder  *Embedder
	generator *langchain.Generator
	logger    *slog.Logger
}

// NewProvider creates a Gemini-backed provider.
func NewProvider(ctx context.Context, config *ai.Config) (ai.AIProvider, error) {
	return newProvider(ctx, config)
}

func newProvider(ctx context.Context, config *ai.Config, clientOpts ...option.ClientOption) (*Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(config.APIKey),
		googleai.WithDefaultModel(config.GenerationModel),
		googleai.WithDefaultEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	opts := append([]option.ClientOption{option.WithAPIKey(config.APIKey)}, clientOpts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Join(err, llm.Close())
	}

	return &Provider{
		llm:       llm,
		client:    client,
		embedder:  NewEmbedder(client, config.EmbeddingModel, slog.Default().With("component", "googleai-embedder")),
		generator: langchain.NewGenerator(llm, config.Temperature, slog.Default().With("component", "googleai-generator")),
		logger:    slog.Default().With("component", "googleai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Generator returns the text generation service.
func (p *Provider) Generator() ai.Generator {
	return p.generator
}

// Close releases both API clients.
func (p *Provider) Close() error {
	p.logger.Debug("closing Google AI provider")
	return errors.Join(p.client.Close(), p.llm.Close())
}
