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


package embedding

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/manualqa/ai"
	"github.com/poiesic/manualqa/core"
	"github.com/poiesic/manualqa/retry"
)

// Service embeds single texts through an ai.Embedder.
// It is safe for concurrent use.
type Service struct {
	embedder ai.Embedder
	policy   retry.Policy
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRetryPolicy overrides retry.DefaultPolicy().
func WithRetryPolicy(policy retry.Policy) ServiceOption {
	return func(s *Service) {
		s.policy = policy
	}
}

// WithServiceLogger sets a custom logger.
// Default is slog.Default().
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates an embedding service.
func NewService(embedder ai.Embedder, opts ...ServiceOption) (*Service, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	s := &Service{
		embedder: embedder,
		policy:   retry.DefaultPolicy(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "embedding")
	if s.policy.Logger == nil {
		s.policy.Logger = s.logger
	}
	return s, nil
}

// Embed returns the vector for text.
//
// Blank text returns a nil vector without calling the provider. A provider
// that returns an empty vector is logged and also yields nil. Provider errors
// are retried according to the policy and returned once attempts run out.
func (s *Service) Embed(ctx context.Context, text string, role core.Role) ([]float32, error) {
	if err := core.ValidateRole(role); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		s.logger.Warn("attempted to embed empty text", "role", role)
		return nil, nil
	}

	vector, err := retry.Do(ctx, s.policy, func(ctx context.Context) ([]float32, error) {
		return s.embedder.EmbedText(ctx, text, role)
	})
	if err != nil {
		s.logger.Error("failed to generate embedding", "role", role, "err", err)
		return nil, err
	}
	if len(vector) == 0 {
		s.logger.Error("received empty embedding from provider", "role", role)
		return nil, nil
	}
	return vector, nil
}
