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


package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/manualqa/ai"
	"github.com/poiesic/manualqa/core"
	"github.com/poiesic/manualqa/retry"
)

var (
	// ErrGeneratorRequired is returned when a nil generator is provided.
	ErrGeneratorRequired = errors.New("generator is required")

	// ErrGenerationFailed is returned when no answer could be generated.
	ErrGenerationFailed = errors.New("answer generation failed")

	// ErrEmptyAnswer is returned when the model produced only whitespace.
	ErrEmptyAnswer = errors.New("model returned an empty answer")
)

// DefaultPlatform names the product in the prompt when none is configured.
const DefaultPlatform = "VedCool"

// Composer turns retrieved sections into an answer.
// It is safe for concurrent use.
type Composer struct {
	generator ai.Generator
	platform  string
	policy    retry.Policy
	logger    *slog.Logger
}

// Option configures a Composer.
type Option func(*Composer)

// WithPlatform sets the product name used in the prompt.
func WithPlatform(platform string) Option {
	return func(c *Composer) {
		if platform != "" {
			c.platform = platform
		}
	}
}

// WithRetryPolicy overrides retry.DefaultPolicy().
func WithRetryPolicy(policy retry.Policy) Option {
	return func(c *Composer) {
		c.policy = policy
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewComposer creates a composer around generator.
func NewComposer(generator ai.Generator, opts ...Option) (*Composer, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}
	c := &Composer{
		generator: generator,
		platform:  DefaultPlatform,
		policy:    retry.DefaultPolicy(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "composer")
	if c.policy.Logger == nil {
		c.policy.Logger = c.logger
	}
	return c, nil
}

// Compose builds the prompt for question and returns the model's answer.
// Failures after retries are wrapped in ErrGenerationFailed.
func (c *Composer) Compose(ctx context.Context, question string, sections []core.RetrievalResult) (string, error) {
	prompt, err := BuildPrompt(c.platform, question, sections)
	if err != nil {
		return "", err
	}

	used := make([]string, len(sections))
	for i, s := range sections {
		used[i] = fmt.Sprintf("'%s' (Sim: %.4f)", s.Heading, s.Similarity)
	}
	c.logger.Info("generating response", "sections", strings.Join(used, ", "))

	return c.Generate(ctx, prompt)
}

// Generate sends prompt to the model under the retry policy.
func (c *Composer) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := retry.Do(ctx, c.policy, func(ctx context.Context) (string, error) {
		text, err := c.generator.Generate(ctx, prompt)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			return "", ErrEmptyAnswer
		}
		return text, nil
	})
	if err != nil {
		c.logger.Error("failed to generate response", "err", err)
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	return strings.TrimSpace(text), nil
}
