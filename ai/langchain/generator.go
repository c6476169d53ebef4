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


package langchain

import (
	"context"
	"log/slog"

	"github.com/poiesic/manualqa/ai"
	"github.com/tmc/langchaingo/llms"
)

// Generator implements ai.Generator on top of a langchaingo model.
type Generator struct {
	model       llms.Model
	temperature float64
	logger      *slog.Logger
}

var _ ai.Generator = (*Generator)(nil)

// NewGenerator wraps a langchaingo model. A zero temperature leaves the model default.
func NewGenerator(model llms.Model, temperature float64, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
}

// Generate completes prompt with a single-turn call.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	var opts []llms.CallOption
	if g.temperature > 0 {
		opts = append(opts, llms.WithTemperature(g.temperature))
	}

	g.logger.Debug("generating completion", "promptLength", len(prompt))
	text, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, opts...)
	if err != nil {
		g.logger.Error("failed to generate completion", "err", err)
		return "", err
	}
	return text, nil
}
