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


package manualqa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/poiesic/manualqa/ai"
	"github.com/poiesic/manualqa/ai/googleai"
	"github.com/poiesic/manualqa/ai/openai"
	"github.com/poiesic/manualqa/answer"
	"github.com/poiesic/manualqa/config"
	"github.com/poiesic/manualqa/core"
	"github.com/poiesic/manualqa/embedding"
	"github.com/poiesic/manualqa/manual"
	"github.com/poiesic/manualqa/search"
	"github.com/poiesic/manualqa/segment"
	"github.com/poiesic/manualqa/storage"
	"github.com/poiesic/manualqa/storage/badger"
)

// ErrEmptyQuestion is returned by Ask for a blank question.
var ErrEmptyQuestion = errors.New("question cannot be empty")

// Assistant answers questions about one manual. It is built once by Open
// and is read-only afterwards, so Ask is safe to call concurrently.
type Assistant struct {
	provider   ai.AIProvider
	retriever  *search.Retriever
	composer   *answer.Composer
	manualName string
	logger     *slog.Logger
}

// Option configures Open.
type Option func(*options)

type options struct {
	cfg        *config.Config
	provider   ai.AIProvider
	cache      storage.SectionCache
	manualText *string
	rebuild    bool
	progress   io.Writer
	logger     *slog.Logger
}

// WithConfig sets the configuration. Default is config.Default().
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithProvider uses provider instead of building one from the configuration.
// The assistant closes it on Close.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithCache uses cache instead of opening the configured cache directory.
// The caller keeps ownership of cache.
func WithCache(cache storage.SectionCache) Option {
	return func(o *options) {
		o.cache = cache
	}
}

// WithManualText uses text as the manual instead of loading the configured source.
func WithManualText(text string) Option {
	return func(o *options) {
		o.manualText = &text
	}
}

// WithRebuild discards any cached embeddings.
func WithRebuild(rebuild bool) Option {
	return func(o *options) {
		o.rebuild = rebuild
	}
}

// WithProgress writes embedding progress to w.
func WithProgress(w io.Writer) Option {
	return func(o *options) {
		o.progress = w
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Open loads and segments the manual, loads or builds the section embeddings,
// and returns an assistant ready to answer questions. A manual that yields
// no sections, or no embeddable sections, is an error.
func Open(ctx context.Context, opts ...Option) (*Assistant, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.cfg == nil {
		o.cfg = config.Default()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	cfg, logger := o.cfg, o.logger

	if o.provider == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	var text string
	if o.manualText != nil {
		text = *o.manualText
	} else {
		loaded, err := manual.NewLoader(logger).Load(ctx, cfg.Manual.Source)
		if err != nil {
			return nil, err
		}
		text = loaded
	}

	sections, err := Segment(text, cfg, logger)
	if err != nil {
		return nil, err
	}

	provider := o.provider
	if provider == nil {
		provider, err = NewProvider(ctx, cfg.AIConfig())
		if err != nil {
			return nil, fmt.Errorf("creating AI provider: %w", err)
		}
	}

	assistant, err := build(ctx, o, provider, text, sections)
	if err != nil {
		if closeErr := provider.Close(); closeErr != nil {
			logger.Error("error closing AI provider", "err", closeErr)
		}
		return nil, err
	}
	return assistant, nil
}

func build(ctx context.Context, o *options, provider ai.AIProvider, text string, sections []core.Section) (*Assistant, error) {
	cfg, logger := o.cfg, o.logger
	policy := cfg.RetryPolicy()

	cache := o.cache
	if cache == nil {
		opened, err := badger.OpenSectionCache(cfg.Cache.Dir, logger)
		if err != nil {
			return nil, err
		}
		// The cache is only needed while building.
		defer func() {
			if err := opened.Close(); err != nil {
				logger.Error("error closing section cache", "err", err)
			}
		}()
		cache = opened
	}

	service, err := embedding.NewService(provider.Embedder(),
		embedding.WithRetryPolicy(policy),
		embedding.WithServiceLogger(logger))
	if err != nil {
		return nil, err
	}

	builder, err := embedding.NewBuilder(service, cache,
		embedding.WithPoolSize(cfg.Embedding.Workers),
		embedding.WithMaxTokens(cfg.Embedding.MaxTokens),
		embedding.WithProgress(o.progress),
		embedding.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer builder.Release()

	fingerprint := core.FingerprintOf(text, cfg.AI.Provider, cfg.AI.EmbeddingModel)
	records, err := builder.LoadOrBuild(ctx, sections, fingerprint, o.rebuild)
	if err != nil {
		return nil, err
	}

	retriever, err := search.NewRetriever(service, records,
		search.WithThreshold(cfg.Retrieval.Threshold),
		search.WithTopN(cfg.Retrieval.TopN),
		search.WithMaxTokens(cfg.Embedding.MaxTokens),
		search.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	composer, err := answer.NewComposer(provider.Generator(),
		answer.WithPlatform(cfg.Manual.Name),
		answer.WithRetryPolicy(policy),
		answer.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	logger.Info("assistant ready", "sections", len(sections), "searchable", len(records))
	return &Assistant{
		provider:   provider,
		retriever:  retriever,
		composer:   composer,
		manualName: cfg.Manual.Name,
		logger:     logger,
	}, nil
}

// Segment splits manual text with the configured segmenter options.
func Segment(text string, cfg *config.Config, logger *slog.Logger) ([]core.Section, error) {
	opts := cfg.SegmentOptions()
	opts.Logger = logger
	segmenter, err := segment.NewSegmenter(opts)
	if err != nil {
		return nil, err
	}
	return segmenter.Segment(text)
}

// NewProvider creates the AI provider named by cfg.Provider.
func NewProvider(ctx context.Context, cfg *ai.Config) (ai.AIProvider, error) {
	cfg.Normalize()
	switch cfg.Provider {
	case ai.ProviderGoogleAI:
		return googleai.NewProvider(ctx, cfg)
	case ai.ProviderOpenAI:
		return openai.NewProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

// Sections returns how many sections can be searched.
func (a *Assistant) Sections() int {
	return a.retriever.Len()
}

// Ask answers question from the manual.
//
// When no section is relevant, or the question or sections cannot be
// embedded, the returned answer is a fixed explanatory message and the error
// is nil. Generation failures wrap answer.ErrGenerationFailed.
func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {
	return a.AskWithMonitor(ctx, question, nil)
}

// AskWithMonitor is Ask with monitor observing the section search.
// A nil monitor is allowed.
func (a *Assistant) AskWithMonitor(ctx context.Context, question string, monitor search.SearchMonitor) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	result, err := a.retriever.RetrieveWithMonitor(ctx, question, monitor)
	if err != nil {
		return "", err
	}
	if result.Outcome != search.Found {
		a.logger.Info("no answer from manual", "outcome", result.Outcome)
		return result.Message(a.manualName), nil
	}

	return a.composer.Compose(ctx, question, result.Sections)
}

// Close releases the AI provider.
func (a *Assistant) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
		return err
	}
	return nil
}
