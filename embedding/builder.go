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
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/manualqa/core"
	"github.com/poiesic/manualqa/storage"
)

// Builder embeds manual sections and maintains the section cache.
type Builder struct {
	service   *Service
	cache     storage.SectionCache
	pool      *ants.Pool
	maxTokens int
	progress  io.Writer
	logger    *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithPoolSize sets how many sections are embedded concurrently.
// Default is 1, which embeds sections one at a time in manual order.
func WithPoolSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}
		if b.pool != nil {
			b.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		b.pool = pool
		return nil
	}
}

// WithMaxTokens sets the per-section input budget.
// Default is MaxTokens.
func WithMaxTokens(maxTokens int) Option {
	return func(b *Builder) error {
		b.maxTokens = maxTokens
		return nil
	}
}

// WithProgress writes a progress line to w while sections are embedded.
func WithProgress(w io.Writer) Option {
	return func(b *Builder) error {
		b.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a section builder.
func NewBuilder(service *Service, cache storage.SectionCache, opts ...Option) (*Builder, error) {
	if service == nil {
		return nil, ErrServiceRequired
	}
	if cache == nil {
		return nil, ErrCacheRequired
	}

	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		service:   service,
		cache:     cache,
		pool:      pool,
		maxTokens: MaxTokens,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(b); optErr != nil {
			b.Release()
			return nil, optErr
		}
	}
	b.logger = b.logger.With("component", "builder")

	return b, nil
}

// LoadOrBuild returns the cached records when the cache holds a snapshot
// with the given fingerprint. Otherwise it embeds every section, saves the
// result, and returns it. rebuild skips the cache lookup.
//
// A cache that cannot be read is rebuilt in full. A failure to save is
// logged and does not fail the call.
func (b *Builder) LoadOrBuild(ctx context.Context, sections []core.Section, fingerprint core.Fingerprint, rebuild bool) ([]core.SectionRecord, error) {
	if !rebuild {
		snapshot, err := b.cache.Load(ctx)
		switch {
		case err == nil && snapshot.Fingerprint != fingerprint:
			b.logger.Info("cache was built from a different manual or model, recomputing embeddings")
		case err == nil && len(snapshot.Records) > 0:
			b.logger.Info("loaded embeddings from cache", "records", len(snapshot.Records))
			return snapshot.Records, nil
		case err == nil:
			b.logger.Info("embedding cache is empty")
		case errors.Is(err, storage.ErrCacheMiss):
			b.logger.Info("no embedding cache found")
		case errors.Is(err, storage.ErrMalformedCache):
			b.logger.Warn("cached data invalid, recomputing embeddings", "err", err)
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			b.logger.Warn("error loading embeddings cache", "err", err)
		}
	}

	records, err := b.Build(ctx, sections)
	if err != nil {
		return nil, err
	}

	if err := b.cache.Save(ctx, &storage.Snapshot{Fingerprint: fingerprint, Records: records}); err != nil {
		b.logger.Error("error saving embeddings cache", "err", err)
	}
	return records, nil
}

// Build embeds every section and returns the records that succeeded, in
// section order. Sections that cannot be embedded are logged and skipped.
// Returns ErrAllEmbeddingsFailed if nothing could be embedded.
func (b *Builder) Build(ctx context.Context, sections []core.Section) ([]core.SectionRecord, error) {
	b.logger.Info("computing embeddings for manual sections", "sections", len(sections))

	tracker := NewProgressTracker(b.progress, len(sections))
	tracker.Start()

	slots := make([]*core.SectionRecord, len(sections))
	var wg sync.WaitGroup
	for i, section := range sections {
		wg.Add(1)
		err := b.pool.Submit(func() {
			defer wg.Done()
			slots[i] = b.embedSection(ctx, i, len(sections), section)
			tracker.Done(section.Heading, slots[i] != nil)
		})
		if err != nil {
			wg.Done()
			b.logger.Error("failed to schedule section", "heading", section.Heading, "err", err)
		}
	}
	wg.Wait()
	tracker.Finish()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := make([]core.SectionRecord, 0, len(sections))
	for _, record := range slots {
		if record != nil {
			records = append(records, *record)
		}
	}
	if len(records) == 0 {
		b.logger.Error("no embeddings computed")
		return nil, ErrAllEmbeddingsFailed
	}

	b.logger.Info("embedded manual sections", "embedded", len(records), "skipped", len(sections)-len(records), "elapsed", tracker.Elapsed())
	return records, nil
}

func (b *Builder) embedSection(ctx context.Context, i, total int, section core.Section) *core.SectionRecord {
	if ctx.Err() != nil {
		return nil
	}
	b.logger.Info("processing section", "index", i+1, "total", total, "heading", section.Heading)

	text := FormatSectionText(section.Heading, section.Body)
	truncated, dropped := Truncate(text, b.maxTokens)
	if dropped > 0 {
		b.logger.Warn("truncated section text", "heading", section.Heading, "dropped", dropped)
	}
	if strings.TrimSpace(truncated) == "" {
		b.logger.Warn("skipping empty section after truncation", "heading", section.Heading)
		return nil
	}

	vector, err := b.service.Embed(ctx, truncated, core.RoleDocument)
	if err != nil {
		b.logger.Error("failed to embed section", "heading", section.Heading, "err", err)
		return nil
	}

	record := &core.SectionRecord{
		Heading: section.Heading,
		Body:    section.Body,
		Vector:  vector,
	}
	if err := core.ValidateSectionRecord(record); err != nil {
		b.logger.Warn("skipping section due to invalid embedding", "heading", section.Heading, "err", err)
		return nil
	}
	return record
}

// Clear removes any cached snapshot.
func (b *Builder) Clear(ctx context.Context) error {
	return b.cache.Clear(ctx)
}

// Release releases the worker pool.
// The builder should not be used after calling Release.
func (b *Builder) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}
