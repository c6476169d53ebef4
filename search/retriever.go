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


package search

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/poiesic/manualqa/core"
	"github.com/poiesic/manualqa/embedding"
)

const (
	// DefaultThreshold is the minimum similarity for a section to be accepted.
	DefaultThreshold = 0.40

	// DefaultTopN is the size of the ranked shortlist.
	DefaultTopN = 3
)

// Retriever scores a fixed set of section records against questions.
// The records are never modified, so a Retriever is safe for concurrent use.
type Retriever struct {
	service   *embedding.Service
	records   []core.SectionRecord
	threshold float64
	topN      int
	maxTokens int
	logger    *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithThreshold sets the similarity threshold.
// Default is DefaultThreshold.
func WithThreshold(threshold float64) Option {
	return func(r *Retriever) error {
		if threshold < -1 || threshold > 1 {
			return ErrInvalidThreshold
		}
		r.threshold = threshold
		return nil
	}
}

// WithTopN sets how many ranked sections are considered.
// Default is DefaultTopN.
func WithTopN(topN int) Option {
	return func(r *Retriever) error {
		if topN < 1 {
			return ErrInvalidTopN
		}
		r.topN = topN
		return nil
	}
}

// WithMaxTokens bounds the question text sent for embedding.
// Default is embedding.MaxTokens.
func WithMaxTokens(maxTokens int) Option {
	return func(r *Retriever) error {
		r.maxTokens = maxTokens
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a retriever over records.
func NewRetriever(service *embedding.Service, records []core.SectionRecord, opts ...Option) (*Retriever, error) {
	if service == nil {
		return nil, ErrServiceRequired
	}

	r := &Retriever{
		service:   service,
		records:   records,
		threshold: DefaultThreshold,
		topN:      DefaultTopN,
		maxTokens: embedding.MaxTokens,
		logger:    slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "retriever")

	return r, nil
}

// Len returns the number of records in the pool, usable or not.
func (r *Retriever) Len() int {
	return len(r.records)
}

// Retrieve finds the sections most relevant to question.
// The only error returned is a cancelled or expired context; every other
// failure is reported through Result.Outcome.
func (r *Retriever) Retrieve(ctx context.Context, question string) (Result, error) {
	return r.RetrieveWithMonitor(ctx, question, nil)
}

// RetrieveWithMonitor is Retrieve with callbacks at each stage.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, question string, monitor SearchMonitor) (Result, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(question)

	result, err := r.retrieve(ctx, question, monitor)
	if err != nil {
		return Result{}, err
	}
	monitor.Finish(result)
	return result, nil
}

func (r *Retriever) retrieve(ctx context.Context, question string, monitor SearchMonitor) (Result, error) {
	r.logger.Info("embedding question", "question", question)

	text, dropped := embedding.Truncate(question, r.maxTokens)
	if dropped > 0 {
		r.logger.Warn("truncated question text", "dropped", dropped)
	}

	queryVector, err := r.service.Embed(ctx, text, core.RoleQuery)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, ctxErr
	}
	if err == nil && len(queryVector) > 0 {
		err = checkQuery(queryVector)
	}
	if err != nil || len(queryVector) == 0 {
		r.logger.Error("error generating question embedding", "err", err)
		return Result{Outcome: EmbeddingUnavailable, TopSimilarity: -1}, nil
	}
	monitor.AfterQueryEmbedding(len(queryVector))

	scored := make([]core.RetrievalResult, 0, len(r.records))
	for _, record := range r.records {
		similarity, err := r.score(queryVector, record)
		if err != nil {
			monitor.Skipped(record.Heading, err)
			continue
		}
		monitor.Scored(record.Heading, similarity)
		scored = append(scored, core.RetrievalResult{
			Similarity: similarity,
			Heading:    record.Heading,
			Body:       record.Body,
		})
	}

	if len(scored) == 0 {
		r.logger.Warn("no sections with valid embeddings available")
		return Result{Outcome: Unsearchable, TopSimilarity: -1}, nil
	}

	slices.SortStableFunc(scored, func(a, b core.RetrievalResult) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})

	shortlist := scored[:min(r.topN, len(scored))]
	for i, candidate := range shortlist {
		r.logger.Info("ranked section", "rank", i+1, "similarity", candidate.Similarity, "heading", candidate.Heading)
	}
	monitor.AfterRanking(shortlist)

	accepted := make([]core.RetrievalResult, 0, len(shortlist))
	for _, candidate := range shortlist {
		// Also stops at a NaN similarity.
		if !(candidate.Similarity >= r.threshold) {
			break
		}
		accepted = append(accepted, candidate)
	}

	top := scored[0].Similarity
	if len(accepted) == 0 {
		r.logger.Info("no sections found above threshold", "threshold", r.threshold, "highest", top)
		return Result{Outcome: NoRelevantContent, TopSimilarity: top}, nil
	}

	return Result{Outcome: Found, Sections: accepted, TopSimilarity: top}, nil
}

// checkQuery rejects query vectors that cannot be compared with any record.
func checkQuery(v []float32) error {
	for _, x := range v {
		if !isFinite(float64(x)) {
			return ErrNonFiniteVector
		}
	}
	if isZero(v) {
		return ErrZeroVector
	}
	return nil
}

func (r *Retriever) score(query []float32, record core.SectionRecord) (float64, error) {
	if !record.HasVector() {
		r.logger.Warn("skipping section due to invalid or empty embedding", "heading", record.Heading)
		return 0, ErrEmptyVector
	}
	similarity, err := CosineSimilarity(query, record.Vector)
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, ErrDimensionMismatch) {
			level = slog.LevelWarn
		}
		r.logger.Log(context.Background(), level, "error calculating cosine similarity", "heading", record.Heading, "err", err)
		return 0, err
	}
	return similarity, nil
}
