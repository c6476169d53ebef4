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
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/poiesic/manualqa/ai/mock"
	"github.com/poiesic/manualqa/core"
	"github.com/poiesic/manualqa/storage"
	"github.com/poiesic/manualqa/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSections = []core.Section{
	{Heading: "Login", MatchKey: "LOGIN", Body: "Open the portal.\nEnter your credentials."},
	{Heading: "Dashboard", MatchKey: "DASHBOARD", Body: "The dashboard shows widgets."},
	{Heading: "Reports", MatchKey: "REPORTS", Body: "Export reports to PDF."},
}

func newTestBuilder(t *testing.T, embedder *mock.MockEmbedder, opts ...Option) (*Builder, *badger.SectionCache) {
	t.Helper()
	cache, err := badger.NewMemoryCache()
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	builder, err := NewBuilder(newTestService(t, embedder), cache, opts...)
	require.NoError(t, err)
	t.Cleanup(builder.Release)
	return builder, cache
}

func TestNewBuilder_RequiresDependencies(t *testing.T) {
	_, err := NewBuilder(nil, nil)
	assert.ErrorIs(t, err, ErrServiceRequired)

	service, err := NewService(mock.NewMockEmbedder())
	require.NoError(t, err)
	_, err = NewBuilder(service, nil)
	assert.ErrorIs(t, err, ErrCacheRequired)
}

func TestBuild_EmbedsEverySectionInOrder(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	builder, _ := newTestBuilder(t, embedder)

	records, err := builder.Build(context.Background(), testSections)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, record := range records {
		assert.Equal(t, testSections[i].Heading, record.Heading)
		assert.Equal(t, testSections[i].Body, record.Body)
		want := mock.DeterministicVector(FormatSectionText(testSections[i].Heading, testSections[i].Body), mock.Dimensions)
		assert.Equal(t, want, record.Vector)
	}
	for _, role := range embedder.Roles() {
		assert.Equal(t, core.RoleDocument, role)
	}
}

func TestBuild_PreservesOrderWithConcurrentPool(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	builder, _ := newTestBuilder(t, embedder, WithPoolSize(4))

	sections := make([]core.Section, 20)
	for i := range sections {
		sections[i] = core.Section{Heading: strings.Repeat("H", i+3), Body: "body"}
	}

	records, err := builder.Build(context.Background(), sections)
	require.NoError(t, err)
	require.Len(t, records, len(sections))
	for i := range records {
		assert.Equal(t, sections[i].Heading, records[i].Heading)
	}
}

func TestBuild_SkipsFailedSections(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, text string, _ core.Role) ([]float32, error) {
		if strings.Contains(text, "Dashboard") {
			return nil, errors.New("provider rejected input")
		}
		return []float32{1, 2, 3}, nil
	}
	builder, _ := newTestBuilder(t, embedder)

	records, err := builder.Build(context.Background(), testSections)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Login", records[0].Heading)
	assert.Equal(t, "Reports", records[1].Heading)
}

func TestBuild_AllFailed(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(context.Context, string, core.Role) ([]float32, error) {
		return []float32{}, nil
	}
	builder, _ := newTestBuilder(t, embedder)

	_, err := builder.Build(context.Background(), testSections)
	assert.ErrorIs(t, err, ErrAllEmbeddingsFailed)
	assert.ErrorIs(t, err, core.ErrEmbeddingFailure)
}

func TestBuild_TruncatesLongSections(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	var seen []int
	embedder.EmbedTextFunc = func(_ context.Context, text string, _ core.Role) ([]float32, error) {
		seen = append(seen, len(text))
		return []float32{1}, nil
	}
	builder, _ := newTestBuilder(t, embedder, WithMaxTokens(10))

	records, err := builder.Build(context.Background(), []core.Section{
		{Heading: "Long", Body: strings.Repeat("a", 500)},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []int{40}, seen)
	assert.Len(t, records[0].Body, 500)
}

func TestBuild_ReportsProgress(t *testing.T) {
	var out bytes.Buffer
	builder, _ := newTestBuilder(t, mock.NewMockEmbedder(), WithProgress(&out))

	_, err := builder.Build(context.Background(), testSections)
	require.NoError(t, err)
	for _, section := range testSections {
		assert.Contains(t, out.String(), "'"+section.Heading+"'")
	}
	assert.Contains(t, out.String(), "section 3/3")
	assert.Contains(t, out.String(), "Embedded 3 of 3 sections")
}

func TestBuild_SkipsNonFiniteEmbeddings(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, text string, _ core.Role) ([]float32, error) {
		switch {
		case strings.Contains(text, "Dashboard"):
			return []float32{1, float32(math.NaN()), 0}, nil
		case strings.Contains(text, "Reports"):
			return []float32{float32(math.Inf(1)), 0, 0}, nil
		}
		return []float32{1, 0, 0}, nil
	}
	var out bytes.Buffer
	builder, cache := newTestBuilder(t, embedder, WithProgress(&out))
	ctx := context.Background()
	fp := core.FingerprintOf("manual", "model")

	records, err := builder.LoadOrBuild(ctx, testSections, fp, false)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Login", records[0].Heading)
	assert.Contains(t, out.String(), "Skipped section")

	snapshot, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, snapshot.Records)
}

func TestBuild_CancelledContext(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	builder, _ := newTestBuilder(t, embedder)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := builder.Build(ctx, testSections)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, embedder.CallCount())
}

func TestLoadOrBuild_BuildsAndSaves(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	builder, cache := newTestBuilder(t, embedder)
	ctx := context.Background()
	fp := core.FingerprintOf("manual", "model")

	records, err := builder.LoadOrBuild(ctx, testSections, fp, false)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	snapshot, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, fp, snapshot.Fingerprint)
	assert.Equal(t, records, snapshot.Records)
}

func TestLoadOrBuild_ReusesMatchingCache(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	builder, _ := newTestBuilder(t, embedder)
	ctx := context.Background()
	fp := core.FingerprintOf("manual", "model")

	first, err := builder.LoadOrBuild(ctx, testSections, fp, false)
	require.NoError(t, err)
	calls := embedder.CallCount()

	second, err := builder.LoadOrBuild(ctx, testSections, fp, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, calls, embedder.CallCount(), "cache hit must not call the provider")
}

func TestLoadOrBuild_FingerprintMismatchRebuilds(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	builder, cache := newTestBuilder(t, embedder)
	ctx := context.Background()

	_, err := builder.LoadOrBuild(ctx, testSections, core.FingerprintOf("old manual"), false)
	require.NoError(t, err)
	calls := embedder.CallCount()

	newFP := core.FingerprintOf("new manual")
	_, err = builder.LoadOrBuild(ctx, testSections, newFP, false)
	require.NoError(t, err)
	assert.Equal(t, 2*calls, embedder.CallCount())

	snapshot, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, newFP, snapshot.Fingerprint)
}

func TestLoadOrBuild_RebuildIgnoresCache(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	builder, _ := newTestBuilder(t, embedder)
	ctx := context.Background()
	fp := core.FingerprintOf("manual")

	_, err := builder.LoadOrBuild(ctx, testSections, fp, false)
	require.NoError(t, err)
	calls := embedder.CallCount()

	_, err = builder.LoadOrBuild(ctx, testSections, fp, true)
	require.NoError(t, err)
	assert.Equal(t, 2*calls, embedder.CallCount())
}

// failingCache reports a malformed snapshot and refuses to save.
type failingCache struct {
	saves int
}

func (c *failingCache) Load(context.Context) (*storage.Snapshot, error) {
	return nil, storage.ErrMalformedCache
}

func (c *failingCache) Save(context.Context, *storage.Snapshot) error {
	c.saves++
	return errors.New("disk full")
}

func (c *failingCache) Clear(context.Context) error { return nil }
func (c *failingCache) Close() error                { return nil }

func TestLoadOrBuild_MalformedCacheAndSaveFailure(t *testing.T) {
	cache := &failingCache{}
	builder, err := NewBuilder(newTestService(t, mock.NewMockEmbedder()), cache)
	require.NoError(t, err)
	defer builder.Release()

	records, err := builder.LoadOrBuild(context.Background(), testSections, 1, false)
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, 1, cache.saves)
}

func TestLoadOrBuild_AllFailedIsNotSaved(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(context.Context, string, core.Role) ([]float32, error) {
		return nil, errors.New("down")
	}
	builder, cache := newTestBuilder(t, embedder)
	ctx := context.Background()

	_, err := builder.LoadOrBuild(ctx, testSections, 1, false)
	assert.ErrorIs(t, err, ErrAllEmbeddingsFailed)

	_, err = cache.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrCacheMiss)
}
