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


package badger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/manualqa/core"
	"github.com/poiesic/manualqa/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *storage.Snapshot {
	return &storage.Snapshot{
		Fingerprint: core.FingerprintOf("manual text", "embeddinggemma"),
		Records: []core.SectionRecord{
			{Heading: "Login", Body: "Open the portal.", Vector: []float32{0.1, 0.2, 0.3}},
			{Heading: "Dashboard", Body: "Shows widgets.", Vector: []float32{0.3, 0.2, 0.1}},
			{Heading: "Reports", Body: "Export to PDF.", Vector: []float32{0.0, 1.0, 0.0}},
		},
	}
}

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true, nil)
	require.NoError(t, err)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	backend, err := OpenBackend(dir, false, nil)
	require.NoError(t, err)
	defer backend.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_PathIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := OpenBackend(path, false, nil)
	assert.ErrorContains(t, err, "not a directory")
}

func TestSectionCache_LoadEmpty(t *testing.T) {
	cache, err := NewMemoryCache()
	require.NoError(t, err)
	defer cache.Close()

	_, err = cache.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrCacheMiss)
}

func TestSectionCache_SaveLoad(t *testing.T) {
	cache, err := NewMemoryCache()
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	want := sampleSnapshot()
	require.NoError(t, cache.Save(ctx, want))

	got, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Fingerprint, got.Fingerprint)
	assert.Equal(t, want.Records, got.Records)
}

func TestSectionCache_SaveReplaces(t *testing.T) {
	cache, err := NewMemoryCache()
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	require.NoError(t, cache.Save(ctx, sampleSnapshot()))

	smaller := &storage.Snapshot{
		Fingerprint: core.FingerprintOf("other"),
		Records:     []core.SectionRecord{{Heading: "Only", Body: "one", Vector: []float32{1}}},
	}
	require.NoError(t, cache.Save(ctx, smaller))

	got, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, smaller.Records, got.Records)
	assert.Equal(t, smaller.Fingerprint, got.Fingerprint)
}

func TestSectionCache_SaveEmptySnapshot(t *testing.T) {
	cache, err := NewMemoryCache()
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	require.NoError(t, cache.Save(ctx, &storage.Snapshot{Fingerprint: 7}))

	got, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Records)
	assert.Equal(t, core.Fingerprint(7), got.Fingerprint)
}

func TestSectionCache_SaveRejectsRecordWithoutVector(t *testing.T) {
	cache, err := NewMemoryCache()
	require.NoError(t, err)
	defer cache.Close()

	snapshot := sampleSnapshot()
	snapshot.Records[1].Vector = nil

	err = cache.Save(context.Background(), snapshot)
	assert.ErrorIs(t, err, core.ErrEmptyVector)

	_, err = cache.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrCacheMiss)
}

func TestSectionCache_Clear(t *testing.T) {
	cache, err := NewMemoryCache()
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	require.NoError(t, cache.Save(ctx, sampleSnapshot()))
	require.NoError(t, cache.Clear(ctx))

	_, err = cache.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrCacheMiss)
}

func TestSectionCache_LoadRejectsTwoFieldRecord(t *testing.T) {
	cache, err := NewMemoryCache()
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	require.NoError(t, cache.Save(ctx, sampleSnapshot()))

	heading, body := "Login", "Open the portal."
	buf := make([]byte, varint.Int.Size(2)+ord.String.Size(heading)+ord.String.Size(body))
	n := varint.Int.Marshal(2, buf)
	n += ord.String.Marshal(heading, buf[n:])
	ord.String.Marshal(body, buf[n:])

	err = cache.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeSectionKey(0), buf); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	require.NoError(t, err)

	_, err = cache.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrMalformedCache)
}

func TestSectionCache_LoadRejectsCountMismatch(t *testing.T) {
	cache, err := NewMemoryCache()
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	require.NoError(t, cache.Save(ctx, sampleSnapshot()))

	err = cache.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeSectionKey(2)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	require.NoError(t, err)

	_, err = cache.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrMalformedCache)
}

func TestSectionCache_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	cache, err := OpenSectionCache(dir, nil)
	require.NoError(t, err)
	require.NoError(t, cache.Save(ctx, sampleSnapshot()))
	require.NoError(t, cache.Close())

	reopened, err := OpenSectionCache(dir, nil)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot().Records, got.Records)
}

func TestSectionCache_Closed(t *testing.T) {
	cache, err := NewMemoryCache()
	require.NoError(t, err)
	require.NoError(t, cache.Close())
	require.NoError(t, cache.Close())

	_, err = cache.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestSectionCache_CancelledContext(t *testing.T) {
	cache, err := NewMemoryCache()
	require.NoError(t, err)
	defer cache.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = cache.Save(ctx, sampleSnapshot())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMakeSectionKey_Ordering(t *testing.T) {
	assert.Equal(t, "sec:00000002", string(makeSectionKey(2)))
	assert.Less(t, string(makeSectionKey(9)), string(makeSectionKey(10)))
}
