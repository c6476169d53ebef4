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
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/manualqa/core"
	"github.com/poiesic/manualqa/storage"
)

// SectionCache stores a storage.Snapshot in BadgerDB.
//
// Records are written first and the fingerprint last, so an interrupted
// Save leaves no fingerprint behind and the next Load reports a miss.
type SectionCache struct {
	backend *Backend
}

var _ storage.SectionCache = (*SectionCache)(nil)

// NewSectionCache creates a section cache on top of an open backend.
// The cache takes ownership of the backend and closes it on Close.
func NewSectionCache(backend *Backend) *SectionCache {
	return &SectionCache{backend: backend}
}

// OpenSectionCache opens (or creates) an on-disk cache at path.
func OpenSectionCache(path string, logger *slog.Logger) (*SectionCache, error) {
	b, err := OpenBackend(path, false, logger)
	if err != nil {
		return nil, fmt.Errorf("opening cache at %s: %w", path, err)
	}
	return NewSectionCache(b), nil
}

// Load returns the stored snapshot.
func (c *SectionCache) Load(ctx context.Context) (*storage.Snapshot, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}

	snapshot := &storage.Snapshot{}
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(fingerprintKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrCacheMiss
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			fp, err := storage.UnmarshalFingerprint(val)
			if err != nil {
				return fmt.Errorf("%w: fingerprint: %w", storage.ErrMalformedCache, err)
			}
			snapshot.Fingerprint = fp
			return nil
		}); err != nil {
			return err
		}

		want, err := readCount(tx)
		if err != nil {
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(sectionRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			err := item.Value(func(val []byte) error {
				record, err := storage.UnmarshalSectionRecord(val)
				if err != nil {
					return fmt.Errorf("%w: %s: %w", storage.ErrMalformedCache, item.Key(), err)
				}
				snapshot.Records = append(snapshot.Records, *record)
				return nil
			})
			if err != nil {
				return err
			}
		}

		if len(snapshot.Records) != want {
			return fmt.Errorf("%w: found %d records, want %d", storage.ErrMalformedCache, len(snapshot.Records), want)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	c.backend.logger.Debug("loaded section cache", "records", len(snapshot.Records), "fingerprint", snapshot.Fingerprint)
	return snapshot, nil
}

func readCount(tx *badger.Txn) (int, error) {
	item, err := tx.Get([]byte(recordCountKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, fmt.Errorf("%w: missing record count", storage.ErrMalformedCache)
	}
	if err != nil {
		return 0, err
	}
	var count int
	err = item.Value(func(val []byte) error {
		n, err := strconv.Atoi(string(val))
		if err != nil || n < 0 {
			return fmt.Errorf("%w: record count %q", storage.ErrMalformedCache, val)
		}
		count = n
		return nil
	})
	return count, err
}

// Save replaces the stored snapshot.
func (c *SectionCache) Save(ctx context.Context, snapshot *storage.Snapshot) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	if snapshot == nil {
		return errors.New("snapshot is nil")
	}
	for i := range snapshot.Records {
		if err := core.ValidateSectionRecord(&snapshot.Records[i]); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}

	if err := c.Clear(ctx); err != nil {
		return err
	}

	err := c.backend.WithBatch(func(wb *badger.WriteBatch) error {
		for i := range snapshot.Records {
			if err := wb.Set(makeSectionKey(i), storage.MarshalSectionRecord(&snapshot.Records[i])); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing section records: %w", err)
	}

	err = c.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(recordCountKey), []byte(strconv.Itoa(len(snapshot.Records)))); err != nil {
			return err
		}
		if err := tx.Set([]byte(fingerprintKey), storage.MarshalFingerprint(snapshot.Fingerprint)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("writing cache metadata: %w", err)
	}

	c.backend.logger.Info("saved section cache", "records", len(snapshot.Records))
	return nil
}

// Clear removes the stored snapshot.
func (c *SectionCache) Clear(ctx context.Context) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	// Metadata goes first so a half-cleared cache reads as a miss.
	if err := c.backend.DropPrefix([]byte(metaPrefix)); err != nil {
		return err
	}
	return c.backend.DropPrefix([]byte(sectionRecordPrefix))
}

// Close closes the underlying backend.
func (c *SectionCache) Close() error {
	if c.backend.IsClosed() {
		return nil
	}
	return c.backend.Close()
}

func (c *SectionCache) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return nil
}
