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


package storage

import (
	"context"

	"github.com/poiesic/manualqa/core"
)

// Snapshot is the complete contents of a section cache.
type Snapshot struct {
	// Fingerprint identifies the manual text and embedding model the records were built from.
	Fingerprint core.Fingerprint
	// Records are the embedded sections in segmentation order.
	Records []core.SectionRecord
}

// SectionCache persists a single Snapshot.
type SectionCache interface {
	// Load returns the stored snapshot.
	// Returns ErrCacheMiss if nothing is stored and ErrMalformedCache
	// if the stored data fails structural validation.
	Load(ctx context.Context) (*Snapshot, error)

	// Save replaces the stored snapshot.
	// Every record must carry a heading, a body, and a non-empty vector.
	Save(ctx context.Context, snapshot *Snapshot) error

	// Clear removes the stored snapshot, if any.
	Clear(ctx context.Context) error

	// Close closes the storage backend and releases resources.
	Close() error
}
