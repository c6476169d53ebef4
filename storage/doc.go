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


// Package storage defines the persistence contract for the section embedding
// cache and the binary codec used to store it.
//
// A cache holds one snapshot: the fingerprint of the manual and embedding
// model it was built from, and the ordered list of section records. It is
// written once by the build phase and read once at startup; there is no
// partial update.
//
// # Record Format
//
// Each record is encoded with mus-go as
//
//	varint field count (always 3)
//	string heading
//	string body
//	varint vector length, then one raw float32 per element
//
// The leading field count lets a reader reject records written with a
// different shape. Any record that fails to decode makes the whole snapshot
// invalid (ErrMalformedCache) and callers rebuild from scratch.
//
// # Backends
//
// The storage/badger package provides the BadgerDB implementation, including
// an in-memory variant for tests.
package storage
