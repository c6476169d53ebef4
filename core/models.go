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


package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint identifies a manual (and the model that embedded it) by content.
// Two builds with the same fingerprint produce interchangeable caches.
type Fingerprint uint64

// FingerprintOf hashes the given parts with BLAKE2b into a 64-bit fingerprint.
// Parts are length-prefixed so ("ab", "c") and ("a", "bc") differ.
func FingerprintOf(parts ...string) Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	var size [8]byte
	for _, part := range parts {
		binary.LittleEndian.PutUint64(size[:], uint64(len(part)))
		h.Write(size[:])
		h.Write([]byte(part))
	}
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}

// Role tells the embedding provider how a vector will be used.
type Role int

const (
	// RoleDocument embeds text that will be stored and searched.
	RoleDocument Role = iota + 1
	// RoleQuery embeds a question at search time.
	RoleQuery
)

func (r Role) String() string {
	switch r {
	case RoleDocument:
		return "document"
	case RoleQuery:
		return "query"
	default:
		return "unknown"
	}
}

// Section is the atomic retrievable unit of a manual.
type Section struct {
	Heading  string // Display heading as found in the table of contents
	MatchKey string // Uppercased heading, used only to locate the heading in the body
	Body     string // Non-blank, trimmed lines joined with "\n"
}

// SectionRecord is a Section with its embedding vector.
// A record without a vector is never persisted and never searched.
type SectionRecord struct {
	Heading string
	Body    string
	Vector  []float32
}

// HasVector reports whether the record carries a usable embedding.
func (r SectionRecord) HasVector() bool {
	return len(r.Vector) > 0
}

// RetrievalResult is a section ranked against a question.
type RetrievalResult struct {
	Similarity float64 // In [-1, 1]; 1 means identical direction
	Heading    string
	Body       string
}
