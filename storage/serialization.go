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
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/manualqa/core"
)

// SectionRecordFields is the field count written ahead of every record.
const SectionRecordFields = 3

const float32Size = 4

// SectionRecordMUS serializes core.SectionRecord values.
var SectionRecordMUS = sectionRecordSer{}

type sectionRecordSer struct{}

func (s sectionRecordSer) Marshal(r core.SectionRecord, bs []byte) (n int) {
	n = varint.Int.Marshal(SectionRecordFields, bs)
	n += ord.String.Marshal(r.Heading, bs[n:])
	n += ord.String.Marshal(r.Body, bs[n:])
	n += varint.Int.Marshal(len(r.Vector), bs[n:])
	for _, v := range r.Vector {
		n += raw.Float32.Marshal(v, bs[n:])
	}
	return
}

func (s sectionRecordSer) Unmarshal(bs []byte) (r core.SectionRecord, n int, err error) {
	fields, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if fields != SectionRecordFields {
		err = fmt.Errorf("%w: record has %d fields, want %d", ErrMalformedCache, fields, SectionRecordFields)
		return
	}

	var n1 int
	r.Heading, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Body, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	var length int
	length, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if length < 0 || length*float32Size > len(bs)-n {
		err = fmt.Errorf("%w: vector of %d elements in %d bytes", ErrTruncatedData, length, len(bs)-n)
		return
	}

	r.Vector = make([]float32, length)
	for i := range r.Vector {
		r.Vector[i], n1, err = raw.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s sectionRecordSer) Size(r core.SectionRecord) (size int) {
	size = varint.Int.Size(SectionRecordFields)
	size += ord.String.Size(r.Heading)
	size += ord.String.Size(r.Body)
	size += varint.Int.Size(len(r.Vector))
	return size + len(r.Vector)*float32Size
}

func (s sectionRecordSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// MarshalSectionRecord serializes a SectionRecord to bytes.
func MarshalSectionRecord(record *core.SectionRecord) []byte {
	buf := make([]byte, SectionRecordMUS.Size(*record))
	SectionRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalSectionRecord deserializes a SectionRecord from bytes.
// Trailing bytes after the record are treated as malformed.
func UnmarshalSectionRecord(data []byte) (*core.SectionRecord, error) {
	record, n, err := SectionRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedCache, len(data)-n)
	}
	return &record, nil
}

// MarshalFingerprint serializes a Fingerprint to bytes.
func MarshalFingerprint(fp core.Fingerprint) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(fp)))
	varint.Uint64.Marshal(uint64(fp), buf)
	return buf
}

// UnmarshalFingerprint deserializes a Fingerprint from bytes.
func UnmarshalFingerprint(data []byte) (core.Fingerprint, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	return core.Fingerprint(v), err
}
