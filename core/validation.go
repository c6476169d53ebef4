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
	"fmt"
	"math"
)

// ValidateSectionRecord validates a SectionRecord before it enters the cache.
//
// Validation rules:
//   - Heading must not be empty
//   - Body must not be empty
//   - Vector must not be empty
//   - Vector components must be finite
//
// Vector dimensionality is NOT validated here; the retriever guards it at query time.
func ValidateSectionRecord(record *SectionRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidSectionRecord)
	}

	if record.Heading == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSectionRecord, ErrEmptyHeading)
	}

	if record.Body == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSectionRecord, ErrEmptyBody)
	}

	if !record.HasVector() {
		return fmt.Errorf("%w: %w", ErrInvalidSectionRecord, ErrEmptyVector)
	}

	for i, v := range record.Vector {
		if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %w at index %d", ErrInvalidSectionRecord, ErrNonFiniteVector, i)
		}
	}

	return nil
}

// ValidateRole validates that a Role has a known value.
func ValidateRole(role Role) error {
	if role != RoleDocument && role != RoleQuery {
		return fmt.Errorf("%w: value %d", ErrInvalidRole, role)
	}
	return nil
}
