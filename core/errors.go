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

import "errors"

// Pipeline failures
var (
	// ErrSegmentationFailure indicates no sections could be recovered from the manual.
	ErrSegmentationFailure = errors.New("segmentation failed")

	// ErrEmbeddingFailure indicates the embedding provider could not produce a vector.
	ErrEmbeddingFailure = errors.New("embedding failed")
)

// Domain validation errors
var (
	// ErrInvalidSectionRecord indicates a SectionRecord failed validation.
	ErrInvalidSectionRecord = errors.New("invalid section record")

	// ErrEmptyHeading indicates the Heading field is empty.
	ErrEmptyHeading = errors.New("heading cannot be empty")

	// ErrEmptyBody indicates the Body field is empty.
	ErrEmptyBody = errors.New("body cannot be empty")

	// ErrEmptyVector indicates the Vector field is empty.
	ErrEmptyVector = errors.New("vector cannot be empty")

	// ErrNonFiniteVector indicates a vector component is NaN or infinite.
	ErrNonFiniteVector = errors.New("vector has non-finite components")

	// ErrInvalidRole indicates an unknown embedding role.
	ErrInvalidRole = errors.New("invalid embedding role")
)
