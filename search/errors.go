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

import "errors"

var (
	// ErrServiceRequired is returned when an embedding service is not provided.
	ErrServiceRequired = errors.New("embedding service required")

	// ErrInvalidThreshold is returned for a similarity threshold outside [-1, 1].
	ErrInvalidThreshold = errors.New("similarity threshold must be between -1 and 1")

	// ErrInvalidTopN is returned when top N is less than 1.
	ErrInvalidTopN = errors.New("top N must be at least 1")

	// ErrEmptyVector indicates a vector with no elements.
	ErrEmptyVector = errors.New("empty vector")

	// ErrZeroVector indicates a vector with zero magnitude.
	ErrZeroVector = errors.New("zero magnitude vector")

	// ErrNonFiniteVector indicates a vector whose components are NaN or infinite,
	// or whose products overflow.
	ErrNonFiniteVector = errors.New("non-finite vector")

	// ErrDimensionMismatch indicates vectors of different lengths.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
