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

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 1}, []float32{-1, -1}, -1},
		{"sixty degrees", []float32{1, 0}, []float32{0.5, 0.8660254}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			assert.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestCosineSimilarity_Symmetric(t *testing.T) {
	pairs := []struct {
		name string
		a, b []float32
	}{
		{"mixed signs", []float32{0.3, -1.7, 2.2, 0.05}, []float32{-0.9, 0.4, -0.1, 1.3}},
		{"small magnitudes", []float32{1e-3, 2e-4, -5e-3}, []float32{7e-4, -1e-3, 3e-3}},
		{"high dimension", []float32{0.12, 0.98, -0.33, 0.47, -0.81, 0.05, 0.66, -0.27}, []float32{-0.45, 0.21, 0.9, -0.6, 0.14, 0.77, -0.38, 0.52}},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			ab, err := CosineSimilarity(tt.a, tt.b)
			assert.NoError(t, err)
			ba, err := CosineSimilarity(tt.b, tt.a)
			assert.NoError(t, err)
			assert.Equal(t, ab, ba)
		})
	}
}

func TestCosineSimilarity_Errors(t *testing.T) {
	tests := []struct {
		name    string
		a, b    []float32
		wantErr error
	}{
		{"empty", []float32{}, []float32{1}, ErrEmptyVector},
		{"nil", nil, nil, ErrEmptyVector},
		{"dimension mismatch", []float32{1, 0}, []float32{1, 0, 0}, ErrDimensionMismatch},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, ErrZeroVector},
		{"NaN component", []float32{float32(math.NaN()), 1}, []float32{1, 0}, ErrNonFiniteVector},
		{"infinite component", []float32{1, 0}, []float32{float32(math.Inf(1)), 0}, ErrNonFiniteVector},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CosineSimilarity(tt.a, tt.b)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
