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


package embedding

import (
	"errors"
	"fmt"

	"github.com/poiesic/manualqa/core"
)

var (
	// ErrEmbedderRequired is returned when a nil embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrServiceRequired is returned when a nil service is provided.
	ErrServiceRequired = errors.New("embedding service is required")

	// ErrCacheRequired is returned when a nil section cache is provided.
	ErrCacheRequired = errors.New("section cache is required")

	// ErrAllEmbeddingsFailed is returned when no section could be embedded.
	ErrAllEmbeddingsFailed = fmt.Errorf("%w: no section could be embedded", core.ErrEmbeddingFailure)
)
