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


package segment

import (
	"errors"
	"fmt"

	"github.com/poiesic/manualqa/core"
)

var (
	// ErrNoTableOfContents is returned when the contents marker is absent.
	ErrNoTableOfContents = fmt.Errorf("%w: table of contents not found", core.ErrSegmentationFailure)

	// ErrNoContentsEntries is returned when the contents listing yields no usable headings.
	ErrNoContentsEntries = fmt.Errorf("%w: no valid table of contents entries", core.ErrSegmentationFailure)

	// ErrNoSections is returned when no heading could be located in the body, or every section was empty.
	ErrNoSections = fmt.Errorf("%w: no sections resolved", core.ErrSegmentationFailure)

	// ErrInvalidOptions is returned by NewSegmenter for non-positive thresholds.
	ErrInvalidOptions = errors.New("invalid segmenter options")
)
