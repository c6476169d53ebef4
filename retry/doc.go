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


// Package retry runs provider calls under an explicit retry policy.
//
// A Policy bundles the three decisions a retry loop makes: how many attempts
// to make, how long to wait between them, and which errors are worth another
// attempt. Embedding and generation calls share DefaultPolicy: five attempts
// with randomized exponential backoff between one and thirty seconds.
//
//	vector, err := retry.Do(ctx, retry.DefaultPolicy(), func(ctx context.Context) ([]float32, error) {
//	    return embedder.EmbedText(ctx, text, core.RoleQuery)
//	})
package retry
