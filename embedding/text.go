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

import "fmt"

const (
	// MaxTokens is the default input budget for one embedding request.
	MaxTokens = 8000

	// CharsPerToken approximates characters per token for budgeting.
	CharsPerToken = 4
)

// Truncate keeps at most maxTokens*CharsPerToken characters of text and
// reports how many characters were dropped. Characters are counted as runes.
// A non-positive maxTokens disables truncation.
func Truncate(text string, maxTokens int) (string, int) {
	if maxTokens <= 0 {
		return text, 0
	}
	maxChars := maxTokens * CharsPerToken

	count := 0
	for i := range text {
		if count == maxChars {
			dropped := 0
			for range text[i:] {
				dropped++
			}
			return text[:i], dropped
		}
		count++
	}
	return text, 0
}

// FormatSectionText renders a section the way it is sent for embedding.
func FormatSectionText(heading, body string) string {
	return fmt.Sprintf("Section Title: %s\n\nContent:\n%s", heading, body)
}
