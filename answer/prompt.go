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


package answer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/poiesic/manualqa/core"
)

// ErrNoSections is returned when a prompt is requested without context.
var ErrNoSections = errors.New("no sections to compose from")

const instructions = `You are a professional and helpful AI assistant for the %[1]s platform. Your goal is to provide clear, concise, and easy-to-understand answers to user questions based *exclusively* on the provided excerpts from the %[1]s user manual.

Follow these instructions carefully:
1. Base your answer *only* on the text provided in the 'CONTEXT FROM MANUAL' section(s) below.
2. Answer the 'USER'S QUESTION' concisely and accurately.
3. If the answer is found across multiple provided sections, synthesize the information smoothly.
4. If the provided context directly answers the question, provide the answer directly.
5. If the provided context mentions the topic but does not contain the specific details to fully answer the question, state what information is available and what is missing.
6. If the provided context does not contain any relevant information to answer the question, clearly state that the information is not found in the provided excerpts of the manual.
7. Do not use any outside knowledge or make assumptions beyond the provided text.
8. Present answers in a clear, well-formatted way. Use bullet points for steps or lists if appropriate.

`

// FormatSection renders one numbered context block. index is 1-based.
func FormatSection(index int, section core.RetrievalResult) string {
	return fmt.Sprintf("MANUAL SECTION %d TITLE: \"%s\" (Similarity: %.4f)\nSECTION %d CONTENT:\n\"\"\"\n%s\n\"\"\"\n\n",
		index, section.Heading, section.Similarity, index, section.Body)
}

// BuildPrompt wraps the sections, in the order given, and the question in
// the instruction template. platform names the product the manual documents.
func BuildPrompt(platform, question string, sections []core.RetrievalResult) (string, error) {
	if len(sections) == 0 {
		return "", ErrNoSections
	}

	var b strings.Builder
	fmt.Fprintf(&b, instructions, platform)
	b.WriteString("CONTEXT FROM MANUAL:\n")
	for i, section := range sections {
		b.WriteString(FormatSection(i+1, section))
	}
	fmt.Fprintf(&b, "\n\nUSER'S QUESTION: \"%s\"\n\nPROFESSIONAL AND CLEAR ANSWER:", question)
	return b.String(), nil
}
