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


// Package tui provides the interactive chat front ends: a full-screen
// bubbletea model and a plain line-oriented loop for pipes and dumb terminals.
package tui

import (
	"context"
	"strings"
)

// Asker answers one question about the manual.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

const (
	msgGoodbye      = "Goodbye!"
	msgEmptyInput   = "Please enter a valid question."
	msgAskFailed    = "An error occurred. Please try again."
	msgReadyPattern = "%s Chatbot ready! Ask your question."
)

// isExit reports whether input ends the session.
func isExit(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit":
		return true
	}
	return false
}
