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


package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// RunPlain reads questions line by line from in and writes answers to out
// until exit, quit, end of input or ctx cancellation.
func RunPlain(ctx context.Context, asker Asker, name string, in io.Reader, out io.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	fmt.Fprintf(out, "\n"+msgReadyPattern+"\n", name)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		if err := ctx.Err(); err != nil {
			fmt.Fprintln(out, "\nExiting...")
			return nil
		}
		fmt.Fprint(out, "Your question: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\nExiting...")
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		if isExit(question) {
			fmt.Fprintln(out, msgGoodbye)
			return nil
		}
		if question == "" {
			fmt.Fprintln(out, msgEmptyInput)
			continue
		}

		answer, err := asker.Ask(ctx, question)
		if err != nil {
			logger.Error("error answering question", "err", err)
			fmt.Fprintln(out, msgAskFailed)
			continue
		}
		fmt.Fprintf(out, "\nResponse:\n%s\n\n", answer)
	}
}
