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


package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/poiesic/manualqa"
	"github.com/poiesic/manualqa/api"
	"github.com/poiesic/manualqa/config"
	"github.com/poiesic/manualqa/manual"
	"github.com/poiesic/manualqa/search"
	"github.com/poiesic/manualqa/tui"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "manualqa",
		Usage: "Answer questions about a software user manual",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
				Value:   "config.yaml",
			},
			&cli.StringFlag{
				Name:    "manual",
				Aliases: []string{"m"},
				Usage:   "Manual path or URL (overrides manual.source)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "sections",
				Usage:  "Print the sections found in the manual",
				Action: sectionsCommand,
			},
			{
				Name:   "build",
				Usage:  "Embed the manual sections and write the cache",
				Action: buildCommand,
				Flags: []cli.Flag{
					rebuildFlag(),
				},
			},
			{
				Name:      "ask",
				Usage:     "Answer a single question",
				ArgsUsage: "QUESTION",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Print the ranked and skipped sections before the answer",
					},
				},
			},
			{
				Name:   "chat",
				Usage:  "Start an interactive chat",
				Action: chatCommand,
				Flags: []cli.Flag{
					rebuildFlag(),
					&cli.BoolFlag{
						Name:  "plain",
						Usage: "Use a line-oriented prompt instead of the full-screen UI",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					rebuildFlag(),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (overrides server.addr)",
					},
				},
			},
		},
	}
}

func rebuildFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "rebuild",
		Usage: "Discard cached embeddings and embed every section again",
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if m := c.String("manual"); m != "" {
		cfg.Manual.Source = m
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func openAssistant(ctx context.Context, c *cli.Context, cfg *config.Config, logger *slog.Logger) (*manualqa.Assistant, error) {
	assistant, err := manualqa.Open(ctx,
		manualqa.WithConfig(cfg),
		manualqa.WithRebuild(c.Bool("rebuild")),
		manualqa.WithProgress(os.Stderr),
		manualqa.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open assistant: %w", err)
	}
	return assistant, nil
}

func sectionsCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	text, err := manual.NewLoader(slog.Default()).Load(c.Context, cfg.Manual.Source)
	if err != nil {
		return fmt.Errorf("failed to load manual: %w", err)
	}
	sections, err := manualqa.Segment(text, cfg, slog.Default())
	if err != nil {
		return err
	}

	out := c.App.Writer
	fmt.Fprintf(out, "Manual: %s\n", cfg.Manual.Source)
	fmt.Fprintf(out, "Sections: %d\n\n", len(sections))
	for i, s := range sections {
		fmt.Fprintf(out, "%3d. %s (%d chars)\n", i+1, s.Heading, len([]rune(s.Body)))
	}
	return nil
}

func buildCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	fmt.Fprintf(os.Stderr, "Manual: %s\n", cfg.Manual.Source)
	fmt.Fprintf(os.Stderr, "Cache: %s\n", cfg.Cache.Dir)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.AI.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	assistant, err := openAssistant(ctx, c, cfg, slog.Default())
	if err != nil {
		return err
	}
	defer assistant.Close()

	fmt.Fprintf(c.App.Writer, "%d sections ready for search\n", assistant.Sections())
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return errors.New("a question is required")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	assistant, err := openAssistant(ctx, c, cfg, slog.Default())
	if err != nil {
		return err
	}
	defer assistant.Close()

	var monitor search.SearchMonitor
	if c.Bool("explain") {
		monitor = newExplainMonitor(c.App.Writer)
	}
	answer, err := assistant.AskWithMonitor(ctx, question, monitor)
	if err != nil {
		return fmt.Errorf("failed to answer question: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "\nResponse:\n%s\n", answer)
	return nil
}

func chatCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	plain := c.Bool("plain")
	logger := slog.Default()
	if !plain {
		// The full-screen UI owns the terminal, so logs must not reach stderr.
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	assistant, err := openAssistant(ctx, c, cfg, logger)
	if err != nil {
		return err
	}
	defer assistant.Close()

	if plain {
		return tui.RunPlain(ctx, assistant, cfg.Manual.Name, os.Stdin, c.App.Writer, logger)
	}
	if err := tui.Run(ctx, assistant, cfg.Manual.Name, logger); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if a := c.String("addr"); a != "" {
		addr = a
	}

	ctx, stop := signalContext()
	defer stop()

	return serve(ctx, api.NewServer(slog.Default()), addr, func(ctx context.Context) (answerCloser, error) {
		assistant, err := openAssistant(ctx, c, cfg, slog.Default())
		if err != nil {
			return nil, err
		}
		return assistant, nil
	})
}

type answerCloser interface {
	api.Answerer
	io.Closer
}

// serve listens on addr while build prepares the answerer. A listen failure
// cancels the build and is returned at once.
func serve(ctx context.Context, srv *api.Server, addr string, build func(context.Context) (answerCloser, error)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(ctx, addr)
	}()

	type buildResult struct {
		answerer answerCloser
		err      error
	}
	builtCh := make(chan buildResult, 1)
	go func() {
		a, err := build(ctx)
		builtCh <- buildResult{answerer: a, err: err}
	}()

	select {
	case err := <-errCh:
		cancel()
		go func() {
			if b := <-builtCh; b.err == nil {
				b.answerer.Close()
			}
		}()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case b := <-builtCh:
		if b.err != nil {
			cancel()
			if serveErr := <-errCh; serveErr != nil {
				slog.Error("server error", "err", serveErr)
			}
			return b.err
		}
		defer b.answerer.Close()
		srv.SetAnswerer(b.answerer)
		return <-errCh
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
