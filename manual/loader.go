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


package manual

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
)

var (
	// ErrUnsupportedFormat is returned for an extension with no extractor.
	ErrUnsupportedFormat = errors.New("unsupported manual format")

	// ErrEmptyManual is returned when a manual has no text.
	ErrEmptyManual = errors.New("manual has no text")
)

// Format identifies how a manual's bytes are turned into text.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
)

// FormatOf returns the format for a file name or URL by extension.
func FormatOf(location string) (Format, error) {
	if i := strings.IndexAny(location, "?#"); i >= 0 && strings.Contains(location, "://") {
		location = location[:i]
	}
	ext := strings.ToLower(path.Ext(location))
	switch ext {
	case ".txt", "":
		return FormatText, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// Extract converts raw manual bytes of the given format to text.
func Extract(format Format, data []byte) (string, error) {
	switch format {
	case FormatText:
		return plainText(data), nil
	case FormatMarkdown:
		return markdownText(data), nil
	case FormatHTML:
		return htmlText(data)
	case FormatPDF:
		return pdfText(data)
	case FormatDOCX:
		return docxText(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Loader fetches manuals through afs.
type Loader struct {
	fs     afs.Service
	logger *slog.Logger
}

// NewLoader creates a loader backed by the default afs service.
// A nil logger uses slog.Default().
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		fs:     afs.New(),
		logger: logger.With("component", "manual"),
	}
}

// Load downloads the manual at location and returns its text.
func (l *Loader) Load(ctx context.Context, location string) (string, error) {
	format, err := FormatOf(location)
	if err != nil {
		return "", err
	}

	URL, err := normalize(location)
	if err != nil {
		return "", err
	}
	data, err := l.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return "", fmt.Errorf("reading manual %s: %w", location, err)
	}

	text, err := Extract(format, data)
	if err != nil {
		return "", fmt.Errorf("extracting %s text from %s: %w", format, location, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyManual, location)
	}

	l.logger.Info("loaded manual", "location", location, "format", format, "bytes", len(data), "chars", len(text))
	return text, nil
}

// normalize turns a bare path into an absolute file URL.
func normalize(location string) (string, error) {
	if strings.Contains(location, "://") {
		return location, nil
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(abs), nil
}
