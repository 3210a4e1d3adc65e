// Package plaintext provides a text extractor for files that are
// already plain text. Binary formats (PDF, Word) live behind other
// implementations of the same port.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/talentstack/docpipe/internal/core/domain"
	"github.com/talentstack/docpipe/internal/core/ports/driven"
)

// Ensure Extractor implements the port.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor reads a file from disk and returns its content as text.
type Extractor struct{}

// New creates a plaintext extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the file content. Invalid UTF-8 is rejected rather
// than passed downstream to the pattern matchers.
func (e *Extractor) Extract(ctx context.Context, file domain.FileRef) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(file.Path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", file.Path, err)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8 text", domain.ErrInvalidInput, file.Name)
	}

	text := string(data)
	// Normalise line endings so blank-line splitting behaves.
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return text, nil
}
