// Package extract implements the text-extraction collaborator for formats the
// module handles natively. PDF and DOCX extraction are external concerns;
// plugging them in means registering another port.TextExtractor.
package extract

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ahiree/chat-bot/internal/domain"
	"github.com/ahiree/chat-bot/internal/port"
)

// PlainTextExtractor reads .txt and .md files as-is.
type PlainTextExtractor struct{}

func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

func (e *PlainTextExtractor) Supports(ext string) bool {
	switch ext {
	case ".txt", ".md":
		return true
	}
	return false
}

func (e *PlainTextExtractor) Extract(r io.Reader, ext string) (string, error) {
	if !e.Supports(ext) {
		return "", &domain.ExtractionError{Name: ext, Err: fmt.Errorf("unsupported file type")}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &domain.ExtractionError{Name: ext, Err: err}
	}
	if !utf8.Valid(data) {
		return "", &domain.ExtractionError{Name: ext, Err: fmt.Errorf("not valid UTF-8 text")}
	}
	return string(data), nil
}

// Registry dispatches to the first extractor claiming the extension.
type Registry struct {
	extractors []port.TextExtractor
}

func NewRegistry(extractors ...port.TextExtractor) *Registry {
	return &Registry{extractors: extractors}
}

func (r *Registry) Supports(ext string) bool {
	for _, e := range r.extractors {
		if e.Supports(ext) {
			return true
		}
	}
	return false
}

func (r *Registry) Extract(reader io.Reader, ext string) (string, error) {
	ext = strings.ToLower(ext)
	for _, e := range r.extractors {
		if e.Supports(ext) {
			return e.Extract(reader, ext)
		}
	}
	return "", &domain.ExtractionError{Name: ext, Err: fmt.Errorf("no extractor registered")}
}
