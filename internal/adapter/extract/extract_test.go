package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/ahiree/chat-bot/internal/domain"
)

func TestPlainTextExtractor(t *testing.T) {
	e := NewPlainTextExtractor()

	tests := []struct {
		ext      string
		supports bool
	}{
		{".txt", true},
		{".md", true},
		{".pdf", false},
		{".docx", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := e.Supports(tc.ext); got != tc.supports {
			t.Errorf("Supports(%q) = %v, want %v", tc.ext, got, tc.supports)
		}
	}

	text, err := e.Extract(strings.NewReader("hello\nworld"), ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello\nworld" {
		t.Errorf("got %q", text)
	}
}

func TestPlainTextExtractorRejectsBinary(t *testing.T) {
	e := NewPlainTextExtractor()

	_, err := e.Extract(strings.NewReader("ok\xff\xfe\xfdnot utf8"), ".txt")
	var xerr *domain.ExtractionError
	if !errors.As(err, &xerr) {
		t.Errorf("expected ExtractionError, got %v", err)
	}
}

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry(NewPlainTextExtractor())

	text, err := r.Extract(strings.NewReader("content"), ".TXT")
	if err != nil {
		t.Fatalf("registry should lowercase the extension: %v", err)
	}
	if text != "content" {
		t.Errorf("got %q", text)
	}

	_, err = r.Extract(strings.NewReader("x"), ".pdf")
	var xerr *domain.ExtractionError
	if !errors.As(err, &xerr) {
		t.Errorf("unregistered extension: expected ExtractionError, got %v", err)
	}
}
