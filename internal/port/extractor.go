package port

import "io"

// TextExtractor pulls plain text out of an uploaded file. PDF and DOCX
// extraction live outside this module; implementations here handle the
// formats they know and reject the rest with a domain.ExtractionError.
type TextExtractor interface {
	// Extract reads the file content and returns its text. ext is the
	// lowercased file extension including the dot (".txt").
	Extract(r io.Reader, ext string) (string, error)

	// Supports reports whether the extractor handles the extension.
	Supports(ext string) bool
}
