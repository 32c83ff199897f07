package domain

import "fmt"

// ConfigurationError reports a deployment-level misconfiguration, such as an
// embedding dimension that does not match what a session already holds.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return "configuration error: " + e.Msg }

// NotFoundError reports an operation on something that must exist but does not.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found: %s", e.Kind, e.ID) }

// ValidationError reports rejected caller input (bad chunking parameters,
// non-positive top-k, empty query).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "validation error: " + e.Msg }

// ExtractionError wraps a failure to pull text out of an uploaded file.
type ExtractionError struct {
	Name string
	Err  error
}

func (e *ExtractionError) Error() string { return fmt.Sprintf("extract %s: %v", e.Name, e.Err) }
func (e *ExtractionError) Unwrap() error { return e.Err }

// EmbeddingError wraps a failure of the embedding backend.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string { return "embedding: " + e.Err.Error() }
func (e *EmbeddingError) Unwrap() error { return e.Err }

// CompletionError wraps a failure of the language-model backend.
type CompletionError struct {
	Err error
}

func (e *CompletionError) Error() string { return "completion: " + e.Err.Error() }
func (e *CompletionError) Unwrap() error { return e.Err }
