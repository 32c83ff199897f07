package port

// Embedder generates vector embeddings for text.
//
// Implementations must be deterministic for identical input and must return
// unit L2-normalized vectors of a fixed dimension.
type Embedder interface {
	// Embed generates embeddings for the given texts.
	// Returns a slice of vectors, one per input text.
	Embed(texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}
