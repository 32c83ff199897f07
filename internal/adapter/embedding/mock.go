package embedding

// MockEmbedder produces deterministic unit vectors without a backend.
// Useful for tests and offline smoke runs; similarity scores are based on
// character positions, not semantics.
type MockEmbedder struct {
	dimension int
}

func NewMockEmbedder(dimension int) *MockEmbedder {
	return &MockEmbedder{dimension: dimension}
}

func (e *MockEmbedder) Embed(texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, e.dimension)
		for j, r := range text {
			v[(j+int(r))%e.dimension] += float32(r) / 1000.0
		}
		Normalize(v)
		vectors[i] = v
	}
	return vectors, nil
}

func (e *MockEmbedder) Dimension() int {
	return e.dimension
}

func (e *MockEmbedder) ModelName() string {
	return "mock"
}
