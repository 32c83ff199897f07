package retriever

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/ahiree/chat-bot/internal/domain"
	"github.com/ahiree/chat-bot/internal/session"
)

// fixedEmbedder maps exact strings to preset unit vectors.
type fixedEmbedder struct {
	vectors map[string][]float32
	dim     int
}

func (e *fixedEmbedder) Embed(texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := e.vectors[t]
		if !ok {
			return nil, &domain.EmbeddingError{Err: fmt.Errorf("no fixture vector for %q", t)}
		}
		out[i] = v
	}
	return out, nil
}

func (e *fixedEmbedder) Dimension() int    { return e.dim }
func (e *fixedEmbedder) ModelName() string { return "fixed" }

func fixtureStore(t *testing.T, emb *fixedEmbedder, sessionID string, texts ...string) *session.Store {
	t.Helper()
	s := session.NewStore()
	for i, text := range texts {
		v, ok := emb.vectors[text]
		if !ok {
			t.Fatalf("no fixture vector for %q", text)
		}
		m := domain.ChunkMetadata{DocID: "d1", DocName: "d1.txt", ChunkIndex: i, CharCount: len(text)}
		if err := s.Append(sessionID, text, v, m); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestRetrieveSentinelOnAbsentAndEmptySession(t *testing.T) {
	emb := &fixedEmbedder{dim: 2, vectors: map[string][]float32{"q": {1, 0}}}
	s := session.NewStore()

	r, err := NewSessionRetriever(s, emb, DefaultLambda, nil)
	if err != nil {
		t.Fatal(err)
	}

	// Absent session.
	got, err := r.Retrieve("q", "missing", 5)
	if err != nil {
		t.Fatalf("retrieval on absent session must not error: %v", err)
	}
	want := []string{domain.NoDocumentsSentinel}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("absent session: got %v, want %v", got, want)
	}

	// Existing but emptied session behaves the same.
	if err := s.Append("s1", "tmp", []float32{1, 0}, domain.ChunkMetadata{DocID: "d"}); err != nil {
		t.Fatal(err)
	}
	s.Clear("s1")
	got, err = r.Retrieve("q", "s1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cleared session: got %v, want %v", got, want)
	}
}

func TestRetrieveValidation(t *testing.T) {
	emb := &fixedEmbedder{dim: 2, vectors: map[string][]float32{}}
	r, err := NewSessionRetriever(session.NewStore(), emb, DefaultLambda, nil)
	if err != nil {
		t.Fatal(err)
	}

	var verr *domain.ValidationError
	if _, err := r.Retrieve("", "s1", 5); !errors.As(err, &verr) {
		t.Errorf("empty query: expected ValidationError, got %v", err)
	}
	if _, err := r.Retrieve("q", "s1", 0); !errors.As(err, &verr) {
		t.Errorf("top-k 0: expected ValidationError, got %v", err)
	}
	if _, err := r.Retrieve("q", "s1", -3); !errors.As(err, &verr) {
		t.Errorf("negative top-k: expected ValidationError, got %v", err)
	}
}

func TestRetrieveRanksByCosine(t *testing.T) {
	emb := &fixedEmbedder{dim: 3, vectors: map[string][]float32{
		"query": {1, 0, 0},
		"close": {0.9, 0.436, 0},
		"mid":   {0.5, 0.866, 0},
		"far":   {0, 0, 1},
	}}
	s := fixtureStore(t, emb, "s1", "far", "mid", "close")

	r, err := NewSessionRetriever(s, emb, DefaultLambda, nil)
	if err != nil {
		t.Fatal(err)
	}

	got, err := r.Retrieve("query", "s1", 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"close", "mid", "far"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRetrieveDeterministic(t *testing.T) {
	emb := &fixedEmbedder{dim: 3, vectors: map[string][]float32{
		"query": {1, 0, 0},
		"a":     {0.9, 0.436, 0},
		"b":     {0.8, 0.6, 0},
		"c":     {0.7, 0.714, 0},
		"d":     {0, 1, 0},
		"e":     {0, 0, 1},
	}}
	s := fixtureStore(t, emb, "s1", "a", "b", "c", "d", "e")

	r, err := NewSessionRetriever(s, emb, DefaultLambda, nil)
	if err != nil {
		t.Fatal(err)
	}

	first, err := r.Retrieve("query", "s1", 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := r.Retrieve("query", "s1", 2)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed: %v vs %v", i, again, first)
		}
	}
}

func TestRetrieveDiversityDropsNearDuplicate(t *testing.T) {
	// dup1/dup2 cosine > 0.99; "other" is dissimilar but relevant enough.
	emb := &fixedEmbedder{dim: 3, vectors: map[string][]float32{
		"query": {1, 0, 0},
		"dup1":  {0.95, 0.312, 0},
		"dup2":  {0.94, 0.341, 0},
		"other": {0.9, -0.436, 0},
	}}
	s := fixtureStore(t, emb, "s1", "dup1", "dup2", "other")

	r, err := NewSessionRetriever(s, emb, DefaultLambda, nil)
	if err != nil {
		t.Fatal(err)
	}

	got, err := r.Retrieve("query", "s1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}

	dups := 0
	for _, text := range got {
		if text == "dup1" || text == "dup2" {
			dups++
		}
	}
	if dups == 2 {
		t.Errorf("result %v contains both near-duplicates", got)
	}
}

func TestRetrieveDimensionMismatchIsFatal(t *testing.T) {
	emb := &fixedEmbedder{dim: 2, vectors: map[string][]float32{"q": {1, 0}}}
	s := session.NewStore()
	if err := s.Append("s1", "chunk", []float32{1, 0, 0}, domain.ChunkMetadata{DocID: "d"}); err != nil {
		t.Fatal(err)
	}

	r, err := NewSessionRetriever(s, emb, DefaultLambda, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = r.Retrieve("q", "s1", 2)
	var cerr *domain.ConfigurationError
	if !errors.As(err, &cerr) {
		t.Errorf("expected ConfigurationError, got %v", err)
	}
}

func TestRetrieveUsesCacheUntilStoreMutates(t *testing.T) {
	emb := &fixedEmbedder{dim: 2, vectors: map[string][]float32{
		"query": {1, 0},
		"a":     {1, 0},
		"b":     {0, 1},
	}}
	s := fixtureStore(t, emb, "s1", "a")
	cache := NewQueryCache(10, time.Minute)

	r, err := NewSessionRetriever(s, emb, DefaultLambda, cache)
	if err != nil {
		t.Fatal(err)
	}

	got, err := r.Retrieve("query", "s1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("got %v", got)
	}

	// A new append invalidates the cached result.
	if err := s.Append("s1", "b", emb.vectors["b"], domain.ChunkMetadata{DocID: "d2"}); err != nil {
		t.Fatal(err)
	}
	got, err = r.Retrieve("query", "s1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("stale cache served after mutation: %v", got)
	}
}

func TestNewSessionRetrieverValidation(t *testing.T) {
	emb := &fixedEmbedder{dim: 2}
	if _, err := NewSessionRetriever(nil, emb, DefaultLambda, nil); err == nil {
		t.Error("nil store must be rejected")
	}
	if _, err := NewSessionRetriever(session.NewStore(), nil, DefaultLambda, nil); err == nil {
		t.Error("nil embedder must be rejected")
	}
	if _, err := NewSessionRetriever(session.NewStore(), emb, 1.5, nil); err == nil {
		t.Error("lambda outside [0,1] must be rejected")
	}
}
