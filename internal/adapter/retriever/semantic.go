package retriever

import (
	"fmt"
	"sort"

	"github.com/ahiree/chat-bot/internal/domain"
	"github.com/ahiree/chat-bot/internal/port"
	"github.com/ahiree/chat-bot/internal/session"
	"github.com/ahiree/chat-bot/internal/vector"
)

// SessionRetriever answers queries against one session's chunks: it embeds
// the query, scores every chunk by cosine similarity, shortlists the top
// 2·topK, and applies the diversity re-rank.
type SessionRetriever struct {
	store    *session.Store
	embedder port.Embedder
	lambda   float64
	cache    *QueryCache
}

func NewSessionRetriever(store *session.Store, embedder port.Embedder, lambda float64, cache *QueryCache) (*SessionRetriever, error) {
	if store == nil || embedder == nil {
		return nil, &domain.ConfigurationError{Msg: "session retriever needs a store and an embedder"}
	}
	if lambda < 0 || lambda > 1 {
		return nil, &domain.ValidationError{Msg: "diversity weight must be in [0, 1]"}
	}
	return &SessionRetriever{
		store:    store,
		embedder: embedder,
		lambda:   lambda,
		cache:    cache,
	}, nil
}

// Retrieve returns up to topK chunk texts, most relevant-and-diverse first.
// An absent or empty session yields exactly one element, the
// domain.NoDocumentsSentinel string; callers must special-case it.
func (r *SessionRetriever) Retrieve(query, sessionID string, topK int) ([]string, error) {
	if query == "" {
		return nil, &domain.ValidationError{Msg: "empty query"}
	}
	if topK <= 0 {
		return nil, &domain.ValidationError{Msg: "top-k must be positive"}
	}

	chunks, ok := r.store.Snapshot(sessionID)
	if !ok || len(chunks) == 0 {
		return []string{domain.NoDocumentsSentinel}, nil
	}

	if r.cache != nil {
		if texts, hit := r.cache.Get(sessionID, query, topK, r.store.Generation()); hit {
			return texts, nil
		}
	}

	queryVecs, err := r.embedder.Embed([]string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(queryVecs) == 0 {
		return nil, &domain.EmbeddingError{Err: fmt.Errorf("embedder returned no vector for query")}
	}
	queryVec := queryVecs[0]
	if dim := r.store.Dimension(); dim != 0 && len(queryVec) != dim {
		return nil, &domain.ConfigurationError{
			Msg: fmt.Sprintf("query embedding dimension %d does not match store dimension %d", len(queryVec), dim),
		}
	}

	scored := make([]domain.ScoredChunk, len(chunks))
	for i, c := range chunks {
		scored[i] = domain.ScoredChunk{Chunk: c, Score: vector.Dot(queryVec, c.Vector)}
	}

	// Descending by score; insertion order breaks ties.
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	shortlist := 2 * topK
	if shortlist > len(scored) {
		shortlist = len(scored)
	}
	selected := rerankWithDiversity(scored[:shortlist], topK, r.lambda)

	texts := make([]string, len(selected))
	for i, sc := range selected {
		texts[i] = sc.Chunk.Text
	}

	if r.cache != nil {
		r.cache.Put(sessionID, query, topK, r.store.Generation(), texts)
	}
	return texts, nil
}
