// Package session holds the in-memory per-session chunk storage. One Store is
// constructed at process start and shared by ingestion and retrieval; there is
// no hidden global state.
package session

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ahiree/chat-bot/internal/domain"
	"github.com/ahiree/chat-bot/internal/vector"
)

// Store maps session IDs to their ingested chunks. Each session keeps three
// parallel slices (text, vector, metadata) behind its own lock, so readers
// never observe a length mismatch while an append is in flight.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	dim      int // embedding dimension, fixed by the first append
	gen      atomic.Uint64
}

type entry struct {
	mu      sync.RWMutex
	texts   []string
	vectors [][]float32
	metas   []domain.ChunkMetadata
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*entry)}
}

// Append adds one chunk to the session, creating the session lazily. The
// dimension of the first vector ever appended pins the store's dimension;
// any later mismatch is a ConfigurationError.
func (s *Store) Append(sessionID, text string, vec []float32, meta domain.ChunkMetadata) error {
	if len(vec) == 0 {
		return &domain.ValidationError{Msg: "empty vector"}
	}

	e, err := s.sessionForWrite(sessionID, len(vec))
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.texts = append(e.texts, text)
	e.vectors = append(e.vectors, vec)
	e.metas = append(e.metas, meta)
	e.mu.Unlock()

	s.gen.Add(1)
	return nil
}

// sessionForWrite returns the session entry, creating it if absent, and
// checks the vector dimension while the store lock is held.
func (s *Store) sessionForWrite(sessionID string, dim int) (*entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dim == 0 {
		s.dim = dim
	} else if dim != s.dim {
		return nil, &domain.ConfigurationError{
			Msg: fmt.Sprintf("embedding dimension mismatch: store holds %d-dim vectors, got %d", s.dim, dim),
		}
	}

	e, ok := s.sessions[sessionID]
	if !ok {
		e = &entry{}
		s.sessions[sessionID] = e
	}
	return e, nil
}

// Snapshot returns a consistent copy of the session's chunks in insertion
// order. ok is false when the session does not exist; an existing session
// with zero chunks returns an empty slice and true.
func (s *Store) Snapshot(sessionID string) (chunks []domain.Chunk, ok bool) {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	chunks = make([]domain.Chunk, len(e.texts))
	for i := range e.texts {
		chunks[i] = domain.Chunk{
			Text:     e.texts[i],
			Vector:   e.vectors[i],
			Metadata: e.metas[i],
		}
	}
	return chunks, true
}

// Clear removes the session entirely. Clearing an absent session is a no-op.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	s.gen.Add(1)
}

// ClearAll resets the store, including the pinned dimension.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.sessions = make(map[string]*entry)
	s.dim = 0
	s.mu.Unlock()
	s.gen.Add(1)
}

// Stats reports chunk and distinct-document counts for one session. An absent
// session reports zeros; absence and emptiness both mean "no documents".
func (s *Store) Stats(sessionID string) domain.SessionStats {
	stats := domain.SessionStats{SessionID: sessionID}

	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return stats
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	stats.TotalChunks = len(e.texts)
	docs := make(map[string]struct{})
	for _, m := range e.metas {
		docs[m.DocID] = struct{}{}
	}
	stats.UniqueDocuments = len(docs)
	return stats
}

// TotalStats aggregates across all sessions.
func (s *Store) TotalStats() domain.AggregateStats {
	s.mu.RLock()
	entries := make(map[string]*entry, len(s.sessions))
	for id, e := range s.sessions {
		entries[id] = e
	}
	s.mu.RUnlock()

	agg := domain.AggregateStats{
		TotalSessions: len(entries),
		Sessions:      make([]string, 0, len(entries)),
	}
	for id, e := range entries {
		e.mu.RLock()
		agg.TotalChunks += len(e.texts)
		e.mu.RUnlock()
		agg.Sessions = append(agg.Sessions, id)
	}
	sort.Strings(agg.Sessions)
	return agg
}

// Rehydrate bulk-loads persisted records into a session after a restart.
// A record whose vector fails to decode aborts the whole load; nothing from
// a corrupt batch is appended.
func (s *Store) Rehydrate(sessionID string, records []domain.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}

	vectors := make([][]float32, len(records))
	for i, rec := range records {
		v, err := vector.Decode(rec.Vector)
		if err != nil {
			return fmt.Errorf("rehydrate session %s, chunk %d: %w", sessionID, i, err)
		}
		if len(v) == 0 {
			return &domain.ValidationError{
				Msg: fmt.Sprintf("rehydrate session %s, chunk %d: empty vector", sessionID, i),
			}
		}
		if i > 0 && len(v) != len(vectors[0]) {
			return &domain.ConfigurationError{
				Msg: fmt.Sprintf("embedding dimension mismatch inside rehydrate batch: %d vs %d", len(v), len(vectors[0])),
			}
		}
		vectors[i] = v
	}

	e, err := s.sessionForWrite(sessionID, len(vectors[0]))
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for i, rec := range records {
		e.texts = append(e.texts, rec.Text)
		e.vectors = append(e.vectors, vectors[i])
		e.metas = append(e.metas, rec.Metadata)
	}

	s.gen.Add(1)
	return nil
}

// Generation increments on every mutation. The query cache uses it to drop
// entries computed against stale state.
func (s *Store) Generation() uint64 {
	return s.gen.Load()
}

// Dimension returns the pinned embedding dimension, or 0 before any append.
func (s *Store) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim
}
