package port

import "github.com/ahiree/chat-bot/internal/domain"

// ChunkStore is the durable persistence collaborator: it keeps chunk records
// across restarts so a session can be rehydrated into memory.
type ChunkStore interface {
	// SaveChunks appends records for one document to a session.
	SaveChunks(sessionID, docID string, records []domain.ChunkRecord) error

	// LoadSession returns every persisted record for the session in
	// insertion order. A session with nothing persisted yields an empty
	// slice, not an error.
	LoadSession(sessionID string) ([]domain.ChunkRecord, error)

	// DeleteSession drops all persisted records for the session.
	DeleteSession(sessionID string) error

	// ListSessions returns the ID of every session with persisted records,
	// sorted.
	ListSessions() ([]string, error)

	// DeleteAll drops every persisted record across all sessions.
	DeleteAll() error

	Close() error
}
