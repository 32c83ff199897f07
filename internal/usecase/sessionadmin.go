package usecase

import (
	"fmt"
	"log/slog"

	"github.com/ahiree/chat-bot/internal/domain"
	"github.com/ahiree/chat-bot/internal/port"
	"github.com/ahiree/chat-bot/internal/session"
)

// SessionAdminUseCase covers the session lifecycle operations: clear, stats,
// and rehydration from durable storage after a restart.
type SessionAdminUseCase struct {
	store   *session.Store
	persist port.ChunkStore // nil disables persistence
	logger  *slog.Logger
}

func NewSessionAdminUseCase(store *session.Store, persist port.ChunkStore, logger *slog.Logger) *SessionAdminUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionAdminUseCase{store: store, persist: persist, logger: logger}
}

// ClearSession drops the session from memory and, when persistence is
// configured, from durable storage. Idempotent.
func (u *SessionAdminUseCase) ClearSession(sessionID string) error {
	u.store.Clear(sessionID)
	if u.persist != nil {
		if err := u.persist.DeleteSession(sessionID); err != nil {
			return fmt.Errorf("deleting persisted session %s: %w", sessionID, err)
		}
	}
	u.logger.Info("session cleared", "session_id", sessionID)
	return nil
}

// ClearAll resets the in-memory store and, when persistence is configured,
// drops every durable record with it.
func (u *SessionAdminUseCase) ClearAll() error {
	u.store.ClearAll()
	if u.persist != nil {
		if err := u.persist.DeleteAll(); err != nil {
			return fmt.Errorf("deleting persisted sessions: %w", err)
		}
	}
	u.logger.Info("all sessions cleared")
	return nil
}

// Stats returns per-session counts, or aggregate totals when sessionID is
// empty.
func (u *SessionAdminUseCase) Stats(sessionID string) (domain.SessionStats, bool) {
	if sessionID == "" {
		return domain.SessionStats{}, false
	}
	return u.store.Stats(sessionID), true
}

func (u *SessionAdminUseCase) TotalStats() domain.AggregateStats {
	return u.store.TotalStats()
}

// RehydrateAll loads every persisted session back into memory, so aggregate
// stats reflect durable state after a restart. Returns the total chunk count
// loaded.
func (u *SessionAdminUseCase) RehydrateAll() (int, error) {
	if u.persist == nil {
		return 0, nil
	}

	ids, err := u.persist.ListSessions()
	if err != nil {
		return 0, fmt.Errorf("listing persisted sessions: %w", err)
	}

	total := 0
	for _, id := range ids {
		n, err := u.Rehydrate(id)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// Rehydrate loads a session's persisted chunks back into memory. Returns the
// number of chunks loaded, or a NotFoundError when nothing was ever persisted
// for the session.
func (u *SessionAdminUseCase) Rehydrate(sessionID string) (int, error) {
	if u.persist == nil {
		return 0, &domain.ConfigurationError{Msg: "rehydrate requires a persistence store"}
	}

	records, err := u.persist.LoadSession(sessionID)
	if err != nil {
		return 0, fmt.Errorf("loading session %s: %w", sessionID, err)
	}
	if len(records) == 0 {
		return 0, &domain.NotFoundError{Kind: "session", ID: sessionID}
	}

	if err := u.store.Rehydrate(sessionID, records); err != nil {
		return 0, err
	}
	u.logger.Info("session rehydrated", "session_id", sessionID, "chunks", len(records))
	return len(records), nil
}
