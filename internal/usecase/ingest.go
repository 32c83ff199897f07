package usecase

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/ahiree/chat-bot/internal/domain"
	"github.com/ahiree/chat-bot/internal/port"
	"github.com/ahiree/chat-bot/internal/session"
	"github.com/ahiree/chat-bot/internal/vector"
)

// IngestUseCase runs one document through chunking, embedding, and session
// storage. When a durable chunk store is configured, every appended chunk is
// persisted as well, so the session survives a restart.
type IngestUseCase struct {
	chunker  port.Chunker
	embedder port.Embedder
	store    *session.Store
	persist  port.ChunkStore // nil disables persistence
	logger   *slog.Logger
}

func NewIngestUseCase(
	chunker port.Chunker,
	embedder port.Embedder,
	store *session.Store,
	persist port.ChunkStore,
	logger *slog.Logger,
) *IngestUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestUseCase{
		chunker:  chunker,
		embedder: embedder,
		store:    store,
		persist:  persist,
		logger:   logger,
	}
}

// Ingest chunks and embeds text, appending each chunk to the session in
// order. Embedding failures follow a best-effort prefix policy: the first
// failure aborts the remaining chunks of this document, chunks already
// appended stay, and the error surfaces to the caller. Returns the number of
// chunks appended.
func (u *IngestUseCase) Ingest(text, docID, sessionID, docName string) (int, error) {
	chunks, err := u.chunker.Chunk(text)
	if err != nil {
		return 0, fmt.Errorf("chunking failed: %w", err)
	}
	if len(chunks) == 0 {
		u.logger.Debug("nothing to ingest", "doc_id", docID, "session_id", sessionID)
		return 0, nil
	}

	var records []domain.ChunkRecord
	appended := 0
	var ingestErr error

	for idx, chunk := range chunks {
		vecs, err := u.embedder.Embed([]string{chunk})
		if err != nil {
			ingestErr = fmt.Errorf("embedding chunk %d of %s: %w", idx, docID, err)
			break
		}
		if len(vecs) == 0 {
			ingestErr = &domain.EmbeddingError{Err: fmt.Errorf("no vector for chunk %d of %s", idx, docID)}
			break
		}

		meta := domain.ChunkMetadata{
			DocID:      docID,
			DocName:    docName,
			ChunkIndex: idx,
			CharCount:  utf8.RuneCountInString(chunk),
		}
		if err := u.store.Append(sessionID, chunk, vecs[0], meta); err != nil {
			ingestErr = fmt.Errorf("appending chunk %d of %s: %w", idx, docID, err)
			break
		}
		appended++
		records = append(records, domain.ChunkRecord{
			Text:     chunk,
			Vector:   vector.Encode(vecs[0]),
			Metadata: meta,
		})
	}

	// Persist whatever made it into the session, even on a partial run,
	// so memory and durable state describe the same chunks.
	if u.persist != nil && len(records) > 0 {
		if err := u.persist.SaveChunks(sessionID, docID, records); err != nil {
			u.logger.Error("failed to persist chunks", "doc_id", docID, "session_id", sessionID, "error", err)
			if ingestErr == nil {
				ingestErr = fmt.Errorf("persisting chunks of %s: %w", docID, err)
			}
		}
	}

	if ingestErr != nil {
		u.logger.Warn("ingestion aborted",
			"doc_id", docID, "session_id", sessionID,
			"appended", appended, "total", len(chunks), "error", ingestErr)
		return appended, ingestErr
	}

	u.logger.Info("document ingested",
		"doc_id", docID, "doc_name", docName, "session_id", sessionID, "chunks", appended)
	return appended, nil
}
