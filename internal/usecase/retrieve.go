package usecase

import (
	"github.com/ahiree/chat-bot/internal/adapter/retriever"
)

// RetrieveUseCase exposes retrieval to the application layer.
type RetrieveUseCase struct {
	retriever *retriever.SessionRetriever
	topK      int
}

func NewRetrieveUseCase(r *retriever.SessionRetriever, topK int) *RetrieveUseCase {
	if topK <= 0 {
		topK = 5
	}
	return &RetrieveUseCase{retriever: r, topK: topK}
}

// Retrieve returns chunk texts for the query, most relevant-and-diverse
// first, or the single-element no-documents sentinel. topK <= 0 falls back to
// the configured default.
func (u *RetrieveUseCase) Retrieve(query, sessionID string, topK int) ([]string, error) {
	if topK <= 0 {
		topK = u.topK
	}
	return u.retriever.Retrieve(query, sessionID, topK)
}
