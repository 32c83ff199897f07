package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/ahiree/chat-bot/config"
	"github.com/ahiree/chat-bot/internal/adapter/chunker"
	"github.com/ahiree/chat-bot/internal/adapter/embedding"
	"github.com/ahiree/chat-bot/internal/adapter/llm"
	"github.com/ahiree/chat-bot/internal/adapter/retriever"
	"github.com/ahiree/chat-bot/internal/adapter/store"
	"github.com/ahiree/chat-bot/internal/domain"
	"github.com/ahiree/chat-bot/internal/port"
	"github.com/ahiree/chat-bot/internal/session"
	"github.com/ahiree/chat-bot/internal/usecase"
)

// engine bundles the per-invocation object graph. CLI invocations are
// short-lived processes, so reads rehydrate the target session from the
// durable store before doing anything.
type engine struct {
	sessions *session.Store
	persist  port.ChunkStore
	ingest   *usecase.IngestUseCase
	retrieve *usecase.RetrieveUseCase
	admin    *usecase.SessionAdminUseCase
}

func buildEngine(cfg *config.Config) (*engine, error) {
	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	chk, err := chunker.NewSentenceChunker(cfg.Chunking.ChunkSize, cfg.Chunking.Overlap)
	if err != nil {
		return nil, err
	}

	sessions := session.NewStore()

	var persist port.ChunkStore
	if cfg.Storage.Enabled {
		if err := config.EnsureDataDir(rootDir); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		persist, err = store.NewBoltChunkStore(cfg.StorePath(rootDir))
		if err != nil {
			return nil, err
		}
	}

	var cache *retriever.QueryCache
	if cfg.Retrieve.CacheSize > 0 {
		cache = retriever.NewQueryCache(cfg.Retrieve.CacheSize, time.Duration(cfg.Retrieve.CacheTTLSeconds)*time.Second)
	}

	sr, err := retriever.NewSessionRetriever(sessions, embedder, cfg.Retrieve.DiversityWeight, cache)
	if err != nil {
		return nil, err
	}

	return &engine{
		sessions: sessions,
		persist:  persist,
		ingest:   usecase.NewIngestUseCase(chk, embedder, sessions, persist, logger),
		retrieve: usecase.NewRetrieveUseCase(sr, cfg.Retrieve.TopK),
		admin:    usecase.NewSessionAdminUseCase(sessions, persist, logger),
	}, nil
}

func (e *engine) close() {
	if e.persist != nil {
		e.persist.Close()
	}
}

// rehydrate loads a session's persisted chunks before a read. A session with
// nothing persisted is fine here; retrieval handles it with the sentinel.
func (e *engine) rehydrate(sessionID string) error {
	if e.persist == nil {
		return nil
	}
	_, err := e.admin.Rehydrate(sessionID)
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

func buildEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		if cfg.Embedding.BaseURL != "" {
			return embedding.NewOpenAICompatibleEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BaseURL)
		}
		return embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.BaseURL)
	case "mock":
		return embedding.NewMockEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Embedding.Provider)
	}
}

func buildLLM(cfg *config.Config) (port.LLM, error) {
	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.BaseURL != "" {
			return llm.NewOpenAICompatibleClient(cfg.LLM.APIKeyEnv, cfg.LLM.Model, cfg.LLM.BaseURL)
		}
		return llm.NewOpenAIClient(cfg.LLM.APIKeyEnv, cfg.LLM.Model)
	case "groq":
		return llm.NewGroqClient(cfg.LLM.APIKeyEnv, cfg.LLM.Model)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLM.Provider)
	}
}
