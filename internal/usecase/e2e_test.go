package usecase

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ahiree/chat-bot/internal/adapter/retriever"
	"github.com/ahiree/chat-bot/internal/adapter/store"
	"github.com/ahiree/chat-bot/internal/domain"
	"github.com/ahiree/chat-bot/internal/session"
)

// Ingest a 1200-word document with the default budgets, then query with a
// sentence drawn verbatim from the middle chunk: that chunk must come back
// first.
func TestIngestThenRetrieveVerbatimSentence(t *testing.T) {
	sessions := session.NewStore()
	emb := &hashEmbedder{dim: 512}
	ingestUC := NewIngestUseCase(newChunker(t, 500, 100), emb, sessions, nil, nil)

	text := buildText(120, 10) // 1200 words
	n, err := ingestUC.Ingest(text, "doc-1", "s1", "long.txt")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("expected 3 chunks, got %d", n)
	}

	chunks, _ := sessions.Snapshot("s1")
	sizes := make([]int, len(chunks))
	for i, c := range chunks {
		sizes[i] = len(strings.Fields(c.Text))
	}
	if sizes[0] != 500 || sizes[1] != 500 || sizes[2] != 400 {
		t.Errorf("chunk sizes = %v", sizes)
	}

	sr, err := retriever.NewSessionRetriever(sessions, emb, retriever.DefaultLambda, nil)
	if err != nil {
		t.Fatal(err)
	}
	retrieveUC := NewRetrieveUseCase(sr, 5)

	// Words 600..609 live in chunk 2's non-overlap region.
	query := "w600 w601 w602 w603 w604 w605 w606 w607 w608 w609."
	got, err := retrieveUC.Retrieve(query, "s1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 {
		t.Fatal("no results")
	}
	if got[0] != chunks[1].Text {
		t.Errorf("first result is not the chunk containing the query sentence")
	}
}

// clear_session then retrieve must produce the sentinel, and stats must
// report zeros.
func TestClearSessionThenRetrieve(t *testing.T) {
	sessions := session.NewStore()
	emb := &hashEmbedder{dim: 64}
	ingestUC := NewIngestUseCase(newChunker(t, 50, 10), emb, sessions, nil, nil)
	admin := NewSessionAdminUseCase(sessions, nil, nil)

	if _, err := ingestUC.Ingest(buildText(20, 10), "doc-1", "s1", "a.txt"); err != nil {
		t.Fatal(err)
	}

	if err := admin.ClearSession("s1"); err != nil {
		t.Fatal(err)
	}

	sr, err := retriever.NewSessionRetriever(sessions, emb, retriever.DefaultLambda, nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := NewRetrieveUseCase(sr, 5).Retrieve("anything", "s1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{domain.NoDocumentsSentinel}) {
		t.Errorf("got %v, want the sentinel", got)
	}

	stats, _ := admin.Stats("s1")
	if stats.TotalChunks != 0 || stats.UniqueDocuments != 0 {
		t.Errorf("stats after clear = %+v, want zeros", stats)
	}
}

// A session persisted during ingestion survives a restart: a fresh in-memory
// store rehydrated from the durable store retrieves identically.
func TestPersistenceSurvivesRestart(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chunks.db")
	persist, err := store.NewBoltChunkStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}

	emb := &hashEmbedder{dim: 64}
	sessions := session.NewStore()
	ingestUC := NewIngestUseCase(newChunker(t, 50, 10), emb, sessions, persist, nil)

	if _, err := ingestUC.Ingest(buildText(20, 10), "doc-1", "s1", "a.txt"); err != nil {
		t.Fatal(err)
	}
	before, _ := sessions.Snapshot("s1")
	persist.Close()

	// "Restart": new process state, same database file.
	reopened, err := store.NewBoltChunkStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	fresh := session.NewStore()
	admin := NewSessionAdminUseCase(fresh, reopened, nil)
	loaded, err := admin.Rehydrate("s1")
	if err != nil {
		t.Fatal(err)
	}
	if loaded != len(before) {
		t.Fatalf("rehydrated %d chunks, want %d", loaded, len(before))
	}

	after, _ := fresh.Snapshot("s1")
	for i := range before {
		if after[i].Text != before[i].Text {
			t.Errorf("chunk %d text changed across restart", i)
		}
		if !reflect.DeepEqual(after[i].Vector, before[i].Vector) {
			t.Errorf("chunk %d vector changed across restart", i)
		}
		if after[i].Metadata != before[i].Metadata {
			t.Errorf("chunk %d metadata changed across restart", i)
		}
	}

	sr, err := retriever.NewSessionRetriever(fresh, emb, retriever.DefaultLambda, nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := sr.Retrieve("w5 w6 w7", "s1", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 || got[0] == domain.NoDocumentsSentinel {
		t.Error("rehydrated session did not serve retrieval")
	}
}

func TestRehydrateAbsentSessionNotFound(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chunks.db")
	persist, err := store.NewBoltChunkStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer persist.Close()

	admin := NewSessionAdminUseCase(session.NewStore(), persist, nil)
	_, err = admin.Rehydrate("never-ingested")
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("got %v, want NotFoundError", err)
	}
	if notFound.ID != "never-ingested" {
		t.Errorf("NotFoundError.ID = %q", notFound.ID)
	}
}

func TestClearAllDropsDurableRecords(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chunks.db")
	persist, err := store.NewBoltChunkStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer persist.Close()

	emb := &hashEmbedder{dim: 64}
	sessions := session.NewStore()
	ingestUC := NewIngestUseCase(newChunker(t, 50, 10), emb, sessions, persist, nil)
	admin := NewSessionAdminUseCase(sessions, persist, nil)

	if _, err := ingestUC.Ingest(buildText(20, 10), "doc-1", "s1", "a.txt"); err != nil {
		t.Fatal(err)
	}
	if _, err := ingestUC.Ingest(buildText(20, 10), "doc-2", "s2", "b.txt"); err != nil {
		t.Fatal(err)
	}

	if err := admin.ClearAll(); err != nil {
		t.Fatal(err)
	}

	if got := sessions.TotalStats().TotalChunks; got != 0 {
		t.Errorf("in-memory chunks after ClearAll = %d, want 0", got)
	}
	ids, err := persist.ListSessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Errorf("durable sessions survived ClearAll: %v", ids)
	}
}

// Aggregate stats must see durable state from before a restart, not just what
// the current process has touched.
func TestRehydrateAllRestoresAggregateStats(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chunks.db")
	persist, err := store.NewBoltChunkStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}

	emb := &hashEmbedder{dim: 64}
	sessions := session.NewStore()
	ingestUC := NewIngestUseCase(newChunker(t, 50, 10), emb, sessions, persist, nil)

	if _, err := ingestUC.Ingest(buildText(20, 10), "doc-1", "s1", "a.txt"); err != nil {
		t.Fatal(err)
	}
	if _, err := ingestUC.Ingest(buildText(10, 10), "doc-2", "s2", "b.txt"); err != nil {
		t.Fatal(err)
	}
	wantChunks := sessions.TotalStats().TotalChunks
	persist.Close()

	reopened, err := store.NewBoltChunkStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	fresh := session.NewStore()
	admin := NewSessionAdminUseCase(fresh, reopened, nil)
	loaded, err := admin.RehydrateAll()
	if err != nil {
		t.Fatal(err)
	}
	if loaded != wantChunks {
		t.Errorf("RehydrateAll loaded %d chunks, want %d", loaded, wantChunks)
	}

	agg := fresh.TotalStats()
	if agg.TotalSessions != 2 || agg.TotalChunks != wantChunks {
		t.Errorf("aggregate stats = %+v, want 2 sessions with %d chunks", agg, wantChunks)
	}
	if !reflect.DeepEqual(agg.Sessions, []string{"s1", "s2"}) {
		t.Errorf("session list = %v", agg.Sessions)
	}
}
