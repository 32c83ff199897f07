package domain

// NoDocumentsSentinel is returned as the single element of a retrieval result
// when the target session has no ingested chunks. Callers must compare against
// this exact value; it is not a real chunk.
const NoDocumentsSentinel = "No document uploaded yet."

// DefaultSessionID is used by legacy call sites that predate per-session
// storage. The core never assumes it.
const DefaultSessionID = "default"

// ChunkMetadata describes where a chunk came from.
type ChunkMetadata struct {
	DocID      string `json:"doc_id"`
	DocName    string `json:"doc_name"`
	ChunkIndex int    `json:"chunk_index"`
	CharCount  int    `json:"char_count"`
}

// Chunk is a contiguous span of document text with its embedding vector.
// Immutable once appended to a session.
type Chunk struct {
	Text     string
	Vector   []float32
	Metadata ChunkMetadata
}

// ScoredChunk pairs a chunk with its query relevance.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// ChunkRecord is the durable form of a chunk: the vector is encoded with the
// binary codec so it round-trips exactly.
type ChunkRecord struct {
	Text     string        `json:"text"`
	Vector   []byte        `json:"vector"`
	Metadata ChunkMetadata `json:"metadata"`
}

// SessionStats summarizes one session.
type SessionStats struct {
	SessionID       string `json:"session_id"`
	TotalChunks     int    `json:"total_chunks"`
	UniqueDocuments int    `json:"unique_documents"`
}

// AggregateStats summarizes the whole store.
type AggregateStats struct {
	TotalSessions int      `json:"total_sessions"`
	TotalChunks   int      `json:"total_chunks"`
	Sessions      []string `json:"sessions"`
}
