package store

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"

	"github.com/ahiree/chat-bot/internal/domain"
)

var bucketChunks = []byte("chunks")

// BoltChunkStore persists chunk records in a BoltDB file so sessions can be
// rehydrated after a restart. Keys are session-scoped and ordered by a
// monotonically increasing sequence, which preserves insertion order across
// save/load.
type BoltChunkStore struct {
	db *bbolt.DB
}

func NewBoltChunkStore(path string) (*BoltChunkStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketChunks)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create chunks bucket: %w", err)
	}

	return &BoltChunkStore{db: db}, nil
}

// SaveChunks appends records for one document to the session's key range in a
// single transaction: a failure leaves nothing behind.
func (s *BoltChunkStore) SaveChunks(sessionID, docID string, records []domain.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketChunks)
		for _, rec := range records {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := b.Put(chunkKey(sessionID, seq), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadSession returns every record persisted for the session, oldest first.
func (s *BoltChunkStore) LoadSession(sessionID string) ([]domain.ChunkRecord, error) {
	var records []domain.ChunkRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketChunks).Cursor()
		prefix := keyPrefix(sessionID)
		for k, v := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, v = c.Next() {
			var rec domain.ChunkRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("corrupt chunk record %q: %w", k, err)
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteSession drops all persisted records for the session.
func (s *BoltChunkStore) DeleteSession(sessionID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketChunks)
		c := b.Cursor()
		prefix := keyPrefix(sessionID)
		for k, _ := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, _ = c.Next() {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListSessions walks the key space session by session: after reading one
// session ID it seeks past the \x00-separated range to the next one, so the
// cost is one seek per session rather than one per chunk.
func (s *BoltChunkStore) ListSessions() ([]string, error) {
	var ids []string

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketChunks).Cursor()
		for k, _ := c.First(); k != nil; {
			sep := bytes.IndexByte(k, 0)
			if sep < 0 {
				return fmt.Errorf("malformed chunk key %q", k)
			}
			id := string(k[:sep])
			ids = append(ids, id)
			k, _ = c.Seek(append([]byte(id), 1))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

// DeleteAll drops the chunks bucket wholesale and recreates it empty.
func (s *BoltChunkStore) DeleteAll() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketChunks); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketChunks)
		return err
	})
}

func (s *BoltChunkStore) Close() error {
	return s.db.Close()
}

// chunkKey is "<session>\x00<seq>" with the sequence big-endian so byte order
// matches insertion order under the cursor.
func chunkKey(sessionID string, seq uint64) []byte {
	key := make([]byte, 0, len(sessionID)+9)
	key = append(key, sessionID...)
	key = append(key, 0)
	key = binary.BigEndian.AppendUint64(key, seq)
	return key
}

func keyPrefix(sessionID string) []byte {
	return append([]byte(sessionID), 0)
}

func hasPrefix(k, prefix []byte) bool {
	if len(k) < len(prefix) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}
