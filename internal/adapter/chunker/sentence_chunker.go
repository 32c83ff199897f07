package chunker

import (
	"strings"

	"github.com/ahiree/chat-bot/internal/domain"
)

const (
	DefaultChunkSize = 500
	DefaultOverlap   = 100
)

// SentenceChunker splits cleaned text into overlapping, sentence-aligned
// chunks bounded by a word-count budget. chunkSize is a soft target: a single
// sentence longer than the budget is emitted as its own oversized chunk,
// never split mid-sentence.
type SentenceChunker struct {
	chunkSize int
	overlap   int
}

// NewSentenceChunker validates the word budgets. overlap must be strictly
// smaller than chunkSize or every chunk would re-seed itself forever.
func NewSentenceChunker(chunkSize, overlap int) (*SentenceChunker, error) {
	if chunkSize <= 0 {
		return nil, &domain.ValidationError{Msg: "chunk size must be positive"}
	}
	if overlap < 0 {
		return nil, &domain.ValidationError{Msg: "overlap must not be negative"}
	}
	if overlap >= chunkSize {
		return nil, &domain.ValidationError{Msg: "overlap must be smaller than chunk size"}
	}
	return &SentenceChunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// Chunk splits text into chunks. Empty or whitespace-only input yields no
// chunks and no error.
func (c *SentenceChunker) Chunk(text string) ([]string, error) {
	text = CleanText(text)
	if text == "" {
		return nil, nil
	}

	sentences := splitSentences(text)

	var chunks []string
	var current []string

	for _, sentence := range sentences {
		words := strings.Fields(sentence)
		if len(words) == 0 {
			continue
		}

		if len(current)+len(words) > c.chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))

			// Seed the next chunk with the tail of the one just closed.
			seed := current
			if len(seed) > c.overlap {
				seed = seed[len(seed)-c.overlap:]
			}
			current = append(append([]string{}, seed...), words...)
		} else {
			current = append(current, words...)
		}
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks, nil
}

// splitSentences breaks text on sentence-final punctuation followed by
// whitespace. This is a heuristic: abbreviations and decimal numbers will
// mis-split. Accepted limitation, not worth a grammar.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			if i+1 < len(runes) && isSpace(runes[i+1]) {
				sentences = append(sentences, string(runes[start:i+1]))
				j := i + 1
				for j < len(runes) && isSpace(runes[j]) {
					j++
				}
				start = j
				i = j - 1
			}
		}
	}

	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}

	return sentences
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
