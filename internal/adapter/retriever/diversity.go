package retriever

import (
	"github.com/ahiree/chat-bot/internal/domain"
	"github.com/ahiree/chat-bot/internal/vector"
)

// DefaultLambda is the diversity weight: 0 ranks purely by relevance, 1
// purely by dissimilarity to what is already selected.
const DefaultLambda = 0.3

// rerankWithDiversity greedily picks k chunks from candidates (already sorted
// by descending relevance), balancing relevance against coverage:
//
//	score = (1-λ)·relevance + λ·min dissimilarity to the selected set
//
// where dissimilarity is 1 minus cosine similarity. A shortlist of at most k
// is returned untouched. Ties keep the earlier candidate, so the result is
// deterministic and stable with respect to shortlist rank.
func rerankWithDiversity(candidates []domain.ScoredChunk, k int, lambda float64) []domain.ScoredChunk {
	if len(candidates) <= k {
		return candidates
	}

	selected := make([]domain.ScoredChunk, 0, k)
	selected = append(selected, candidates[0])
	remaining := make([]domain.ScoredChunk, len(candidates)-1)
	copy(remaining, candidates[1:])

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestScore := combinedScore(remaining[0], selected, lambda)

		for i := 1; i < len(remaining); i++ {
			if score := combinedScore(remaining[i], selected, lambda); score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}

func combinedScore(candidate domain.ScoredChunk, selected []domain.ScoredChunk, lambda float64) float64 {
	minDissim := 2.0 // above the max possible 1 - (-1)
	for _, sel := range selected {
		if d := 1 - vector.Dot(candidate.Chunk.Vector, sel.Chunk.Vector); d < minDissim {
			minDissim = d
		}
	}
	return (1-lambda)*candidate.Score + lambda*minDissim
}
