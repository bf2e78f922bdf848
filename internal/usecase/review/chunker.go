package review

import "github.com/reviewbotdev/reviewbot/internal/domain"

// Chunk is a group of files reviewed in a single provider call.
type Chunk struct {
	Files  []domain.FileDiff
	Tokens int
}

// ChunkDiff packs files into chunks whose estimated prompt size stays under
// the token budget. Files are never split: a file larger than the budget gets
// a chunk of its own so the provider sees its whole diff. Input order is
// preserved, which keeps chunking, and therefore prompts, deterministic for
// a given diff.
func ChunkDiff(files []domain.FileDiff, budget int, estimate TokenEstimator) []Chunk {
	if len(files) == 0 {
		return nil
	}
	if budget <= 0 {
		budget = defaultChunkTokenBudget
	}
	if estimate == nil {
		estimate = func(text string) int { return len(text) / 4 }
	}

	var chunks []Chunk
	var current Chunk
	for _, f := range files {
		tokens := estimate(f.Path + "\n" + f.Patch)
		if len(current.Files) > 0 && current.Tokens+tokens > budget {
			chunks = append(chunks, current)
			current = Chunk{}
		}
		current.Files = append(current.Files, f)
		current.Tokens += tokens
	}
	if len(current.Files) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}
