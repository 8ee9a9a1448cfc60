// Package merge groups adjacent sentence spans into chunks by embedding
// similarity under a hard token ceiling.
package merge

import (
	"fmt"
	"math"
	"strings"

	"github.com/ragbench/chunkbench/internal/core/domain"
)

// TokenCounter is the budget oracle for the merger. Deterministic for a
// given text.
type TokenCounter interface {
	CountTokens(text string) int
}

// Options gate the greedy forward merge.
type Options struct {
	// SimilarityThreshold is the minimum adjacent-pair cosine similarity
	// for a span to join the growing chunk. Ties merge (>=).
	SimilarityThreshold float64
	// MaxMergeDistance caps how many spans one chunk may absorb.
	MaxMergeDistance int
	// MaxChunkSize is the token ceiling per chunk. A single span already
	// over the ceiling is emitted alone; splitting below sentence
	// granularity is out of scope.
	MaxChunkSize int
}

func (o Options) validate() error {
	if o.SimilarityThreshold < 0 || o.SimilarityThreshold > 1 {
		return domain.ConfigError("similarity_threshold", fmt.Sprintf("%v out of range [0,1]", o.SimilarityThreshold))
	}
	if o.MaxMergeDistance <= 0 {
		return domain.ConfigError("max_merge_distance", "must be positive")
	}
	if o.MaxChunkSize <= 0 {
		return domain.ConfigError("max_chunk_size", "must be positive")
	}
	return nil
}

// Merge greedily folds each span into the current chunk while the cosine
// similarity between the span's embedding and the embedding of the last
// span already in the chunk stays at or above the threshold, the chunk
// holds fewer than MaxMergeDistance spans, and the merged text stays within
// the token ceiling. Any failed condition closes the chunk and starts a new
// one with the current span.
//
// Chunk sentence ranges are contiguous and non-overlapping; laid end to end
// they reconstruct the input span sequence.
func Merge(spans []domain.Sentence, vectors [][]float32, opts Options, counter TokenCounter) ([]domain.Chunk, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(spans) != len(vectors) {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"merge spans",
			fmt.Errorf("spans/vectors mismatch: %d/%d", len(spans), len(vectors)),
		)
	}
	if len(spans) == 0 {
		return nil, nil
	}

	chunks := make([]domain.Chunk, 0, len(spans)/2+1)

	var b strings.Builder
	b.WriteString(spans[0].Text)
	chunkStart := 0
	spanCount := 1
	lastVec := vectors[0]

	flush := func(endIdx int) {
		content := b.String()
		chunks = append(chunks, domain.Chunk{
			ChunkIndex:    len(chunks),
			Content:       content,
			TokenCount:    counter.CountTokens(content),
			StartSentence: chunkStart,
			EndSentence:   endIdx,
		})
	}

	for i := 1; i < len(spans); i++ {
		sim := Cosine(lastVec, vectors[i])
		fits := counter.CountTokens(b.String()+spans[i].Text) <= opts.MaxChunkSize

		if sim >= opts.SimilarityThreshold && spanCount < opts.MaxMergeDistance && fits {
			b.WriteString(spans[i].Text)
			spanCount++
			lastVec = vectors[i]
			continue
		}

		flush(i - 1)
		b.Reset()
		b.WriteString(spans[i].Text)
		chunkStart = i
		spanCount = 1
		lastVec = vectors[i]
	}
	flush(len(spans) - 1)

	return chunks, nil
}

// Cosine returns the cosine similarity of two dense vectors, 0 when either
// has zero norm or the dimensions differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
