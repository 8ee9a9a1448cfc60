// Package memstore is an in-memory vector store for offline benchmark runs
// and tests, exchangeable with the qdrant client behind the same port.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ragbench/chunkbench/internal/core/domain"
	"github.com/ragbench/chunkbench/internal/core/merge"
)

type entry struct {
	chunk  domain.Chunk
	vector []float32
}

type Store struct {
	mu      sync.RWMutex
	entries []entry
}

func New() *Store {
	return &Store{}
}

func (s *Store) IndexChunks(_ context.Context, doc *domain.Document, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks/vectors mismatch: %d/%d", len(chunks), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Reindexing a document replaces its previous entries.
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.chunk.DocumentID != doc.ID {
			kept = append(kept, e)
		}
	}
	s.entries = kept

	for i, chunk := range chunks {
		if chunk.DocumentID == "" {
			chunk.DocumentID = doc.ID
		}
		vector := make([]float32, len(vectors[i]))
		copy(vector, vectors[i])
		s.entries = append(s.entries, entry{chunk: chunk, vector: vector})
	}
	return nil
}

func (s *Store) Search(_ context.Context, queryVector []float32, limit int, filter domain.SearchFilter) ([]domain.RetrievedChunk, error) {
	if limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	scored := make([]domain.RetrievedChunk, 0, len(s.entries))
	for _, e := range s.entries {
		if filter.DocumentID != "" && e.chunk.DocumentID != filter.DocumentID {
			continue
		}
		scored = append(scored, domain.RetrievedChunk{
			DocumentID: e.chunk.DocumentID,
			ChunkIndex: e.chunk.ChunkIndex,
			Content:    e.chunk.Content,
			Score:      merge.Cosine(queryVector, e.vector),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored, nil
}
