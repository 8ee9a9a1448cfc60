package memstore

import (
	"context"
	"testing"

	"github.com/ragbench/chunkbench/internal/core/domain"
)

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	store := New()
	doc := &domain.Document{ID: "doc-1"}
	chunks := []domain.Chunk{
		{ID: "c-0", DocumentID: "doc-1", ChunkIndex: 0, Content: "orthogonal"},
		{ID: "c-1", DocumentID: "doc-1", ChunkIndex: 1, Content: "aligned"},
	}
	vectors := [][]float32{{0, 1}, {1, 0}}
	if err := store.IndexChunks(context.Background(), doc, chunks, vectors); err != nil {
		t.Fatalf("IndexChunks() error = %v", err)
	}

	hits, err := store.Search(context.Background(), []float32{1, 0}, 2, domain.SearchFilter{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Content != "aligned" || hits[0].Rank != 1 {
		t.Fatalf("unexpected top hit: %+v", hits[0])
	}
	if hits[1].Rank != 2 {
		t.Fatalf("expected rank 2, got %d", hits[1].Rank)
	}
}

func TestIndexChunksReplacesDocumentEntries(t *testing.T) {
	store := New()
	doc := &domain.Document{ID: "doc-1"}
	first := []domain.Chunk{{ID: "c-0", DocumentID: "doc-1", ChunkIndex: 0, Content: "stale"}}
	if err := store.IndexChunks(context.Background(), doc, first, [][]float32{{1, 0}}); err != nil {
		t.Fatalf("IndexChunks() error = %v", err)
	}
	second := []domain.Chunk{{ID: "c-1", DocumentID: "doc-1", ChunkIndex: 0, Content: "fresh"}}
	if err := store.IndexChunks(context.Background(), doc, second, [][]float32{{1, 0}}); err != nil {
		t.Fatalf("IndexChunks() error = %v", err)
	}

	hits, err := store.Search(context.Background(), []float32{1, 0}, 10, domain.SearchFilter{DocumentID: "doc-1"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 || hits[0].Content != "fresh" {
		t.Fatalf("expected only replacement entry, got %+v", hits)
	}
}

func TestSearchFiltersByDocument(t *testing.T) {
	store := New()
	docA := &domain.Document{ID: "doc-a"}
	docB := &domain.Document{ID: "doc-b"}
	_ = store.IndexChunks(context.Background(), docA, []domain.Chunk{{ID: "a", DocumentID: "doc-a", Content: "from a"}}, [][]float32{{1, 0}})
	_ = store.IndexChunks(context.Background(), docB, []domain.Chunk{{ID: "b", DocumentID: "doc-b", Content: "from b"}}, [][]float32{{1, 0}})

	hits, err := store.Search(context.Background(), []float32{1, 0}, 10, domain.SearchFilter{DocumentID: "doc-b"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 || hits[0].DocumentID != "doc-b" {
		t.Fatalf("expected only doc-b hits, got %+v", hits)
	}
}
