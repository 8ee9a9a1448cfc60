package qdrant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ragbench/chunkbench/internal/core/domain"
)

func TestIndexChunksEnsuresCollectionOncePerVectorSize(t *testing.T) {
	var ensureCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/chunks":
			atomic.AddInt32(&ensureCalls, 1)
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/chunks/points":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := New(server.URL, "chunks")
	doc := &domain.Document{ID: "doc-1", Filename: "a.txt"}
	chunks := []domain.Chunk{
		{ID: "c-0", ChunkIndex: 0, Content: "a", TokenCount: 1},
		{ID: "c-1", ChunkIndex: 1, Content: "b", TokenCount: 1},
	}
	vectors := [][]float32{{0.1, 0.2}, {0.3, 0.4}}

	if err := client.IndexChunks(context.Background(), doc, chunks, vectors); err != nil {
		t.Fatalf("first IndexChunks() error = %v", err)
	}
	if err := client.IndexChunks(context.Background(), doc, chunks, vectors); err != nil {
		t.Fatalf("second IndexChunks() error = %v", err)
	}
	if got := atomic.LoadInt32(&ensureCalls); got != 1 {
		t.Fatalf("expected ensure collection called once, got %d", got)
	}
}

func TestEnsureCollectionIncludesResponseBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/collections/chunks" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := New(server.URL, "chunks")
	doc := &domain.Document{ID: "doc-1", Filename: "a.txt"}
	chunks := []domain.Chunk{{ID: "c-0", ChunkIndex: 0, Content: "a", TokenCount: 1}}
	err := client.IndexChunks(context.Background(), doc, chunks, [][]float32{{0.1, 0.2}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := err.Error(); got == "" || !strings.Contains(got, "boom") {
		t.Fatalf("expected error to include body, got %v", err)
	}
}

func TestSearchAssignsRanksAndReadsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/collections/chunks/points/search" {
			_, _ = w.Write([]byte(`{"result":[
				{"score":0.9,"payload":{"document_id":"doc-1","chunk_index":3,"content":"first hit"}},
				{"score":0.5,"payload":{"document_id":"doc-1","chunk_index":0,"content":"second hit"}}
			]}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := New(server.URL, "chunks")
	hits, err := client.Search(context.Background(), []float32{0.1, 0.2}, 5, domain.SearchFilter{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Rank != 1 || hits[1].Rank != 2 {
		t.Fatalf("expected 1-based ranks, got %d and %d", hits[0].Rank, hits[1].Rank)
	}
	if hits[0].ChunkIndex != 3 || hits[0].Content != "first hit" {
		t.Fatalf("unexpected first hit: %+v", hits[0])
	}
}
