package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/ragbench/chunkbench/internal/core/domain"
	"github.com/ragbench/chunkbench/internal/core/merge"
	"github.com/ragbench/chunkbench/internal/core/ports"
)

type spanSplitterFake struct {
	spans []domain.Sentence
}

func (f *spanSplitterFake) Split(string) []domain.Sentence {
	return f.spans
}

// batchEmbedder records each batch and returns one vector per input whose
// single component is the input length, so alignment is checkable.
type batchEmbedder struct {
	batches [][]string
	failOn  int // 1-based call number to fail at, 0 disables
}

func (f *batchEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.batches = append(f.batches, append([]string(nil), texts...))
	if f.failOn > 0 && len(f.batches) == f.failOn {
		return nil, errors.New("embedder down")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t))}
	}
	return out, nil
}

func (f *batchEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text))}, nil
}

type shortEmbedder struct{}

func (shortEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	return make([][]float32, len(texts)-1), nil
}

func (shortEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return nil, nil
}

type embeddingCacheFake struct {
	entries map[string][]float32
	puts    map[string][]float32
	getErr  error
}

func (f *embeddingCacheFake) Get(_ context.Context, text string) ([]float32, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	vec, ok := f.entries[text]
	return vec, ok, nil
}

func (f *embeddingCacheFake) Put(_ context.Context, text string, vec []float32) error {
	if f.puts == nil {
		f.puts = make(map[string][]float32)
	}
	f.puts[text] = vec
	return nil
}

func testMergeOptions() merge.Options {
	return merge.Options{SimilarityThreshold: 0.5, MaxMergeDistance: 8, MaxChunkSize: 512}
}

func newChunkUC(embedder ports.Embedder, cache *embeddingCacheFake, batchSize int) *ChunkTextUseCase {
	uc := NewChunkTextUseCase(&spanSplitterFake{}, embedder, fieldsCounter{}, nil, testMergeOptions(), batchSize, 0, nil)
	if cache != nil {
		uc.cache = cache
	}
	return uc
}

func TestEmbedTextsBatchesInOrder(t *testing.T) {
	embedder := &batchEmbedder{}
	uc := newChunkUC(embedder, nil, 2)

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	vectors, err := uc.EmbedTexts(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}
	if len(embedder.batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(embedder.batches))
	}
	if len(embedder.batches[0]) != 2 || len(embedder.batches[2]) != 1 {
		t.Fatalf("unexpected batch sizes: %v", embedder.batches)
	}
	for i, text := range texts {
		if vectors[i][0] != float32(len(text)) {
			t.Fatalf("vector %d misaligned: %v for %q", i, vectors[i], text)
		}
	}
}

func TestEmbedTextsFailsClosedOnEmbedderError(t *testing.T) {
	embedder := &batchEmbedder{failOn: 2}
	uc := newChunkUC(embedder, nil, 2)

	vectors, err := uc.EmbedTexts(context.Background(), []string{"a", "b", "c", "d"})
	if err == nil {
		t.Fatal("expected error from failing batch")
	}
	if vectors != nil {
		t.Fatalf("expected no partial vectors, got %v", vectors)
	}
}

func TestEmbedTextsServesCachedVectors(t *testing.T) {
	embedder := &batchEmbedder{}
	cache := &embeddingCacheFake{entries: map[string][]float32{"cached": {42}}}
	uc := newChunkUC(embedder, cache, 10)

	vectors, err := uc.EmbedTexts(context.Background(), []string{"fresh", "cached", "new"})
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}
	if vectors[1][0] != 42 {
		t.Fatalf("expected cached vector, got %v", vectors[1])
	}
	if len(embedder.batches) != 1 || len(embedder.batches[0]) != 2 {
		t.Fatalf("cached text must be excluded from the batch: %v", embedder.batches)
	}
	if _, ok := cache.puts["fresh"]; !ok {
		t.Fatal("expected miss to be written back to the cache")
	}
	if _, ok := cache.puts["cached"]; ok {
		t.Fatal("cached entry must not be re-written")
	}
}

func TestEmbedTextsTreatsCacheFailureAsMiss(t *testing.T) {
	embedder := &batchEmbedder{}
	cache := &embeddingCacheFake{getErr: errors.New("cache offline")}
	uc := newChunkUC(embedder, cache, 10)

	vectors, err := uc.EmbedTexts(context.Background(), []string{"abc"})
	if err != nil {
		t.Fatalf("cache failure must not fail embedding: %v", err)
	}
	if vectors[0][0] != 3 {
		t.Fatalf("expected freshly embedded vector, got %v", vectors[0])
	}
}

func TestEmbedTextsRejectsVectorCountMismatch(t *testing.T) {
	uc := newChunkUC(shortEmbedder{}, nil, 10)

	_, err := uc.EmbedTexts(context.Background(), []string{"a", "b"})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestChunkTextRejectsZeroSpans(t *testing.T) {
	uc := NewChunkTextUseCase(&spanSplitterFake{}, &batchEmbedder{}, fieldsCounter{}, nil, testMergeOptions(), 8, 0, nil)

	_, err := uc.ChunkText(context.Background(), "", "doc-1")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestChunkTextAssignsIdentity(t *testing.T) {
	splitter := &spanSplitterFake{spans: []domain.Sentence{
		{Span: domain.Span{Start: 0, End: 10, Text: "same text "}},
		{Span: domain.Span{Start: 10, End: 20, Text: "same text "}},
	}}
	uc := NewChunkTextUseCase(splitter, &batchEmbedder{}, fieldsCounter{}, nil, testMergeOptions(), 8, 0, nil)

	chunks, err := uc.ChunkText(context.Background(), "same text same text ", "doc-7")
	if err != nil {
		t.Fatalf("ChunkText() error = %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("identical vectors must merge, got %d chunks", len(chunks))
	}
	if chunks[0].ID == "" || chunks[0].DocumentID != "doc-7" || chunks[0].ChunkIndex != 0 {
		t.Fatalf("incomplete chunk identity: %+v", chunks[0])
	}
	if chunks[0].StartSentence != 0 || chunks[0].EndSentence != 1 {
		t.Fatalf("unexpected sentence range: %+v", chunks[0])
	}
}
