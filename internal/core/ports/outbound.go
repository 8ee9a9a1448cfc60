package ports

import (
	"context"
	"io"

	"github.com/ragbench/chunkbench/internal/core/domain"
)

// DocumentRepository persists and reads corpus document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SetChunkCount(ctx context.Context, id string, count int) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes chunking jobs.
type MessageQueue interface {
	PublishDocumentChunk(ctx context.Context, documentID string) error
	SubscribeDocumentChunk(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// Embedder builds vectors for spans and query text, one vector per input,
// in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// TokenCounter counts tokens for a text span. Deterministic for a given
// text and counter configuration.
type TokenCounter interface {
	CountTokens(text string) int
}

// AnswerExtractor asks an LLM to re-extract the verbatim span answering
// a question from the provided context.
type AnswerExtractor interface {
	ExtractSpan(ctx context.Context, question, context string) (string, error)
}

// VectorStore indexes chunk records and performs semantic search.
type VectorStore interface {
	IndexChunks(ctx context.Context, doc *domain.Document, chunks []domain.Chunk, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, limit int, filter domain.SearchFilter) ([]domain.RetrievedChunk, error)
}

// ChunkStore persists chunk records for later context expansion.
type ChunkStore interface {
	SaveChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error
	ListByDocument(ctx context.Context, documentID string) ([]domain.Chunk, error)
}

// VerificationStore persists QA self-verification outcomes.
type VerificationStore interface {
	SaveRecord(ctx context.Context, record domain.VerificationRecord) error
}

// GroundTruthSource loads the benchmark QA set.
type GroundTruthSource interface {
	Load(ctx context.Context) ([]domain.GroundTruthAnswer, error)
}

// EmbeddingCache is an append-only store keyed by exact input text.
// A miss is (nil, false, nil); cache failures must not fail chunking.
type EmbeddingCache interface {
	Get(ctx context.Context, text string) ([]float32, bool, error)
	Put(ctx context.Context, text string, vector []float32) error
}
