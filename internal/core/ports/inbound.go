package ports

import (
	"context"
	"io"

	"github.com/ragbench/chunkbench/internal/core/domain"
)

// DocumentIngestor is the inbound contract for corpus document upload.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous chunking.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// RetrievalBenchmark runs the retrieval evaluation over a QA set.
type RetrievalBenchmark interface {
	Run(ctx context.Context, truths []domain.GroundTruthAnswer) (*domain.EvaluationReport, error)
}

// QAVerifier gates QA pairs before they enter the evaluation set.
type QAVerifier interface {
	Verify(ctx context.Context, qa domain.GroundTruthAnswer, chunks []domain.Chunk) (domain.VerificationRecord, error)
}
