package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ragbench/chunkbench/internal/core/domain"
	"github.com/ragbench/chunkbench/internal/core/ports"
	"github.com/ragbench/chunkbench/internal/core/rouge"
)

// VerifyQAUseCase gates generated QA pairs before they enter the
// evaluation set: expand context around the answer chunk up to a token
// budget, ask the LLM to re-extract the verbatim answer span, and score the
// extraction against the original chunk content with Rouge-L.
//
// The comparison target is the chunk content, not the stored answer field;
// that is the documented, intentional behavior of this gate.
type VerifyQAUseCase struct {
	extractor        ports.AnswerExtractor
	counter          ports.TokenCounter
	store            ports.VerificationStore // optional, nil skips persistence
	maxContextTokens int
	rougeThreshold   float64
	logger           *slog.Logger
}

func NewVerifyQAUseCase(
	extractor ports.AnswerExtractor,
	counter ports.TokenCounter,
	store ports.VerificationStore,
	maxContextTokens int,
	rougeThreshold float64,
	logger *slog.Logger,
) (*VerifyQAUseCase, error) {
	if maxContextTokens <= 0 {
		return nil, domain.ConfigError("max_context_tokens", "must be positive")
	}
	if rougeThreshold < 0 || rougeThreshold > 1 {
		return nil, domain.ConfigError("rouge_threshold", fmt.Sprintf("%v out of range [0,1]", rougeThreshold))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &VerifyQAUseCase{
		extractor:        extractor,
		counter:          counter,
		store:            store,
		maxContextTokens: maxContextTokens,
		rougeThreshold:   rougeThreshold,
		logger:           logger,
	}, nil
}

// Verify checks one QA pair against the ordered chunk sequence of its
// document. chunks must be in document order.
func (uc *VerifyQAUseCase) Verify(ctx context.Context, qa domain.GroundTruthAnswer, chunks []domain.Chunk) (domain.VerificationRecord, error) {
	anchor := -1
	for i, c := range chunks {
		if c.Content == qa.SourceChunk {
			anchor = i
			break
		}
	}
	if anchor < 0 {
		return domain.VerificationRecord{}, domain.WrapError(
			domain.ErrInvalidInput, "verify qa pair", errors.New("source chunk not found in document chunks"))
	}

	window := uc.expandContext(chunks, anchor)

	extracted, err := uc.extractor.ExtractSpan(ctx, qa.Question, window)
	if err != nil {
		return domain.VerificationRecord{}, fmt.Errorf("extract answer span: %w", err)
	}

	score := rouge.Score(extracted, qa.SourceChunk)
	record := domain.VerificationRecord{
		ID:            uuid.NewString(),
		Question:      qa.Question,
		ChunkContent:  qa.SourceChunk,
		ExtractedText: extracted,
		RougeL:        score,
		Passed:        score >= uc.rougeThreshold,
		CreatedAt:     time.Now().UTC(),
	}

	if uc.store != nil {
		if err := uc.store.SaveRecord(ctx, record); err != nil {
			return record, fmt.Errorf("persist verification record: %w", err)
		}
	}
	return record, nil
}

// VerifyBatch runs Verify over a QA set; per-pair failures are logged and
// skipped so one bad pair never blocks the rest of the set.
func (uc *VerifyQAUseCase) VerifyBatch(ctx context.Context, pairs []domain.GroundTruthAnswer, chunks []domain.Chunk) ([]domain.VerificationRecord, error) {
	records := make([]domain.VerificationRecord, 0, len(pairs))
	for _, qa := range pairs {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		record, err := uc.Verify(ctx, qa, chunks)
		if err != nil {
			uc.logger.Error("qa_verification_failed", "question", qa.Question, "error", err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// expandContext grows a window around the anchor chunk, alternately taking
// the next chunk after and the next chunk before ("after" first on ties),
// and stops as soon as any append would exceed the token budget. When the
// budget is never reached the window covers every available chunk.
func (uc *VerifyQAUseCase) expandContext(chunks []domain.Chunk, anchor int) string {
	lo, hi := anchor, anchor
	total := uc.counter.CountTokens(chunks[anchor].Content)
	preferAfter := true

	for {
		idx := -1
		switch {
		case preferAfter && hi+1 < len(chunks):
			idx = hi + 1
		case !preferAfter && lo > 0:
			idx = lo - 1
		case hi+1 < len(chunks):
			idx = hi + 1
		case lo > 0:
			idx = lo - 1
		}
		if idx < 0 {
			break
		}

		cost := uc.counter.CountTokens(chunks[idx].Content)
		if total+cost > uc.maxContextTokens {
			break
		}

		total += cost
		if idx > hi {
			hi = idx
			preferAfter = false
		} else {
			lo = idx
			preferAfter = true
		}
	}

	var b []byte
	for i := lo; i <= hi; i++ {
		b = append(b, chunks[i].Content...)
	}
	return string(b)
}
