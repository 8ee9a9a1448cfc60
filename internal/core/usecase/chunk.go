package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ragbench/chunkbench/internal/core/domain"
	"github.com/ragbench/chunkbench/internal/core/merge"
	"github.com/ragbench/chunkbench/internal/core/ports"
	"github.com/ragbench/chunkbench/internal/core/split"
)

// ChunkTextUseCase wires splitter, embedder and semantic merger into one
// chunk_text operation. Embedding calls are batched with an inter-batch
// delay as a rate-limit courtesy; any embedding failure aborts chunking for
// the document, since skipping spans would break chunk order integrity.
type ChunkTextUseCase struct {
	splitter  split.Splitter
	embedder  ports.Embedder
	counter   ports.TokenCounter
	cache     ports.EmbeddingCache // optional, nil disables caching
	mergeOpts merge.Options
	batchSize int
	limiter   *rate.Limiter
	logger    *slog.Logger
}

func NewChunkTextUseCase(
	splitter split.Splitter,
	embedder ports.Embedder,
	counter ports.TokenCounter,
	cache ports.EmbeddingCache,
	mergeOpts merge.Options,
	batchSize int,
	batchDelay time.Duration,
	logger *slog.Logger,
) *ChunkTextUseCase {
	if batchSize <= 0 {
		batchSize = 32
	}
	var limiter *rate.Limiter
	if batchDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(batchDelay), 1)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChunkTextUseCase{
		splitter:  splitter,
		embedder:  embedder,
		counter:   counter,
		cache:     cache,
		mergeOpts: mergeOpts,
		batchSize: batchSize,
		limiter:   limiter,
		logger:    logger,
	}
}

// ChunkText splits text, embeds every span, and merges adjacent spans into
// chunk records carrying the document id and a sequential chunk index.
func (uc *ChunkTextUseCase) ChunkText(ctx context.Context, text, documentID string) ([]domain.Chunk, error) {
	spans := uc.splitter.Split(text)
	if len(spans) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "split document", errors.New("splitting produced zero spans"))
	}

	texts := make([]string, len(spans))
	for i, s := range spans {
		texts[i] = s.Text
	}

	vectors, err := uc.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed spans: %w", err)
	}

	chunks, err := merge.Merge(spans, vectors, uc.mergeOpts, uc.counter)
	if err != nil {
		return nil, fmt.Errorf("merge spans: %w", err)
	}

	for i := range chunks {
		chunks[i].ID = uuid.NewString()
		chunks[i].DocumentID = documentID
	}
	return chunks, nil
}

// EmbedTexts embeds texts in configured-size batches, one vector per input
// in input order. Cancellation is checked between batches, not mid-batch.
func (uc *ChunkTextUseCase) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	for start := 0; start < len(texts); start += uc.batchSize {
		if err := uc.waitBatch(ctx); err != nil {
			return nil, err
		}

		end := start + uc.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		if err := uc.embedBatch(ctx, texts, vectors, start, end); err != nil {
			return nil, fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
	}
	return vectors, nil
}

func (uc *ChunkTextUseCase) embedBatch(ctx context.Context, texts []string, vectors [][]float32, start, end int) error {
	missing := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		if vec, ok := uc.cacheGet(ctx, texts[i]); ok {
			vectors[i] = vec
			continue
		}
		missing = append(missing, i)
	}
	if len(missing) == 0 {
		return nil
	}

	batch := make([]string, len(missing))
	for j, i := range missing {
		batch[j] = texts[i]
	}

	embedded, err := uc.embedder.Embed(ctx, batch)
	if err != nil {
		return err
	}
	if len(embedded) != len(batch) {
		return domain.WrapError(
			domain.ErrInvalidInput,
			"embed batch",
			fmt.Errorf("vectors/texts mismatch: %d/%d", len(embedded), len(batch)),
		)
	}

	for j, i := range missing {
		vectors[i] = embedded[j]
		uc.cachePut(ctx, texts[i], embedded[j])
	}
	return nil
}

func (uc *ChunkTextUseCase) waitBatch(ctx context.Context) error {
	if uc.limiter != nil {
		return uc.limiter.Wait(ctx)
	}
	return ctx.Err()
}

func (uc *ChunkTextUseCase) cacheGet(ctx context.Context, text string) ([]float32, bool) {
	if uc.cache == nil {
		return nil, false
	}
	vec, ok, err := uc.cache.Get(ctx, text)
	if err != nil {
		uc.logger.Warn("embedding_cache_get_failed", "error", err)
		return nil, false
	}
	return vec, ok
}

func (uc *ChunkTextUseCase) cachePut(ctx context.Context, text string, vec []float32) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Put(ctx, text, vec); err != nil {
		uc.logger.Warn("embedding_cache_put_failed", "error", err)
	}
}
