package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ragbench/chunkbench/internal/config"
	"github.com/ragbench/chunkbench/internal/core/ports"
	"github.com/ragbench/chunkbench/internal/core/split"
	"github.com/ragbench/chunkbench/internal/core/usecase"
	"github.com/ragbench/chunkbench/internal/infrastructure/extractor"
	"github.com/ragbench/chunkbench/internal/infrastructure/extractor/pdf"
	"github.com/ragbench/chunkbench/internal/infrastructure/extractor/plaintext"
	"github.com/ragbench/chunkbench/internal/infrastructure/llm/ollama"
	"github.com/ragbench/chunkbench/internal/infrastructure/queue/nats"
	"github.com/ragbench/chunkbench/internal/infrastructure/repository/postgres"
	"github.com/ragbench/chunkbench/internal/infrastructure/storage/localfs"
	"github.com/ragbench/chunkbench/internal/infrastructure/tokencount"
	"github.com/ragbench/chunkbench/internal/infrastructure/vector/qdrant"
	"github.com/ragbench/chunkbench/internal/observability/logging"
	"github.com/ragbench/chunkbench/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Profile config.Profile
	Logger  *slog.Logger
	Metrics *metrics.WorkerMetrics

	Queue      ports.MessageQueue
	Repo       ports.DocumentRepository
	ChunkStore ports.ChunkStore

	IngestUC    ports.DocumentIngestor
	ProcessUC   ports.DocumentProcessor
	BenchmarkUC ports.RetrievalBenchmark
	VerifyUC    *usecase.VerifyQAUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	logger := logging.NewJSONLogger(service, cfg.LogLevel)

	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("load chunking profile: %w", err)
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure documents schema: %w", err)
	}
	chunkRepo := postgres.NewChunkRepository(db)
	if err := chunkRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure chunks schema: %w", err)
	}
	verificationRepo := postgres.NewVerificationRepository(db)
	if err := verificationRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure verifications schema: %w", err)
	}
	embeddingCache := postgres.NewEmbeddingCache(db)
	if err := embeddingCache.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure embedding cache schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaExtractModel, cfg.OllamaEmbedModel)
	embedder := ollama.NewEmbedder(ollamaClient)
	answerExtractor := ollama.NewExtractor(ollamaClient)

	vectorDB := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	counter := tokencount.New()

	splitter, err := split.New(profile.SplitConfig())
	if err != nil {
		return nil, fmt.Errorf("build splitter: %w", err)
	}

	textExtractor := extractor.NewDispatcher(
		plaintext.NewExtractor(storage),
		pdf.NewExtractor(storage),
	)

	chunkUC := usecase.NewChunkTextUseCase(
		splitter, embedder, counter, embeddingCache,
		profile.MergeOptions(), cfg.EmbedBatchSize, cfg.EmbedBatchDelay, logger,
	)
	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, textExtractor, chunkUC, vectorDB, chunkRepo)

	evaluator, err := usecase.NewRetrievalEvaluator(profile.Evaluation.KValues, profile.Evaluation.RougeThreshold)
	if err != nil {
		return nil, fmt.Errorf("build evaluator: %w", err)
	}
	benchmarkUC := usecase.NewRetrievalBenchmarkUseCase(embedder, vectorDB, evaluator, cfg.RetrievalLimit, logger)

	verifyUC, err := usecase.NewVerifyQAUseCase(
		answerExtractor, counter, verificationRepo,
		profile.Verification.MaxContextTokens, profile.Verification.RougeThreshold, logger,
	)
	if err != nil {
		return nil, fmt.Errorf("build qa verifier: %w", err)
	}

	return &App{
		Config:  cfg,
		Profile: profile,
		Logger:  logger,
		Metrics: metrics.NewWorkerMetrics(service),

		Queue:      queue,
		Repo:       repo,
		ChunkStore: chunkRepo,

		IngestUC:    ingestUC,
		ProcessUC:   processUC,
		BenchmarkUC: benchmarkUC,
		VerifyUC:    verifyUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
