package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/ragbench/chunkbench/internal/core/domain"
	"github.com/ragbench/chunkbench/internal/core/ports"
	"github.com/ragbench/chunkbench/internal/core/rouge"
)

// RetrievalEvaluator scores ranked retrieval results against ground-truth
// answer spans. A retrieved chunk counts as relevant when its Rouge-L
// F-measure against a ground-truth source chunk reaches the threshold; a
// query may have several distinct relevant ground-truth chunks.
type RetrievalEvaluator struct {
	kValues        []int
	rougeThreshold float64
}

func NewRetrievalEvaluator(kValues []int, rougeThreshold float64) (*RetrievalEvaluator, error) {
	if len(kValues) == 0 {
		return nil, domain.ConfigError("k_values", "at least one cutoff required")
	}
	sorted := make([]int, len(kValues))
	copy(sorted, kValues)
	sort.Ints(sorted)
	if sorted[0] <= 0 {
		return nil, domain.ConfigError("k_values", fmt.Sprintf("cutoff %d must be positive", sorted[0]))
	}
	if rougeThreshold < 0 || rougeThreshold > 1 {
		return nil, domain.ConfigError("rouge_threshold", fmt.Sprintf("%v out of range [0,1]", rougeThreshold))
	}
	return &RetrievalEvaluator{kValues: sorted, rougeThreshold: rougeThreshold}, nil
}

// EvaluateQuery computes precision@k, recall@k, NDCG@k and MRR for one
// query. The relevant-item total is the number of distinct ground-truth
// chunks matched anywhere in the full retrieved pool, not just top-k; a
// query with zero relevant items is flagged degenerate.
func (e *RetrievalEvaluator) EvaluateQuery(
	question string,
	ranked []domain.RetrievedChunk,
	truths []domain.GroundTruthAnswer,
) domain.QueryMetrics {
	gtChunks := distinctSourceChunks(truths)

	// matches[i][g] reports whether retrieved item i matches ground-truth
	// chunk g at or above the threshold.
	matches := make([][]bool, len(ranked))
	relevant := make([]bool, len(ranked))
	gtMatched := make([]bool, len(gtChunks))
	for i, item := range ranked {
		matches[i] = make([]bool, len(gtChunks))
		for g, gt := range gtChunks {
			if rouge.Score(item.Content, gt) >= e.rougeThreshold {
				matches[i][g] = true
				relevant[i] = true
				gtMatched[g] = true
			}
		}
	}

	relevantTotal := 0
	for _, m := range gtMatched {
		if m {
			relevantTotal++
		}
	}

	m := domain.QueryMetrics{
		Question:      question,
		RelevantTotal: relevantTotal,
		PrecisionAt:   make(map[int]float64, len(e.kValues)),
		RecallAt:      make(map[int]float64, len(e.kValues)),
		NDCGAt:        make(map[int]float64, len(e.kValues)),
		Degenerate:    relevantTotal == 0,
	}

	for i := range ranked {
		if relevant[i] {
			m.MRR = 1.0 / float64(i+1)
			break
		}
	}

	for _, k := range e.kValues {
		top := k
		if top > len(ranked) {
			top = len(ranked)
		}

		hits := 0
		covered := make([]bool, len(gtChunks))
		dcg := 0.0
		for i := 0; i < top; i++ {
			if !relevant[i] {
				continue
			}
			hits++
			dcg += 1.0 / math.Log2(float64(i)+2)
			for g := range gtChunks {
				if matches[i][g] {
					covered[g] = true
				}
			}
		}

		m.PrecisionAt[k] = float64(hits) / float64(k)

		if relevantTotal > 0 {
			coveredCount := 0
			for _, c := range covered {
				if c {
					coveredCount++
				}
			}
			m.RecallAt[k] = float64(coveredCount) / float64(relevantTotal)
			m.NDCGAt[k] = dcg / idealDCG(minInt(k, relevantTotal))
		}
	}

	return m
}

// Aggregate averages per-query metrics into a report. Degenerate queries
// are excluded from the recall and NDCG means but counted and reported.
func (e *RetrievalEvaluator) Aggregate(results []domain.QueryMetrics) *domain.EvaluationReport {
	report := &domain.EvaluationReport{
		Aggregates: make(map[string]float64, 3*len(e.kValues)+1),
		Config: domain.EvaluationSettings{
			KValues:        append([]int(nil), e.kValues...),
			RougeThreshold: e.rougeThreshold,
		},
		QueryCount:        len(results),
		IndividualResults: results,
		GeneratedAt:       time.Now().UTC(),
	}

	nonDegenerate := 0
	for _, r := range results {
		if r.Degenerate {
			report.DegenerateQueries++
		} else {
			nonDegenerate++
		}
	}

	var mrrSum float64
	for _, r := range results {
		mrrSum += r.MRR
	}
	if len(results) > 0 {
		report.Aggregates["mrr"] = mrrSum / float64(len(results))
	}

	for _, k := range e.kValues {
		var pSum, rSum, nSum float64
		for _, r := range results {
			pSum += r.PrecisionAt[k]
			if !r.Degenerate {
				rSum += r.RecallAt[k]
				nSum += r.NDCGAt[k]
			}
		}
		if len(results) > 0 {
			report.Aggregates[fmt.Sprintf("precision@%d", k)] = pSum / float64(len(results))
		}
		if nonDegenerate > 0 {
			report.Aggregates[fmt.Sprintf("recall@%d", k)] = rSum / float64(nonDegenerate)
			report.Aggregates[fmt.Sprintf("ndcg@%d", k)] = nSum / float64(nonDegenerate)
		}
	}

	return report
}

func distinctSourceChunks(truths []domain.GroundTruthAnswer) []string {
	seen := make(map[string]bool, len(truths))
	out := make([]string, 0, len(truths))
	for _, t := range truths {
		if t.SourceChunk == "" || seen[t.SourceChunk] {
			continue
		}
		seen[t.SourceChunk] = true
		out = append(out, t.SourceChunk)
	}
	return out
}

func idealDCG(n int) float64 {
	ideal := 0.0
	for i := 0; i < n; i++ {
		ideal += 1.0 / math.Log2(float64(i)+2)
	}
	return ideal
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// RetrievalBenchmarkUseCase runs the evaluator over a full QA set: embed
// each question, search the vector store, score the ranked results. A
// failing query is logged and skipped; it never aborts the run.
type RetrievalBenchmarkUseCase struct {
	embedder  ports.Embedder
	store     ports.VectorStore
	evaluator *RetrievalEvaluator
	limit     int
	logger    *slog.Logger
}

func NewRetrievalBenchmarkUseCase(
	embedder ports.Embedder,
	store ports.VectorStore,
	evaluator *RetrievalEvaluator,
	limit int,
	logger *slog.Logger,
) *RetrievalBenchmarkUseCase {
	if limit <= 0 {
		limit = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RetrievalBenchmarkUseCase{
		embedder:  embedder,
		store:     store,
		evaluator: evaluator,
		limit:     limit,
		logger:    logger,
	}
}

func (uc *RetrievalBenchmarkUseCase) Run(ctx context.Context, truths []domain.GroundTruthAnswer) (*domain.EvaluationReport, error) {
	questions, grouped := groupByQuestion(truths)

	results := make([]domain.QueryMetrics, 0, len(questions))
	failed := 0
	for _, q := range questions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		metrics, err := uc.evaluateOne(ctx, q, grouped[q])
		if err != nil {
			failed++
			uc.logger.Error("benchmark_query_failed", "question", q, "error", err)
			continue
		}
		results = append(results, metrics)
	}

	if len(results) == 0 && failed > 0 {
		return nil, fmt.Errorf("all %d benchmark queries failed", failed)
	}

	report := uc.evaluator.Aggregate(results)
	report.Config.RetrievalLimit = uc.limit
	return report, nil
}

func (uc *RetrievalBenchmarkUseCase) evaluateOne(ctx context.Context, question string, truths []domain.GroundTruthAnswer) (domain.QueryMetrics, error) {
	vector, err := uc.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return domain.QueryMetrics{}, fmt.Errorf("embed query: %w", err)
	}

	ranked, err := uc.store.Search(ctx, vector, uc.limit, domain.SearchFilter{})
	if err != nil {
		return domain.QueryMetrics{}, fmt.Errorf("search vector store: %w", err)
	}
	for i := range ranked {
		if ranked[i].Rank == 0 {
			ranked[i].Rank = i + 1
		}
	}

	return uc.evaluator.EvaluateQuery(question, ranked, truths), nil
}

func groupByQuestion(truths []domain.GroundTruthAnswer) ([]string, map[string][]domain.GroundTruthAnswer) {
	order := make([]string, 0, len(truths))
	grouped := make(map[string][]domain.GroundTruthAnswer, len(truths))
	for _, t := range truths {
		if _, ok := grouped[t.Question]; !ok {
			order = append(order, t.Question)
		}
		grouped[t.Question] = append(grouped[t.Question], t)
	}
	return order, grouped
}
