package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ragbench/chunkbench/internal/bootstrap"
	"github.com/ragbench/chunkbench/internal/config"
	"github.com/ragbench/chunkbench/internal/core/domain"
	"github.com/ragbench/chunkbench/internal/infrastructure/dataset/xlsx"
)

const service = "evalrun"

func main() {
	qaPath := flag.String("qa", "", "path to the QA spreadsheet (xlsx)")
	outPath := flag.String("out", "", "path for the JSON report (stdout when empty)")
	verifyDoc := flag.String("verify-doc", "", "document id: verify QA pairs against its chunks before evaluating")
	flag.Parse()

	if *qaPath == "" {
		log.Fatal("missing required -qa flag")
	}

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, service)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	truths, err := xlsx.NewLoader(*qaPath).Load(ctx)
	if err != nil {
		log.Fatalf("load qa set: %v", err)
	}
	app.Logger.Info("qa_set_loaded", "pairs", len(truths))

	if *verifyDoc != "" {
		truths, err = verifyPairs(ctx, app, *verifyDoc, truths)
		if err != nil {
			log.Fatalf("verify qa set: %v", err)
		}
	}

	report, err := app.BenchmarkUC.Run(ctx, truths)
	if err != nil {
		log.Fatalf("benchmark run: %v", err)
	}

	if err := writeReport(report, *outPath); err != nil {
		log.Fatalf("write report: %v", err)
	}
	app.Logger.Info("benchmark_finished",
		"queries", report.QueryCount,
		"degenerate", report.DegenerateQueries,
		"mrr", report.Aggregates["mrr"],
	)
}

// verifyPairs drops QA pairs whose re-extracted answer fails the Rouge-L
// gate, so only trustworthy pairs reach the benchmark.
func verifyPairs(ctx context.Context, app *bootstrap.App, documentID string, truths []domain.GroundTruthAnswer) ([]domain.GroundTruthAnswer, error) {
	chunks, err := app.ChunkStore.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	records, err := app.VerifyUC.VerifyBatch(ctx, truths, chunks)
	if err != nil {
		return nil, err
	}

	passed := make(map[string]bool, len(records))
	for _, record := range records {
		if record.Passed {
			passed[record.Question] = true
		}
	}

	kept := make([]domain.GroundTruthAnswer, 0, len(truths))
	for _, qa := range truths {
		if passed[qa.Question] {
			kept = append(kept, qa)
		}
	}
	app.Logger.Info("qa_set_verified", "kept", len(kept), "dropped", len(truths)-len(kept))
	return kept, nil
}

func writeReport(report *domain.EvaluationReport, path string) error {
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	raw = append(raw, '\n')

	if path == "" {
		_, err = os.Stdout.Write(raw)
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
