package main

import (
	"context"
	"flag"
	"log"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ragbench/chunkbench/internal/bootstrap"
	"github.com/ragbench/chunkbench/internal/config"
)

const service = "ingest"

func main() {
	filePath := flag.String("file", "", "path to the corpus document to upload")
	mimeType := flag.String("mime", "", "mime type override (detected from extension when empty)")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("missing required -file flag")
	}

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, service)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	f, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	contentType := *mimeType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(*filePath))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	doc, err := app.IngestUC.Upload(ctx, filepath.Base(*filePath), contentType, f)
	if err != nil {
		log.Fatalf("upload document: %v", err)
	}
	app.Logger.Info("document_uploaded", "id", doc.ID, "filename", doc.Filename, "status", doc.Status)
}
