package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtractorBuildsExtractionPrompt(t *testing.T) {
	var capturedPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		capturedPrompt, _ = payload["prompt"].(string)
		_, _ = w.Write([]byte(`{"response":"  the answer span  "}`))
	}))
	defer server.Close()

	client := New(server.URL, "extract", "embed")
	extractor := NewExtractor(client)
	got, err := extractor.ExtractSpan(context.Background(), "what happened?", "context with the answer span inside")
	if err != nil {
		t.Fatalf("ExtractSpan() error = %v", err)
	}
	if got != "the answer span" {
		t.Fatalf("expected trimmed response, got %q", got)
	}
	if !strings.Contains(capturedPrompt, "what happened?") || !strings.Contains(capturedPrompt, "context with the answer span inside") {
		t.Fatalf("unexpected prompt: %s", capturedPrompt)
	}
}

func TestEmbedReturnsVectorsInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"embeddings":[[1,0],[0,1]]}`))
	}))
	defer server.Close()

	client := New(server.URL, "extract", "embed")
	embedder := NewEmbedder(client)
	vectors, err := embedder.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vectors) != 2 || vectors[0][0] != 1 || vectors[1][1] != 1 {
		t.Fatalf("unexpected vectors: %v", vectors)
	}
}

func TestEmbedIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusNotFound)
	}))
	defer server.Close()

	client := New(server.URL, "extract", "embed")
	embedder := NewEmbedder(client)
	_, err := embedder.Embed(context.Background(), []string{"hello"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

func TestClassifyRateLimitGetsCooldown(t *testing.T) {
	err := &HTTPStatusError{Operation: "embed", StatusCode: http.StatusTooManyRequests, Status: "429 Too Many Requests"}
	class := classifyOllamaError(err)
	if !class.Retryable {
		t.Fatal("expected 429 to be retryable")
	}
	if class.RecordFailure {
		t.Fatal("expected 429 not to count as breaker failure")
	}
	if class.Cooldown != rateLimitCooldown {
		t.Fatalf("expected fixed cooldown, got %v", class.Cooldown)
	}
}
