package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ragbench/chunkbench/internal/infrastructure/resilience"
)

type Client struct {
	baseURL      string
	extractModel string
	embedModel   string
	httpClient   *http.Client
	exec         *resilience.Executor
}

func New(baseURL, extractModel, embedModel string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		extractModel: extractModel,
		embedModel:   embedModel,
		httpClient:   &http.Client{Timeout: 120 * time.Second},
		exec:         resilience.NewExecutor(resilience.DefaultConfig()),
	}
}

func (c *Client) call(ctx context.Context, operation, path string, payload, out any) error {
	err := c.exec.Execute(ctx, operation, func(ctx context.Context) error {
		return c.postJSON(ctx, path, payload, out, operation)
	}, classifyOllamaError)
	return wrapTemporaryIfNeeded(operation, err)
}

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	request := map[string]any{
		"model": e.client.embedModel,
		"input": texts,
	}

	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := e.client.call(ctx, "embed", "/api/embed", request, &response); err != nil {
		return nil, err
	}
	return response.Embeddings, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return vectors[0], nil
}

// Extractor asks the generation model for the verbatim answer passage to a
// question within a supplied context window.
type Extractor struct {
	client *Client
}

func NewExtractor(client *Client) *Extractor {
	return &Extractor{client: client}
}

func (x *Extractor) ExtractSpan(ctx context.Context, question, window string) (string, error) {
	reqBody := map[string]any{
		"model":  x.client.extractModel,
		"prompt": buildExtractionPrompt(question, window),
		"stream": false,
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := x.client.call(ctx, "extract", "/api/generate", reqBody, &response); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}
