package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesDefaults(t *testing.T) {
	t.Setenv("EMBED_BATCH_SIZE", "")
	t.Setenv("EMBED_BATCH_DELAY_MS", "")
	t.Setenv("RETRIEVAL_LIMIT", "")
	t.Setenv("NATS_SUBJECT", "")

	cfg := Load()
	if cfg.EmbedBatchSize != 32 {
		t.Fatalf("expected default batch size 32, got %d", cfg.EmbedBatchSize)
	}
	if cfg.EmbedBatchDelay != 0 {
		t.Fatalf("expected no default batch delay, got %v", cfg.EmbedBatchDelay)
	}
	if cfg.RetrievalLimit != 10 {
		t.Fatalf("expected default retrieval limit 10, got %d", cfg.RetrievalLimit)
	}
	if cfg.NATSSubject != "documents.chunk" {
		t.Fatalf("expected default subject documents.chunk, got %q", cfg.NATSSubject)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("EMBED_BATCH_SIZE", "8")
	t.Setenv("EMBED_BATCH_DELAY_MS", "250")
	t.Setenv("RETRIEVAL_LIMIT", "25")

	cfg := Load()
	if cfg.EmbedBatchSize != 8 {
		t.Fatalf("expected batch size 8, got %d", cfg.EmbedBatchSize)
	}
	if cfg.EmbedBatchDelay != 250*time.Millisecond {
		t.Fatalf("expected batch delay 250ms, got %v", cfg.EmbedBatchDelay)
	}
	if cfg.RetrievalLimit != 25 {
		t.Fatalf("expected retrieval limit 25, got %d", cfg.RetrievalLimit)
	}
}

func TestLoadProfileEmptyPathReturnsDefaults(t *testing.T) {
	profile, err := LoadProfile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Merging.MaxChunkSize != 512 {
		t.Fatalf("expected default max chunk size 512, got %d", profile.Merging.MaxChunkSize)
	}
	if len(profile.Evaluation.KValues) == 0 {
		t.Fatal("expected default k values")
	}
}

func TestLoadProfileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	body := `
splitting:
  method: newline
  newline_mode: line
merging:
  similarity_threshold: 0.75
  max_merge_distance: 4
  max_chunk_size: 256
evaluation:
  k_values: [1, 5]
  rouge_threshold: 0.4
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	profile, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Splitting.Method != "newline" {
		t.Fatalf("expected method newline, got %q", profile.Splitting.Method)
	}
	if profile.Merging.SimilarityThreshold != 0.75 {
		t.Fatalf("expected similarity threshold 0.75, got %v", profile.Merging.SimilarityThreshold)
	}
	if profile.Merging.MaxChunkSize != 256 {
		t.Fatalf("expected max chunk size 256, got %d", profile.Merging.MaxChunkSize)
	}
	if profile.Verification.MaxContextTokens != 1024 {
		t.Fatalf("expected untouched verification defaults, got %d", profile.Verification.MaxContextTokens)
	}

	opts := profile.MergeOptions()
	if opts.MaxMergeDistance != 4 {
		t.Fatalf("expected merge distance 4, got %d", opts.MaxMergeDistance)
	}
}

func TestLoadProfileRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"similarity out of range", "merging:\n  similarity_threshold: 1.5\n"},
		{"zero k value", "evaluation:\n  k_values: [0]\n"},
		{"unknown method", "splitting:\n  method: token\n"},
		{"multi-rune quote", "splitting:\n  quote_pairs:\n    - open: '<<'\n      close: '>>'\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "profile.yaml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write profile: %v", err)
			}
			if _, err := LoadProfile(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
