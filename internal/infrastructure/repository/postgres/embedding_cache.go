package postgres

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// EmbeddingCache is an append-only vector cache keyed by the SHA-256 of the
// exact input text. Entries are never invalidated; a changed text hashes to
// a new key.
type EmbeddingCache struct {
	db *sql.DB
}

func NewEmbeddingCache(db *sql.DB) *EmbeddingCache {
	return &EmbeddingCache{db: db}
}

func (c *EmbeddingCache) EnsureSchema(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083104)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS embedding_cache (
	text_hash TEXT PRIMARY KEY,
	vector JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (c *EmbeddingCache) Get(ctx context.Context, text string) ([]float32, bool, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT vector FROM embedding_cache WHERE text_hash = $1`, hashText(text))

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("scan cached vector: %w", err)
	}

	var vector []float32
	if err := json.Unmarshal(raw, &vector); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached vector: %w", err)
	}
	return vector, true, nil
}

func (c *EmbeddingCache) Put(ctx context.Context, text string, vector []float32) error {
	raw, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("marshal vector: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
INSERT INTO embedding_cache (text_hash, vector)
VALUES ($1, $2)
ON CONFLICT (text_hash) DO NOTHING
`, hashText(text), raw)
	if err != nil {
		return fmt.Errorf("insert cached vector: %w", err)
	}
	return nil
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
