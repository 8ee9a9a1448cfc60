package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ragbench/chunkbench/internal/core/domain"
)

// VerificationRepository keeps QA self-verification outcomes for audit.
type VerificationRepository struct {
	db *sql.DB
}

func NewVerificationRepository(db *sql.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083103)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS qa_verifications (
	id TEXT PRIMARY KEY,
	question TEXT NOT NULL,
	chunk_content TEXT NOT NULL,
	extracted_text TEXT NOT NULL,
	rouge_l DOUBLE PRECISION NOT NULL,
	passed BOOLEAN NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_qa_verifications_passed ON qa_verifications(passed);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *VerificationRepository) SaveRecord(ctx context.Context, record domain.VerificationRecord) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO qa_verifications (id, question, chunk_content, extracted_text, rouge_l, passed, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`,
		record.ID, record.Question, record.ChunkContent, record.ExtractedText,
		record.RougeL, record.Passed, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert verification record: %w", err)
	}
	return nil
}
