package domain

import "time"

type SearchFilter struct {
	DocumentID string
}

// RetrievedChunk is one ranked retrieval hit for a query. Rank is 1-based.
type RetrievedChunk struct {
	Rank       int     `json:"rank"`
	DocumentID string  `json:"document_id,omitempty"`
	ChunkIndex int     `json:"chunk_index,omitempty"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
}

// GroundTruthAnswer links a benchmark question to the chunk it was
// generated from. SourceChunk is the full content of that chunk.
type GroundTruthAnswer struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	SourceChunk string `json:"source_chunk"`
	DocumentID  string `json:"document_id,omitempty"`
}

// QueryMetrics holds per-query evaluation results. A query with zero
// relevant items in the retrieved pool is flagged Degenerate and excluded
// from recall/NDCG averages.
type QueryMetrics struct {
	Question      string          `json:"question"`
	RelevantTotal int             `json:"relevant_total"`
	MRR           float64         `json:"mrr"`
	PrecisionAt   map[int]float64 `json:"precision_at"`
	RecallAt      map[int]float64 `json:"recall_at"`
	NDCGAt        map[int]float64 `json:"ndcg_at"`
	Degenerate    bool            `json:"degenerate,omitempty"`
}

// EvaluationSettings is echoed into reports so a stored report is
// self-describing.
type EvaluationSettings struct {
	KValues        []int   `json:"k_values"`
	RougeThreshold float64 `json:"rouge_threshold"`
	RetrievalLimit int     `json:"retrieval_limit,omitempty"`
}

// EvaluationReport is the persisted output of one benchmark run.
// Aggregates are keyed by metric name and cutoff, e.g. "precision@5", "mrr".
type EvaluationReport struct {
	Aggregates        map[string]float64 `json:"aggregates"`
	Config            EvaluationSettings `json:"config"`
	QueryCount        int                `json:"query_count"`
	DegenerateQueries int                `json:"degenerate_queries"`
	IndividualResults []QueryMetrics     `json:"individual_results"`
	GeneratedAt       time.Time          `json:"generated_at"`
}

// VerificationRecord is the terminal output of QA self-verification.
// Downstream consumers filter on Passed.
type VerificationRecord struct {
	ID            string    `json:"id"`
	Question      string    `json:"question"`
	ChunkContent  string    `json:"chunk_content"`
	ExtractedText string    `json:"extracted_text"`
	RougeL        float64   `json:"rouge_l"`
	Passed        bool      `json:"passed"`
	CreatedAt     time.Time `json:"created_at"`
}
