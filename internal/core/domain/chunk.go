package domain

// Chunk is an ordered group of contiguous sentences merged together.
// StartSentence/EndSentence are inclusive indexes into the sentence sequence
// the chunk was built from; across one document the ranges are contiguous,
// non-overlapping, and cover the whole sequence.
type Chunk struct {
	ID            string `json:"id,omitempty"`
	DocumentID    string `json:"document_id,omitempty"`
	ChunkIndex    int    `json:"chunk_index"`
	Content       string `json:"content"`
	TokenCount    int    `json:"token_count"`
	StartSentence int    `json:"start_sentence"`
	EndSentence   int    `json:"end_sentence"`
}
