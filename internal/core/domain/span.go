package domain

// Span is a contiguous slice of source text. Offsets are byte positions into
// the original document; text[Start:End] == Text for valid input.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Sentence is a span produced by a splitter, in document reading order.
// LanguageHint is best-effort and may be empty for mixed-script text.
type Sentence struct {
	Span
	LanguageHint string `json:"language_hint,omitempty"`
}

const (
	LangChinese = "zh"
	LangLatin   = "latin"
)
