// Package split segments raw document text into ordered sentence spans.
//
// Two mutually exclusive strategies are provided, chosen by configuration:
//
//   - sentence: punctuation scanning with paired-quote tracking and
//     abbreviation suppression, handling mixed Chinese/English/French text.
//   - newline: splitting on single newlines or on paragraph breaks (runs of
//     consecutive newlines).
//
// Both strategies uphold the round-trip invariant: concatenating the returned
// spans in order reproduces the input text exactly, and byte offsets satisfy
// text[s.Start:s.End] == s.Text. Splitters are safe for concurrent use.
package split

import (
	"fmt"

	"github.com/ragbench/chunkbench/internal/core/domain"
)

const (
	MethodSentence = "sentence"
	MethodNewline  = "newline"

	NewlineModeParagraph = "paragraph"
	NewlineModeLine      = "line"
)

// QuotePair is an (open, close) quotation mark pair. Open == Close marks an
// ambiguous pair (e.g. ASCII ") that alternates open/close per occurrence.
type QuotePair struct {
	Open  rune
	Close rune
}

// Config is the full splitter configuration surface.
type Config struct {
	Method string

	ChinesePunctuation string
	WesternPunctuation string
	QuotePairs         []QuotePair

	// Abbreviations maps a language tag to suppression patterns. Patterns
	// may contain escaped literal dots, e.g. `Ph\.D`. All lists are tested
	// for every candidate break; a match in any list suppresses it.
	Abbreviations map[string][]string

	NewlineMode             string
	ParagraphBreakThreshold int
}

// DefaultConfig covers mixed Chinese/English/French documents.
func DefaultConfig() Config {
	return Config{
		Method:             MethodSentence,
		ChinesePunctuation: "。！？；",
		WesternPunctuation: ".!?",
		QuotePairs: []QuotePair{
			{Open: '"', Close: '"'},
			{Open: '“', Close: '”'},
			{Open: '‘', Close: '’'},
			{Open: '「', Close: '」'},
			{Open: '『', Close: '』'},
			{Open: '«', Close: '»'},
		},
		Abbreviations: map[string][]string{
			"english": {
				`Mr`, `Mrs`, `Ms`, `Dr`, `Prof`, `Sr`, `Jr`, `St`,
				`vs`, `etc`, `e\.g`, `i\.e`, `Ph\.D`, `U\.S`, `No`, `Inc`,
			},
			"french": {
				`M`, `Mme`, `Mlle`, `Dr`, `St`, `etc`, `p\.ex`, `av\.J\.-C`,
			},
		},
		NewlineMode:             NewlineModeParagraph,
		ParagraphBreakThreshold: 2,
	}
}

// Splitter segments text into ordered sentence spans.
type Splitter interface {
	Split(text string) []domain.Sentence
}

// New validates cfg and builds the configured strategy. Configuration
// problems are fatal and name the offending field.
func New(cfg Config) (Splitter, error) {
	switch cfg.Method {
	case MethodSentence:
		guard, err := NewAbbreviationGuard(cfg.Abbreviations)
		if err != nil {
			return nil, err
		}
		terminals := cfg.ChinesePunctuation + cfg.WesternPunctuation
		if terminals == "" {
			return nil, domain.ConfigError("chinese_punctuation/western_punctuation", "no terminal punctuation configured")
		}
		return NewSentenceSplitter(terminals, cfg.QuotePairs, guard), nil
	case MethodNewline:
		return NewNewlineSplitter(cfg.NewlineMode, cfg.ParagraphBreakThreshold)
	default:
		return nil, domain.ConfigError("splitter_method", fmt.Sprintf("unknown method %q", cfg.Method))
	}
}
