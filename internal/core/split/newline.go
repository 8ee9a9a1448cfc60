package split

import (
	"fmt"

	"github.com/ragbench/chunkbench/internal/core/domain"
)

// NewlineSplitter segments on newline characters: one span per line in
// "line" mode, or per paragraph (runs of minRun or more consecutive
// newlines) in "paragraph" mode. The break run stays attached to the span
// it terminates, preserving the round-trip invariant.
type NewlineSplitter struct {
	minRun int
}

func NewNewlineSplitter(mode string, paragraphThreshold int) (*NewlineSplitter, error) {
	switch mode {
	case NewlineModeLine:
		return &NewlineSplitter{minRun: 1}, nil
	case NewlineModeParagraph:
		if paragraphThreshold < 2 {
			paragraphThreshold = 2
		}
		return &NewlineSplitter{minRun: paragraphThreshold}, nil
	default:
		return nil, domain.ConfigError("newline_split_mode", fmt.Sprintf("unknown mode %q", mode))
	}
}

func (s *NewlineSplitter) Split(text string) []domain.Sentence {
	if text == "" {
		return nil
	}

	sentences := make([]domain.Sentence, 0, len(text)/64+1)
	sentStart := 0

	i := 0
	for i < len(text) {
		if text[i] != '\n' {
			i++
			continue
		}
		run := i
		for run < len(text) && text[run] == '\n' {
			run++
		}
		if run-i >= s.minRun {
			sentences = append(sentences, newSentence(text, sentStart, run))
			sentStart = run
		}
		i = run
	}

	if sentStart < len(text) {
		sentences = append(sentences, newSentence(text, sentStart, len(text)))
	}
	return sentences
}
