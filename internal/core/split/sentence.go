package split

import (
	"unicode"
	"unicode/utf8"

	"github.com/ragbench/chunkbench/internal/core/domain"
)

// SentenceSplitter segments text on terminal punctuation, tracking paired
// quotation marks and suppressing breaks after known abbreviations. Both the
// Chinese and Western punctuation sets stay active regardless of detected
// language, since documents may mix languages.
type SentenceSplitter struct {
	terminals map[rune]bool
	pairs     []QuotePair
	guard     *AbbreviationGuard
}

func NewSentenceSplitter(terminals string, pairs []QuotePair, guard *AbbreviationGuard) *SentenceSplitter {
	set := make(map[rune]bool, len(terminals))
	for _, r := range terminals {
		set[r] = true
	}
	return &SentenceSplitter{terminals: set, pairs: pairs, guard: guard}
}

// Split segments text into ordered sentence spans. Concatenating the spans
// in order reproduces text exactly. Non-empty input always yields at least
// one span: end of text is a forced boundary regardless of quote state.
func (s *SentenceSplitter) Split(text string) []domain.Sentence {
	if text == "" {
		return nil
	}

	machine := newQuoteMachine(s.pairs)
	sentences := make([]domain.Sentence, 0, len(text)/40+1)
	sentStart := 0

	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !s.terminals[r] {
			machine.Process(r)
			i += size
			continue
		}

		// Consume the whole terminal punctuation cluster ("?!", "...").
		j := i + size
		for j < len(text) {
			nr, ns := utf8.DecodeRuneInString(text[j:])
			if !s.terminals[nr] {
				break
			}
			j += ns
		}

		// Abbreviation suppression is checked before quote extension when
		// both could apply at one candidate boundary.
		if s.guard.SuppressBreak(text, j) {
			i = j
			continue
		}

		// Extend the boundary over closing quotes so the quote character
		// stays attached to the sentence it terminates.
		for j < len(text) {
			nr, ns := utf8.DecodeRuneInString(text[j:])
			if !machine.ClosesOpenQuote(nr) {
				break
			}
			machine.Process(nr)
			j += ns
		}

		if machine.InsideQuote() {
			// Terminator nested inside a still-open quotation span.
			i = j
			continue
		}

		sentences = append(sentences, newSentence(text, sentStart, j))
		sentStart = j
		i = j
	}

	if sentStart < len(text) {
		sentences = append(sentences, newSentence(text, sentStart, len(text)))
	}
	return sentences
}

func newSentence(text string, start, end int) domain.Sentence {
	return domain.Sentence{
		Span: domain.Span{
			Start: start,
			End:   end,
			Text:  text[start:end],
		},
		LanguageHint: detectLanguage(text[start:end]),
	}
}

// detectLanguage returns a coarse script hint for one span: "zh" when CJK
// runes dominate, "latin" when Latin letters dominate, empty otherwise.
func detectLanguage(text string) string {
	var cjk, latin int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			cjk++
		case r < utf8.RuneSelf && unicode.IsLetter(r):
			latin++
		}
	}
	switch {
	case cjk == 0 && latin == 0:
		return ""
	case cjk >= latin:
		return domain.LangChinese
	default:
		return domain.LangLatin
	}
}
