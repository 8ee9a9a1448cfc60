// Package tokencount estimates subword token counts for mixed-script text
// without loading a model vocabulary. CJK characters count one token each;
// Latin and digit runs approximate four characters per token. The estimate
// is deterministic, which is what chunk budgeting needs.
package tokencount

import "unicode"

type Counter struct{}

func New() *Counter {
	return &Counter{}
}

func (c *Counter) CountTokens(text string) int {
	tokens := 0
	runLen := 0

	flush := func() {
		if runLen == 0 {
			return
		}
		tokens += (runLen + 3) / 4
		runLen = 0
	}

	for _, r := range text {
		switch {
		case isCJK(r):
			flush()
			tokens++
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			runLen++
		case unicode.IsSpace(r):
			flush()
		default:
			// Punctuation and symbols count one token apiece.
			flush()
			tokens++
		}
	}
	flush()
	return tokens
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}
