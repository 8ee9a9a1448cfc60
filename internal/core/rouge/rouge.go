// Package rouge computes the Rouge-L F-measure over mixed CJK/Latin text.
// It is the fuzzy-match substitute for exact chunk-identity in retrieval
// evaluation and the quality gate for QA self-verification.
package rouge

import "unicode"

// Tokenize treats each CJK character as one token and each run of Latin
// letters or digits as one token; everything else is dropped. Stemming is
// deliberately disabled.
func Tokenize(s string) []string {
	tokens := make([]string, 0, len(s)/4+1)
	var runStart = -1
	var runIsDigit bool

	flush := func(end int) {
		if runStart >= 0 {
			tokens = append(tokens, s[runStart:end])
			runStart = -1
		}
	}

	for i, r := range s {
		switch {
		case isCJK(r):
			flush(i)
			tokens = append(tokens, string(r))
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
			if runStart < 0 || runIsDigit {
				flush(i)
				runStart = i
				runIsDigit = false
			}
		case r >= '0' && r <= '9':
			if runStart < 0 || !runIsDigit {
				flush(i)
				runStart = i
				runIsDigit = true
			}
		default:
			flush(i)
		}
	}
	flush(len(s))
	return tokens
}

// Score returns the Rouge-L F-measure (longest common subsequence based,
// beta=1) between candidate and reference. 0 when either side has no tokens.
func Score(candidate, reference string) float64 {
	cand := Tokenize(candidate)
	ref := Tokenize(reference)
	if len(cand) == 0 || len(ref) == 0 {
		return 0
	}

	lcs := lcsLength(cand, ref)
	if lcs == 0 {
		return 0
	}

	precision := float64(lcs) / float64(len(cand))
	recall := float64(lcs) / float64(len(ref))
	return 2 * precision * recall / (precision + recall)
}

// lcsLength computes LCS length with a rolling one-row table.
func lcsLength(a, b []string) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := 1; i <= len(b); i++ {
		for j := 1; j <= len(a); j++ {
			if b[i-1] == a[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}
