package split

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ragbench/chunkbench/internal/core/domain"
)

// AbbreviationGuard suppresses sentence breaks that follow a known
// abbreviation, e.g. "Dr." or "Ph.D.". Patterns are matched against the
// token between the nearest preceding whitespace and the candidate break,
// trailing dot included. Lists from every configured language are tested;
// a match in any list suppresses the break.
type AbbreviationGuard struct {
	patterns []*regexp.Regexp
	// literals are the unescaped pattern texts with a trailing dot, used
	// for greedy prefix matching so the interior dots of multi-part
	// abbreviations ("Ph.D.", "e.g.") do not fire early breaks.
	literals []string
}

// NewAbbreviationGuard compiles per-language pattern lists. A pattern that
// fails to compile is a configuration error naming the offending list.
func NewAbbreviationGuard(lists map[string][]string) (*AbbreviationGuard, error) {
	// Deterministic compile order: language tags sorted, patterns in
	// configured order within each list.
	langs := make([]string, 0, len(lists))
	for lang := range lists {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	guard := &AbbreviationGuard{}
	for _, lang := range langs {
		for _, pat := range lists[lang] {
			re, err := regexp.Compile(`^(?:` + pat + `)\.$`)
			if err != nil {
				return nil, domain.ConfigError(lang+"_abbreviations", fmt.Sprintf("bad pattern %q: %v", pat, err))
			}
			guard.patterns = append(guard.patterns, re)
			guard.literals = append(guard.literals, strings.ReplaceAll(pat, `\.`, ".")+".")
		}
	}
	return guard, nil
}

// SuppressBreak reports whether the candidate break at byte position
// breakPos (immediately after a terminal punctuation mark) follows a known
// abbreviation and should be suppressed.
func (g *AbbreviationGuard) SuppressBreak(text string, breakPos int) bool {
	if g == nil || len(g.patterns) == 0 {
		return false
	}
	token := tokenBefore(text, breakPos)
	if token == "" || !strings.HasSuffix(token, ".") {
		return false
	}
	for _, re := range g.patterns {
		if re.MatchString(token) {
			return true
		}
	}
	// Greedy forward matching: "Ph." is not an abbreviation by itself but
	// is a prefix of "Ph.D.", so the break after it must wait.
	for _, lit := range g.literals {
		if len(token) < len(lit) && strings.HasPrefix(lit, token) {
			return true
		}
	}
	return false
}

// tokenBefore returns the text between the nearest whitespace (or start of
// text) before pos and pos itself.
func tokenBefore(text string, pos int) string {
	if pos > len(text) {
		pos = len(text)
	}
	i := pos
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:i])
		if unicode.IsSpace(r) {
			break
		}
		i -= size
	}
	return text[i:pos]
}
