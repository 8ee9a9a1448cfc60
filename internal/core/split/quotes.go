package split

// quoteMachine tracks quotation nesting state during one splitting pass.
// Unambiguous pairs (open != close) are kept on a stack so pairs of
// different types may nest; ambiguous pairs (open == close) alternate
// open/closed per occurrence, tracked per character independently.
//
// The machine never errors: a close with no matching open is ignored, and
// an unterminated quote simply leaves the machine open at end of text.
type quoteMachine struct {
	pairs     []QuotePair
	openStack []rune        // open runes of currently-open unambiguous pairs
	ambiguous map[rune]bool // ambiguous quote rune -> currently open
}

func newQuoteMachine(pairs []QuotePair) *quoteMachine {
	return &quoteMachine{
		pairs:     pairs,
		ambiguous: make(map[rune]bool, 2),
	}
}

// Process advances the machine by one rune.
func (m *quoteMachine) Process(r rune) {
	for _, p := range m.pairs {
		if p.Open == p.Close {
			if r == p.Open {
				m.ambiguous[r] = !m.ambiguous[r]
				return
			}
			continue
		}
		if r == p.Open {
			m.openStack = append(m.openStack, r)
			return
		}
		if r == p.Close {
			m.popOpen(p.Open)
			return
		}
	}
}

// popOpen removes the most recent matching open rune, wherever it sits in
// the stack. Mismatched nesting in malformed text must not wedge the machine.
func (m *quoteMachine) popOpen(open rune) {
	for i := len(m.openStack) - 1; i >= 0; i-- {
		if m.openStack[i] == open {
			m.openStack = append(m.openStack[:i], m.openStack[i+1:]...)
			return
		}
	}
}

// InsideQuote reports whether the scan position is inside any open
// quotation span.
func (m *quoteMachine) InsideQuote() bool {
	if len(m.openStack) > 0 {
		return true
	}
	for _, open := range m.ambiguous {
		if open {
			return true
		}
	}
	return false
}

// ClosesOpenQuote reports whether r would close a currently-open quote.
// Used for boundary extension over closing quotes after terminal punctuation.
func (m *quoteMachine) ClosesOpenQuote(r rune) bool {
	for _, p := range m.pairs {
		if p.Open == p.Close {
			if r == p.Open && m.ambiguous[r] {
				return true
			}
			continue
		}
		if r == p.Close {
			for _, open := range m.openStack {
				if open == p.Open {
					return true
				}
			}
		}
	}
	return false
}
