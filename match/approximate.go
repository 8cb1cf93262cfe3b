package match

import (
	"github.com/poiesic/phrasetrack/core"
)

// Window bounds the length of approximate hits relative to the tracker length.
type Window struct {
	// Low is subtracted from the tracker length to get the shortest accepted hit.
	Low int
	// High is added to the tracker length to get the longest accepted hit.
	High int
}

// Bounds returns the inclusive length range for a tracker of searchLen tokens.
// A tracker of at most one token accepts hits one token shorter than itself.
func (w Window) Bounds(searchLen int) (lo, hi int) {
	if searchLen <= 1 {
		lo = searchLen - 1
	} else {
		lo = searchLen - w.Low
	}
	return max(lo, 0), searchLen + w.High
}

// FindApproximate runs pattern over doc from every start token and returns
// the distinct non-empty hits whose length fits the window, ordered by start
// then end.
func FindApproximate(doc *core.Document, pattern Pattern, window Window) []core.Span {
	if pattern.IsEmpty() {
		return nil
	}
	lo, hi := window.Bounds(pattern.SearchLen)

	var out []core.Span
	for start := 0; start < doc.Len(); start++ {
		for _, end := range pattern.ends(doc.Tokens, start) {
			if n := end - start; n >= lo && n <= hi {
				out = append(out, doc.Span(start, end))
			}
		}
	}
	return out
}

// ends simulates the pattern as a non-deterministic automaton from start
// and returns every end position in increasing order at which it accepts.
// State i means the first i elements have been consumed.
func (p Pattern) ends(tokens []core.Token, start int) []int {
	final := len(p.Elements)
	initial := make([]bool, final+1)
	initial[0] = true
	states := p.closure(initial)

	var out []int
	for pos := start; pos < len(tokens); pos++ {
		next := make([]bool, final+1)
		alive := false
		for i, on := range states {
			if !on || i == final {
				continue
			}
			if p.Elements[i].matches(tokens[pos]) {
				next[i+1] = true
				alive = true
			}
		}
		if !alive {
			break
		}
		states = p.closure(next)
		if states[final] {
			out = append(out, pos+1)
		}
	}
	return out
}

// closure adds the states reachable by skipping optional lemma elements.
func (p Pattern) closure(states []bool) []bool {
	for i := 0; i < len(p.Elements); i++ {
		if states[i] && !p.Elements[i].Wildcard {
			states[i+1] = true
		}
	}
	return states
}
