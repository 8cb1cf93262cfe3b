// Package overlap resolves conflicts between match candidates so that the
// final result never reports two approximate matches for the same words and
// never reports an approximate match over an exact one.
package overlap

import (
	"sort"

	"github.com/poiesic/phrasetrack/core"
)

// AgainstExact returns the approximate candidates that share no token with
// any exact match. Exact matches always win.
func AgainstExact(approx, exact []core.MatchCandidate) []core.MatchCandidate {
	out := make([]core.MatchCandidate, 0, len(approx))
	for _, a := range approx {
		if !overlapsAny(a.Span, exact) {
			out = append(out, a)
		}
	}
	return out
}

func overlapsAny(span core.Span, exact []core.MatchCandidate) bool {
	for _, e := range exact {
		if span.Overlaps(e.Span) {
			return true
		}
	}
	return false
}

// WithinSet picks a conflict free subset of approximate candidates. Two
// candidates conflict when their spans overlap or are adjacent. Candidates
// are considered by descending score, then leftmost start, then shorter
// span, then tracker index; each one is kept iff it conflicts with none of
// the candidates kept so far. The result is in that same order.
func WithinSet(approx []core.MatchCandidate) []core.MatchCandidate {
	ordered := make([]core.MatchCandidate, len(approx))
	copy(ordered, approx)
	sort.SliceStable(ordered, func(i, j int) bool {
		return before(ordered[i], ordered[j])
	})

	kept := make([]core.MatchCandidate, 0, len(ordered))
	for _, c := range ordered {
		if !touchesAny(c.Span, kept) {
			kept = append(kept, c)
		}
	}
	return kept
}

// before is the total order used by WithinSet.
func before(a, b core.MatchCandidate) bool {
	if a.Score.Value != b.Score.Value {
		return a.Score.Value > b.Score.Value
	}
	if a.Span.Start != b.Span.Start {
		return a.Span.Start < b.Span.Start
	}
	if a.Span.Len() != b.Span.Len() {
		return a.Span.Len() < b.Span.Len()
	}
	return a.Tracker.Index < b.Tracker.Index
}

func touchesAny(span core.Span, kept []core.MatchCandidate) bool {
	for _, k := range kept {
		if span.Touches(k.Span) {
			return true
		}
	}
	return false
}

// Resolve returns the exact matches followed by the approximate candidates
// that survive both resolution passes.
func Resolve(exact, approx []core.MatchCandidate) []core.MatchCandidate {
	survivors := WithinSet(AgainstExact(approx, exact))
	out := make([]core.MatchCandidate, 0, len(exact)+len(survivors))
	out = append(out, exact...)
	return append(out, survivors...)
}
