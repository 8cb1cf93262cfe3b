package match

import (
	"sort"

	"github.com/poiesic/phrasetrack/core"
)

// FindExact returns every verbatim occurrence of each tracker in doc.
// Tokens are compared case folded. Results are ordered by start, end and
// tracker index; all of them score 1.
func FindExact(doc *core.Document, trackers []core.TrackerPhrase) []core.MatchCandidate {
	var out []core.MatchCandidate
	for _, tr := range trackers {
		needle := tr.Span().Tokens()
		if len(needle) == 0 {
			continue
		}
		for start := 0; start+len(needle) <= doc.Len(); start++ {
			if !equalFold(doc.Tokens[start:start+len(needle)], needle) {
				continue
			}
			out = append(out, core.MatchCandidate{
				Span:    doc.Span(start, start+len(needle)),
				Tracker: tr,
				Score:   core.ScoreOf(1),
				Origin:  core.OriginExact,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		if a.Span.End != b.Span.End {
			return a.Span.End < b.Span.End
		}
		return a.Tracker.Index < b.Tracker.Index
	})
	return out
}

func equalFold(a, b []core.Token) bool {
	for i := range a {
		if a[i].Lower != b[i].Lower {
			return false
		}
	}
	return true
}
