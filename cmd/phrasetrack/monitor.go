package main

import (
	"fmt"
	"io"

	"github.com/poiesic/phrasetrack/analysis"
	"github.com/poiesic/phrasetrack/core"
)

// textMonitor describes each analysis stage in plain text.
type textMonitor struct {
	w io.Writer
}

var _ analysis.Monitor = (*textMonitor)(nil)

func newTextMonitor(w io.Writer) *textMonitor {
	return &textMonitor{w: w}
}

func (m *textMonitor) Start(text string, trackers []core.TrackerPhrase) {
	fmt.Fprintf(m.w, "analyzing %d bytes for %d trackers\n", len(text), len(trackers))
}

func (m *textMonitor) AfterTokenize(doc *core.Document) {
	fmt.Fprintf(m.w, "tokens: %d, sentences: %d\n", doc.Len(), len(doc.Sentences))
}

func (m *textMonitor) AfterExactMatches(matches []core.MatchCandidate) {
	fmt.Fprintf(m.w, "exact matches: %d\n", len(matches))
	for _, c := range matches {
		fmt.Fprintf(m.w, "  [%d,%d) %q\n", c.Span.Start, c.Span.End, c.Span.Text())
	}
}

func (m *textMonitor) AfterApproximateMatches(tracker core.TrackerPhrase, hits int, accepted []core.MatchCandidate) {
	fmt.Fprintf(m.w, "tracker %q: %d pattern hits, %d accepted\n", tracker.Value, hits, len(accepted))
	for _, c := range accepted {
		fmt.Fprintf(m.w, "  [%d,%d) %q score %s\n", c.Span.Start, c.Span.End, c.Span.Text(), c.Score)
	}
}

func (m *textMonitor) AfterOverlapResolution(survivors []core.MatchCandidate) {
	fmt.Fprintf(m.w, "after overlap resolution: %d\n", len(survivors))
}

func (m *textMonitor) Finish(records []core.MatchRecord) {
	fmt.Fprintf(m.w, "records: %d\n", len(records))
}
