package analysis

import (
	"github.com/poiesic/phrasetrack/core"
)

// Monitor provides hooks to observe an analysis.
// Hooks are called from the goroutine that called Analyze, in pipeline order.
type Monitor interface {
	Start(text string, trackers []core.TrackerPhrase)
	AfterTokenize(doc *core.Document)
	AfterExactMatches(matches []core.MatchCandidate)
	AfterApproximateMatches(tracker core.TrackerPhrase, hits int, accepted []core.MatchCandidate)
	AfterOverlapResolution(survivors []core.MatchCandidate)
	Finish(records []core.MatchRecord)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ []core.TrackerPhrase)                                       {}
func (n *noopMonitor) AfterTokenize(_ *core.Document)                                               {}
func (n *noopMonitor) AfterExactMatches(_ []core.MatchCandidate)                                    {}
func (n *noopMonitor) AfterApproximateMatches(_ core.TrackerPhrase, _ int, _ []core.MatchCandidate) {}
func (n *noopMonitor) AfterOverlapResolution(_ []core.MatchCandidate)                               {}
func (n *noopMonitor) Finish(_ []core.MatchRecord)                                                  {}
