package similarity

import "github.com/poiesic/phrasetrack/core"

// Scorer measures how similar two spans are.
// Implementations must be symmetric, deterministic and safe for concurrent use.
// Spans without any embeddable content score core.Undefined.
type Scorer interface {
	Similarity(a, b core.Span) core.Score
}

// ScorerFunc adapts a function to the Scorer interface.
type ScorerFunc func(a, b core.Span) core.Score

// Similarity calls f(a, b).
func (f ScorerFunc) Similarity(a, b core.Span) core.Score {
	return f(a, b)
}
