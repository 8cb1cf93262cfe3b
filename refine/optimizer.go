// Package refine filters approximate match candidates by similarity and
// optimizes their boundaries with a bounded local search.
package refine

import (
	"github.com/poiesic/phrasetrack/core"
	"github.com/poiesic/phrasetrack/similarity"
)

// Config holds the thresholds and search bounds of an Optimizer.
type Config struct {
	// Stage1Threshold is the score a raw candidate must exceed to be refined.
	Stage1Threshold float64
	// Stage2Threshold is the score a refined candidate must exceed to be accepted.
	Stage2Threshold float64
	// Steps bounds every widening and narrowing direction.
	Steps int
	// MinSpanForNarrowing disables narrowing for spans of at most this many tokens.
	MinSpanForNarrowing int
}

// Optimizer refines candidate spans against a tracker phrase.
// It is stateless and safe for concurrent use when its Scorer is.
type Optimizer struct {
	scorer similarity.Scorer
	cfg    Config
}

// NewOptimizer creates an optimizer scoring spans with scorer.
func NewOptimizer(scorer similarity.Scorer, cfg Config) *Optimizer {
	return &Optimizer{scorer: scorer, cfg: cfg}
}

// Refine runs both filter stages on a raw approximate hit. It returns the
// refined candidate and true when the candidate is accepted.
func (o *Optimizer) Refine(span core.Span, tracker core.TrackerPhrase) (core.MatchCandidate, bool) {
	target := tracker.Span()

	initial := o.scorer.Similarity(span, target)
	if !initial.Exceeds(o.cfg.Stage1Threshold) {
		return core.MatchCandidate{}, false
	}

	widened := o.Widen(span, target, initial)
	narrowed, score := o.Narrow(widened, target)
	if !score.Exceeds(o.cfg.Stage2Threshold) {
		return core.MatchCandidate{}, false
	}

	return core.MatchCandidate{
		Span:    narrowed,
		Tracker: tracker,
		Score:   score,
		Origin:  core.OriginApproximate,
	}, true
}

// Widen extends the start leftwards, then the end rightwards, one token at a
// time and at most Steps times each, while the extended span scores strictly
// better than baseline. Sentence ends and commas are never absorbed on the
// left. An undefined score abandons widening and returns span unchanged.
func (o *Optimizer) Widen(span, target core.Span, baseline core.Score) core.Span {
	doc := span.Doc
	start, end := span.Start, span.End

	for i := 0; i < o.cfg.Steps && start > 0; i++ {
		if isBoundary(doc.Tokens[start-1]) {
			break
		}
		score := o.scorer.Similarity(doc.Span(start-1, end), target)
		if !score.Defined {
			return span
		}
		if !score.Improves(baseline) {
			break
		}
		start--
	}

	for i := 0; i < o.cfg.Steps && end < doc.Len(); i++ {
		score := o.scorer.Similarity(doc.Span(start, end+1), target)
		if !score.Defined {
			return span
		}
		if !score.Improves(baseline) {
			break
		}
		end++
	}

	return doc.Span(start, end)
}

// Narrow shrinks spans longer than MinSpanForNarrowing tokens. It first
// splits at sentence ends inside the span keeping the better half, then
// tries advancing the start and retreating the end by up to Steps tokens,
// keeping the last move that beats the score the span had on entry. The
// narrowed span is returned only when it scores strictly better than the
// entry span; an undefined score anywhere returns the entry span.
func (o *Optimizer) Narrow(span, target core.Span) (core.Span, core.Score) {
	original := o.scorer.Similarity(span, target)
	if span.Len() <= o.cfg.MinSpanForNarrowing || !original.Defined {
		return span, original
	}

	doc := span.Doc
	start, end := span.Start, span.End

	// split at sentence ends; the terminator stays with its sentence
	for i := span.Start + 1; i < span.End; i++ {
		if i <= start || i+1 >= end || !doc.Tokens[i].IsSentenceEnd {
			continue
		}
		left := o.scorer.Similarity(doc.Span(start, i+1), target)
		right := o.scorer.Similarity(doc.Span(i+1, end), target)
		if !left.Defined || !right.Defined {
			return span, original
		}
		if left.Value > right.Value {
			end = i + 1
		} else {
			start = i + 1
		}
	}

	from := start
	for k := 1; k <= o.cfg.Steps && from+k < end; k++ {
		score := o.scorer.Similarity(doc.Span(from+k, end), target)
		if !score.Defined {
			return span, original
		}
		if score.Improves(original) {
			start = from + k
		}
	}

	to := end
	for k := 1; k <= o.cfg.Steps && to-k > start; k++ {
		score := o.scorer.Similarity(doc.Span(start, to-k), target)
		if !score.Defined {
			return span, original
		}
		if score.Improves(original) {
			end = to - k
		}
	}

	narrowed := doc.Span(start, end)
	score := o.scorer.Similarity(narrowed, target)
	if !score.Improves(original) {
		return span, original
	}
	return narrowed, score
}

// isBoundary reports tokens a widened span must not start after.
func isBoundary(tok core.Token) bool {
	return tok.IsSentenceEnd || tok.Text == ","
}
