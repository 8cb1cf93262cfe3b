package refine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/phrasetrack/core"
	"github.com/poiesic/phrasetrack/nlp"
	"github.com/poiesic/phrasetrack/similarity"
)

var (
	tokenizer = nlp.NewTokenizer()
	undefined = math.NaN()
	testCfg   = Config{Stage1Threshold: 0.90, Stage2Threshold: 0.94, Steps: 5, MinSpanForNarrowing: 3}
)

// table scores candidate spans by their range; unknown ranges get def.
type table struct {
	scores map[[2]int]float64
	def    float64
}

func (tb table) Similarity(a, b core.Span) core.Score {
	if v, ok := tb.scores[[2]int{a.Start, a.End}]; ok {
		return core.ScoreOf(v)
	}
	return core.ScoreOf(tb.def)
}

func newOptimizer(scores map[[2]int]float64, def float64) *Optimizer {
	return NewOptimizer(table{scores: scores, def: def}, testCfg)
}

func phrase(value string) core.TrackerPhrase {
	return core.TrackerPhrase{Index: 0, Value: value, Doc: tokenizer.Tokenize(value)}
}

func rangeOf(s core.Span) [2]int {
	return [2]int{s.Start, s.End}
}

func TestRefine_Stage1Threshold(t *testing.T) {
	doc := tokenizer.Tokenize("a b c d e f g h i j")
	tr := phrase("c d")

	tests := []struct {
		name   string
		score  float64
		accept bool
	}{
		{"at threshold", 0.90, false},
		{"undefined", undefined, false},
		{"below", 0.5, false},
		{"above both", 0.95, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newOptimizer(map[[2]int]float64{{2, 4}: tt.score}, 0)
			got, ok := o.Refine(doc.Span(2, 4), tr)
			assert.Equal(t, tt.accept, ok)
			if ok {
				assert.Equal(t, [2]int{2, 4}, rangeOf(got.Span))
				assert.Equal(t, core.OriginApproximate, got.Origin)
				assert.Equal(t, tr.Value, got.Tracker.Value)
				assert.InDelta(t, tt.score, got.Score.Value, 1e-9)
			}
		})
	}
}

func TestRefine_Stage2Threshold(t *testing.T) {
	doc := tokenizer.Tokenize("a b c d e f g h i j")
	tr := phrase("b c d")

	t.Run("at threshold", func(t *testing.T) {
		o := newOptimizer(map[[2]int]float64{{2, 4}: 0.92, {1, 4}: 0.94}, 0)
		_, ok := o.Refine(doc.Span(2, 4), tr)
		assert.False(t, ok)
	})

	t.Run("above threshold after widening", func(t *testing.T) {
		o := newOptimizer(map[[2]int]float64{{2, 4}: 0.92, {1, 4}: 0.9401}, 0)
		got, ok := o.Refine(doc.Span(2, 4), tr)
		assert.True(t, ok)
		assert.Equal(t, [2]int{1, 4}, rangeOf(got.Span))
		assert.InDelta(t, 0.9401, got.Score.Value, 1e-9)
	})

	t.Run("stage 1 only", func(t *testing.T) {
		o := newOptimizer(map[[2]int]float64{{2, 4}: 0.92}, 0)
		_, ok := o.Refine(doc.Span(2, 4), tr)
		assert.False(t, ok)
	})
}

func TestWiden(t *testing.T) {
	doc := tokenizer.Tokenize("a b c d e f g h i j")
	target := phrase("x").Span()

	t.Run("baseline is the original score", func(t *testing.T) {
		o := newOptimizer(map[[2]int]float64{
			{4, 7}: 0.95,
			{3, 7}: 0.93,
			{2, 7}: 0.90,
			{3, 8}: 0.92,
		}, 0)
		got := o.Widen(doc.Span(5, 7), target, core.ScoreOf(0.91))
		assert.Equal(t, [2]int{3, 8}, rangeOf(got))
	})

	t.Run("stops at document bounds and step limit", func(t *testing.T) {
		o := newOptimizer(nil, 0.9)
		got := o.Widen(doc.Span(0, 2), target, core.ScoreOf(0.5))
		assert.Equal(t, [2]int{0, 7}, rangeOf(got))

		got = o.Widen(doc.Span(8, 10), target, core.ScoreOf(0.5))
		assert.Equal(t, [2]int{3, 10}, rangeOf(got))
	})

	t.Run("undefined keeps the span", func(t *testing.T) {
		o := newOptimizer(map[[2]int]float64{{4, 7}: 0.95, {3, 7}: undefined}, 0)
		got := o.Widen(doc.Span(5, 7), target, core.ScoreOf(0.91))
		assert.Equal(t, [2]int{5, 7}, rangeOf(got))
	})

	t.Run("equal score is no improvement", func(t *testing.T) {
		o := newOptimizer(nil, 0.91)
		got := o.Widen(doc.Span(5, 7), target, core.ScoreOf(0.91))
		assert.Equal(t, [2]int{5, 7}, rangeOf(got))
	})
}

func TestWiden_DoesNotAbsorbBoundaries(t *testing.T) {
	target := phrase("x").Span()
	o := newOptimizer(nil, 0.99)

	comma := tokenizer.Tokenize("a b , c d")
	got := o.Widen(comma.Span(3, 5), target, core.ScoreOf(0.91))
	assert.Equal(t, [2]int{3, 5}, rangeOf(got))

	period := tokenizer.Tokenize("a b. c d")
	got = o.Widen(period.Span(3, 5), target, core.ScoreOf(0.91))
	assert.Equal(t, [2]int{3, 5}, rangeOf(got))
}

func TestNarrow(t *testing.T) {
	doc := tokenizer.Tokenize("a b c d e f g h i j")
	split := tokenizer.Tokenize("a b c . d e f g")
	target := phrase("x").Span()

	t.Run("short spans are kept", func(t *testing.T) {
		o := newOptimizer(map[[2]int]float64{{0, 3}: 0.7, {1, 3}: 0.99}, 0)
		got, score := o.Narrow(doc.Span(0, 3), target)
		assert.Equal(t, [2]int{0, 3}, rangeOf(got))
		assert.InDelta(t, 0.7, score.Value, 1e-9)
	})

	t.Run("split keeps the better half", func(t *testing.T) {
		o := newOptimizer(map[[2]int]float64{{0, 8}: 0.5, {0, 4}: 0.4, {4, 8}: 0.8}, 0)
		got, score := o.Narrow(split.Span(0, 8), target)
		assert.Equal(t, [2]int{4, 8}, rangeOf(got))
		assert.InDelta(t, 0.8, score.Value, 1e-9)
	})

	t.Run("split keeps the terminator with its sentence", func(t *testing.T) {
		o := newOptimizer(map[[2]int]float64{{0, 8}: 0.5, {0, 4}: 0.8, {4, 8}: 0.4}, 0)
		got, _ := o.Narrow(split.Span(0, 8), target)
		assert.Equal(t, [2]int{0, 4}, rangeOf(got))
		assert.Equal(t, "a b c .", got.Text())
	})

	t.Run("start and end moves keep the last improvement", func(t *testing.T) {
		o := newOptimizer(map[[2]int]float64{
			{0, 8}: 0.5,
			{1, 8}: 0.6,
			{2, 8}: 0.4,
			{3, 8}: 0.7,
			{3, 7}: 0.9,
		}, 0)
		got, score := o.Narrow(doc.Span(0, 8), target)
		assert.Equal(t, [2]int{3, 7}, rangeOf(got))
		assert.InDelta(t, 0.9, score.Value, 1e-9)
	})

	t.Run("reverts when not strictly better", func(t *testing.T) {
		o := newOptimizer(map[[2]int]float64{{0, 8}: 0.5, {0, 4}: 0.3, {4, 8}: 0.4}, 0)
		got, score := o.Narrow(split.Span(0, 8), target)
		assert.Equal(t, [2]int{0, 8}, rangeOf(got))
		assert.InDelta(t, 0.5, score.Value, 1e-9)
	})

	t.Run("undefined aborts narrowing", func(t *testing.T) {
		o := newOptimizer(map[[2]int]float64{{0, 8}: 0.5, {1, 8}: 0.9, {2, 8}: undefined}, 0)
		got, score := o.Narrow(doc.Span(0, 8), target)
		assert.Equal(t, [2]int{0, 8}, rangeOf(got))
		assert.InDelta(t, 0.5, score.Value, 1e-9)
	})

	t.Run("undefined split aborts narrowing", func(t *testing.T) {
		o := newOptimizer(map[[2]int]float64{{0, 8}: 0.5, {4, 8}: undefined}, 0.99)
		got, _ := o.Narrow(split.Span(0, 8), target)
		assert.Equal(t, [2]int{0, 8}, rangeOf(got))
	})

	t.Run("never empties the span", func(t *testing.T) {
		o := newOptimizer(map[[2]int]float64{{0, 5}: 0.1}, 0.99)
		got, _ := o.Narrow(doc.Span(0, 5), target)
		assert.False(t, got.IsEmpty())
		assert.True(t, got.Start >= 0 && got.End <= doc.Len())
	})
}

func TestRefine_WithVectorSpaceScorer(t *testing.T) {
	doc := tokenizer.Tokenize("we love the lazy dog")
	tr := phrase("lazy dog")

	// identical word content scores 1
	scorer := similarity.ScorerFunc(func(a, b core.Span) core.Score {
		if a.Lower() == b.Lower() {
			return core.ScoreOf(1)
		}
		return core.ScoreOf(0.5)
	})
	o := NewOptimizer(scorer, testCfg)

	got, ok := o.Refine(doc.Span(3, 5), tr)
	assert.True(t, ok)
	assert.Equal(t, "lazy dog", got.Span.Text())

	_, ok = o.Refine(doc.Span(2, 4), tr)
	assert.False(t, ok)
}
