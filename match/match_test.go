package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/phrasetrack/core"
	"github.com/poiesic/phrasetrack/nlp"
)

const scenarioA = "The quick brown fox jumps over the lazy dog. The dog barks loudly."

var tokenizer = nlp.NewTokenizer()

func tracker(index int, value string) core.TrackerPhrase {
	return core.TrackerPhrase{Index: index, Value: value, Doc: tokenizer.Tokenize(value)}
}

func spans(in []core.Span) [][2]int {
	out := make([][2]int, len(in))
	for i, s := range in {
		out[i] = [2]int{s.Start, s.End}
	}
	return out
}

func TestNewPattern(t *testing.T) {
	tests := []struct {
		phrase    string
		pattern   string
		searchLen int
	}{
		{"lazy dog", "lazy? * dog?", 2},
		{"hello, world!", "hello? * world?", 4},
		{"dogs", "dog?", 1},
		{"how are you", "how? * be? * you?", 3},
		{"?!", "", 2},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			p := NewPattern(tracker(0, tt.phrase).Span())
			assert.Equal(t, tt.pattern, p.String())
			assert.Equal(t, tt.searchLen, p.SearchLen)
		})
	}
}

func TestWindowBounds(t *testing.T) {
	w := Window{Low: 0, High: 2}
	tests := []struct {
		searchLen int
		lo, hi    int
	}{
		{0, 0, 2},
		{1, 0, 3},
		{2, 2, 4},
		{5, 5, 7},
	}
	for _, tt := range tests {
		lo, hi := w.Bounds(tt.searchLen)
		assert.Equal(t, tt.lo, lo, "searchLen %d", tt.searchLen)
		assert.Equal(t, tt.hi, hi, "searchLen %d", tt.searchLen)
	}

	lo, hi := Window{Low: 1, High: 1}.Bounds(4)
	assert.Equal(t, 3, lo)
	assert.Equal(t, 5, hi)
}

func TestFindApproximate_ScenarioA(t *testing.T) {
	doc := tokenizer.Tokenize(scenarioA)
	p := NewPattern(tracker(0, "lazy dog").Span())

	hits := FindApproximate(doc, p, Window{High: 2})
	assert.Equal(t, [][2]int{{7, 9}, {10, 12}}, spans(hits))
}

func TestFindApproximate_MatchesLemmas(t *testing.T) {
	doc := tokenizer.Tokenize("the dogs barked")
	p := NewPattern(tracker(0, "dog bark").Span())

	hits := FindApproximate(doc, p, Window{High: 2})
	assert.Equal(t, [][2]int{{1, 3}}, spans(hits))
}

func TestFindApproximate_ToleratesNoise(t *testing.T) {
	// one inserted word and one dropped word
	doc := tokenizer.Tokenize("I ordered a large pepperoni pizza today")
	p := NewPattern(tracker(0, "ordered a pepperoni pizza").Span())

	hits := FindApproximate(doc, p, Window{High: 2})
	require.NotEmpty(t, hits)

	found := false
	for _, h := range hits {
		assert.GreaterOrEqual(t, h.Len(), 4)
		assert.LessOrEqual(t, h.Len(), 6)
		if h.Start == 1 && h.End == 6 {
			found = true
		}
	}
	assert.True(t, found, "expected 'ordered a large pepperoni pizza' in %v", spans(hits))
}

func TestFindApproximate_SortedAndDistinct(t *testing.T) {
	doc := tokenizer.Tokenize("dog dog dog dog dog")
	p := NewPattern(tracker(0, "dog").Span())

	hits := FindApproximate(doc, p, Window{High: 2})
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}}, spans(hits))
}

func TestFindApproximate_EmptyInputs(t *testing.T) {
	doc := tokenizer.Tokenize(scenarioA)
	assert.Empty(t, FindApproximate(doc, NewPattern(tracker(0, "...").Span()), Window{High: 2}))
	assert.Empty(t, FindApproximate(tokenizer.Tokenize(""), NewPattern(tracker(0, "dog").Span()), Window{High: 2}))
}

func TestFindExact(t *testing.T) {
	doc := tokenizer.Tokenize("Hello world. hello WORLD again, hello")
	trackers := []core.TrackerPhrase{
		tracker(0, "hello world"),
		tracker(1, "hello"),
		tracker(2, "missing phrase"),
		tracker(3, ""),
	}

	got := FindExact(doc, trackers)
	require.Len(t, got, 5)

	type hit struct {
		start, end, tracker int
	}
	var hits []hit
	for _, c := range got {
		assert.Equal(t, core.OriginExact, c.Origin)
		assert.Equal(t, core.ScoreOf(1), c.Score)
		hits = append(hits, hit{c.Span.Start, c.Span.End, c.Tracker.Index})
	}
	assert.Equal(t, []hit{
		{0, 1, 1},
		{0, 2, 0},
		{3, 4, 1},
		{3, 5, 0},
		{7, 8, 1},
	}, hits)
}

func TestFindExact_ScenarioA(t *testing.T) {
	doc := tokenizer.Tokenize(scenarioA)
	got := FindExact(doc, []core.TrackerPhrase{tracker(0, "lazy dog")})

	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].Span.Start)
	assert.Equal(t, 9, got[0].Span.End)
	assert.Equal(t, "lazy dog", got[0].Span.Text())
}
