package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "test content",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "This is a much longer piece of content that should still hash consistently",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func testDocument() *Document {
	// "Hi there. Bye now."
	return &Document{
		Text: "Hi there. Bye now.",
		Tokens: []Token{
			{Index: 0, Text: "Hi", Lower: "hi", Offset: 0},
			{Index: 1, Text: "there", Lower: "there", Offset: 3},
			{Index: 2, Text: ".", Lower: ".", Offset: 8, IsPunct: true, IsSentenceEnd: true},
			{Index: 3, Text: "Bye", Lower: "bye", Offset: 10, SentenceId: 1},
			{Index: 4, Text: "now", Lower: "now", Offset: 14, SentenceId: 1},
			{Index: 5, Text: ".", Lower: ".", Offset: 17, IsPunct: true, IsSentenceEnd: true, SentenceId: 1},
		},
		Sentences: []Sentence{
			{Id: 0, Start: 0, End: 3},
			{Id: 1, Start: 3, End: 6},
		},
	}
}

func TestSpan_Text(t *testing.T) {
	doc := testDocument()

	tests := []struct {
		name  string
		span  Span
		text  string
		lower string
	}{
		{"single token", doc.Span(0, 1), "Hi", "hi"},
		{"keeps original spacing", doc.Span(1, 4), "there. Bye", "there . bye"},
		{"whole document", doc.All(), "Hi there. Bye now.", "hi there . bye now ."},
		{"empty span", doc.Span(2, 2), "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Text(); got != tt.text {
				t.Errorf("Text() = %q, want %q", got, tt.text)
			}
			if got := tt.span.Lower(); got != tt.lower {
				t.Errorf("Lower() = %q, want %q", got, tt.lower)
			}
		})
	}
}

func TestDocument_SpanClamps(t *testing.T) {
	doc := testDocument()

	sp := doc.Span(-3, 99)
	if sp.Start != 0 || sp.End != 6 {
		t.Errorf("Span(-3, 99) = [%d,%d), want [0,6)", sp.Start, sp.End)
	}

	sp = doc.Span(4, 2)
	if !sp.IsEmpty() {
		t.Errorf("Span(4, 2) should be empty, got [%d,%d)", sp.Start, sp.End)
	}
}

func TestSpan_Relations(t *testing.T) {
	doc := testDocument()
	a := doc.Span(0, 2)

	tests := []struct {
		name     string
		other    Span
		overlaps bool
		touches  bool
		contains bool
	}{
		{"identical", doc.Span(0, 2), true, true, true},
		{"inside", doc.Span(1, 2), true, true, true},
		{"partial right", doc.Span(1, 3), true, true, false},
		{"adjacent", doc.Span(2, 4), false, true, false},
		{"disjoint", doc.Span(3, 5), false, false, false},
		{"covering", doc.Span(0, 5), true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.other); got != tt.overlaps {
				t.Errorf("Overlaps() = %v, want %v", got, tt.overlaps)
			}
			if got := tt.other.Overlaps(a); got != tt.overlaps {
				t.Errorf("Overlaps() is not symmetric")
			}
			if got := a.Touches(tt.other); got != tt.touches {
				t.Errorf("Touches() = %v, want %v", got, tt.touches)
			}
			if got := a.Contains(tt.other); got != tt.contains {
				t.Errorf("Contains() = %v, want %v", got, tt.contains)
			}
		})
	}
}

func TestDocument_SentenceOf(t *testing.T) {
	doc := testDocument()

	s, ok := doc.SentenceOf(doc.Span(3, 5))
	if !ok || s.Id != 1 {
		t.Errorf("SentenceOf([3,5)) = %v, %v; want sentence 1", s, ok)
	}

	if _, ok := doc.SentenceOf(doc.Span(1, 4)); ok {
		t.Errorf("SentenceOf() should fail for a span crossing sentences")
	}
}

func TestScore(t *testing.T) {
	if Undefined.Exceeds(0) {
		t.Errorf("undefined score must not exceed any threshold")
	}
	if ScoreOf(0.95).Improves(Undefined) || Undefined.Improves(ScoreOf(0.1)) {
		t.Errorf("comparisons with undefined scores must be false")
	}
	if !ScoreOf(0.95).Exceeds(0.94) || ScoreOf(0.94).Exceeds(0.94) {
		t.Errorf("Exceeds must be strict")
	}
	if got := ScoreOf(1.3).Value; got != 1 {
		t.Errorf("ScoreOf(1.3) = %v, want clamp to 1", got)
	}
	if got := ScoreOf(-0.2).Value; got != 0 {
		t.Errorf("ScoreOf(-0.2) = %v, want clamp to 0", got)
	}
	if ScoreOf(nan()).Defined {
		t.Errorf("ScoreOf(NaN) should be undefined")
	}
}

func nan() float64 {
	zero := 0.0
	return zero / zero
}
