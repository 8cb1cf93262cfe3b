package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Token is a single word or punctuation mark of a Document.
type Token struct {
	// Index is the position of the token in the document, starting at 0.
	Index int `json:"index"`

	// The unmodified text
	Text string `json:"text"`

	// Lower is the case folded text, used for verbatim comparisons.
	Lower string `json:"lower"`

	// The lemma of the word
	Lemma string `json:"lemma"`

	IsPunct       bool `json:"is_punct"`
	IsSentenceEnd bool `json:"is_sentence_end"`

	// Offset is the byte offset of the token in Document.Text.
	Offset int `json:"offset"`

	SentenceId int `json:"sent"`
}

// End returns the byte offset just past the token in Document.Text.
func (t Token) End() int {
	return t.Offset + len(t.Text)
}

// Sentence is a contiguous token range [Start, End) of a Document.
type Sentence struct {
	Id    int `json:"id"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of tokens in the sentence.
func (s Sentence) Len() int {
	return s.End - s.Start
}

// Document is a tokenized text. It is immutable once built by a tokenizer.
type Document struct {
	Text      string
	Tokens    []Token
	Sentences []Sentence
}

// Len returns the number of tokens in the document.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Tokens)
}

// All returns a span covering the whole document.
func (d *Document) All() Span {
	return Span{Doc: d, Start: 0, End: d.Len()}
}

// Span returns the span [start, end) of the document, clamped to the document bounds.
func (d *Document) Span(start, end int) Span {
	n := d.Len()
	start = min(max(start, 0), n)
	end = min(max(end, start), n)
	return Span{Doc: d, Start: start, End: end}
}

// SentenceOf returns the first sentence that fully contains the span.
func (d *Document) SentenceOf(sp Span) (Sentence, bool) {
	for _, s := range d.Sentences {
		if sp.Within(s) {
			return s, true
		}
	}
	return Sentence{}, false
}

// Span is a token range [Start, End) of a Document.
// Spans are values: refinement always produces a new Span.
type Span struct {
	Doc   *Document
	Start int
	End   int
}

// Len returns the number of tokens covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty reports whether the span covers no tokens.
func (s Span) IsEmpty() bool {
	return s.End <= s.Start
}

// Tokens returns the tokens covered by the span.
func (s Span) Tokens() []Token {
	if s.Doc == nil || s.IsEmpty() {
		return nil
	}
	return s.Doc.Tokens[s.Start:s.End]
}

// Text returns the source text covered by the span, with its original spacing.
func (s Span) Text() string {
	tokens := s.Tokens()
	if len(tokens) == 0 {
		return ""
	}
	return s.Doc.Text[tokens[0].Offset:tokens[len(tokens)-1].End()]
}

// Lower returns the case folded tokens of the span joined by single spaces.
func (s Span) Lower() string {
	tokens := s.Tokens()
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = t.Lower
	}
	return strings.Join(words, " ")
}

// Overlaps reports whether both spans share at least one token.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Touches reports whether the spans overlap or are adjacent (share a boundary).
func (s Span) Touches(o Span) bool {
	return s.Start <= o.End && o.Start <= s.End
}

// Contains reports whether o lies fully inside s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Within reports whether the span lies fully inside the sentence.
func (s Span) Within(sent Sentence) bool {
	return sent.Start <= s.Start && s.End <= sent.End
}

// Equal reports whether both spans cover the same range.
func (s Span) Equal(o Span) bool {
	return s.Start == o.Start && s.End == o.End
}

// TrackerPhrase is a caller supplied phrase, normalized to lower case.
type TrackerPhrase struct {
	// Index is the position of the phrase in the caller's list.
	Index int
	Value string

	// Doc is the tokenized phrase.
	Doc *Document
}

// Span returns the span covering the whole tokenized phrase.
func (t TrackerPhrase) Span() Span {
	return t.Doc.All()
}

// Origin identifies how a MatchCandidate was found.
type Origin int

const (
	// OriginExact is a verbatim occurrence of the tracker phrase.
	OriginExact Origin = iota + 1
	// OriginApproximate is a pattern hit accepted by similarity filtering.
	OriginApproximate
)

func (o Origin) String() string {
	switch o {
	case OriginExact:
		return "exact"
	case OriginApproximate:
		return "approximate"
	}
	return "unknown"
}

// MatchCandidate is a span found for a tracker phrase, before overlap resolution.
type MatchCandidate struct {
	Span    Span
	Tracker TrackerPhrase
	Score   Score
	Origin  Origin
}

// MatchRecord is a localized match. Word indices are relative to the
// containing sentence and inclusive on both ends.
type MatchRecord struct {
	SentenceIdx     int    `json:"sentence_idx"`
	StartWordIdx    int    `json:"start_word_idx"`
	EndWordIdx      int    `json:"end_word_idx"`
	TrackerValue    string `json:"tracker_value"`
	TranscribeValue string `json:"transcribe_value"`
}
