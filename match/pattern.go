package match

import (
	"strings"

	"github.com/poiesic/phrasetrack/core"
)

// Element is one step of a Pattern. A lemma element matches zero or one
// token with the same lemma; a wildcard matches exactly one token of any kind.
type Element struct {
	Lemma    string
	Wildcard bool
}

func (e Element) matches(tok core.Token) bool {
	return e.Wildcard || tok.Lemma == e.Lemma
}

func (e Element) String() string {
	if e.Wildcard {
		return "*"
	}
	return e.Lemma + "?"
}

// Pattern is a tolerant token pattern derived from a tracker phrase.
type Pattern struct {
	Elements []Element

	// SearchLen is the token count of the phrase, punctuation included.
	SearchLen int
}

// NewPattern builds the pattern of a tokenized tracker phrase: an optional
// lemma element per word, with a single-token wildcard between consecutive
// words. Punctuation is dropped.
func NewPattern(tracker core.Span) Pattern {
	p := Pattern{SearchLen: tracker.Len()}
	for _, tok := range tracker.Tokens() {
		if tok.IsPunct {
			continue
		}
		if len(p.Elements) > 0 {
			p.Elements = append(p.Elements, Element{Wildcard: true})
		}
		p.Elements = append(p.Elements, Element{Lemma: tok.Lemma})
	}
	return p
}

// IsEmpty reports whether the pattern has no elements and can match nothing.
func (p Pattern) IsEmpty() bool {
	return len(p.Elements) == 0
}

func (p Pattern) String() string {
	parts := make([]string, len(p.Elements))
	for i, e := range p.Elements {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}
