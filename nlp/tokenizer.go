package nlp

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/poiesic/phrasetrack/core"
)

// Tokenizer splits text into a core.Document of tokens and sentences.
// A Tokenizer holds no mutable state and is safe for concurrent use.
type Tokenizer struct {
	abbreviations map[string]bool
	logger        *slog.Logger
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithAbbreviations adds words (without the trailing period) that keep their
// period attached and never end a sentence, e.g. "approx".
func WithAbbreviations(words ...string) Option {
	return func(t *Tokenizer) {
		for _, w := range words {
			t.abbreviations[strings.ToLower(strings.TrimSuffix(w, "."))] = true
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tokenizer) {
		if logger == nil {
			logger = slog.Default()
		}
		t.logger = logger
	}
}

// NewTokenizer creates a tokenizer for English text.
func NewTokenizer(opts ...Option) *Tokenizer {
	t := &Tokenizer{
		abbreviations: make(map[string]bool, len(defaultAbbreviations)),
		logger:        slog.Default(),
	}
	for _, a := range defaultAbbreviations {
		t.abbreviations[a] = true
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With("component", "tokenizer")
	return t
}

var defaultAbbreviations = []string{
	"mr", "mrs", "ms", "dr", "prof", "sr", "jr", "st", "vs", "etc", "inc", "ltd", "co", "corp",
	"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
}

// clitics are split off the end of a word, longest first.
var clitics = []string{"n't", "'s", "'re", "'ll", "'ve", "'m", "'d"}

// Tokenize splits text into tokens and sentences. Text is NFC normalized first;
// token offsets refer to the normalized text stored in the Document.
func (t *Tokenizer) Tokenize(text string) *core.Document {
	text = norm.NFC.String(text)
	doc := &core.Document{Text: text}

	folder := cases.Fold()
	for _, raw := range t.scan(text) {
		lower := folder.String(raw.text)
		tok := core.Token{
			Index:  len(doc.Tokens),
			Text:   raw.text,
			Lower:  lower,
			Offset: raw.offset,
		}
		if raw.punct {
			tok.IsPunct = true
			tok.Lemma = lower
			tok.IsSentenceEnd = isSentenceTerminator(raw.text)
		} else {
			tok.Lemma = Lemmatize(lower)
		}
		doc.Tokens = append(doc.Tokens, tok)
	}

	segment(doc)
	t.logger.Debug("tokenized text", "tokens", len(doc.Tokens), "sentences", len(doc.Sentences))
	return doc
}

type rawToken struct {
	text   string
	offset int
	punct  bool
}

// scan produces the raw token stream. Words are runs of letters and digits
// with inner apostrophes, hyphens and numeric separators; every other
// non-space rune is punctuation, with runs of periods kept together.
func (t *Tokenizer) scan(text string) []rawToken {
	var out []rawToken
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case isWordRune(r):
			end := wordEnd(text, i)
			word := text[i:end]
			// abbreviations keep their period
			if end < len(text) && text[end] == '.' && t.abbreviations[strings.ToLower(word)] {
				out = append(out, rawToken{text: text[i : end+1], offset: i})
				i = end + 1
				continue
			}
			out = append(out, splitClitics(word, i)...)
			i = end
		case r == '.':
			end := i
			for end < len(text) && text[end] == '.' {
				end++
			}
			out = append(out, rawToken{text: text[i:end], offset: i, punct: true})
			i = end
		default:
			out = append(out, rawToken{text: text[i : i+size], offset: i, punct: true})
			i += size
		}
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// wordEnd returns the end of the word starting at i. Joiners ('-', '\'', '’',
// and '.' or ',' between digits) stay inside a word only when followed by a
// word rune.
func wordEnd(text string, i int) int {
	end := i
	var prev rune
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			prev = r
			end += size
			continue
		}
		if end+size >= len(text) {
			break
		}
		next, _ := utf8.DecodeRuneInString(text[end+size:])
		joins := false
		switch r {
		case '-', '\'', '’':
			joins = isWordRune(next)
		case '.', ',':
			joins = unicode.IsDigit(prev) && unicode.IsDigit(next)
		}
		if !joins {
			break
		}
		prev = r
		end += size
	}
	return end
}

func splitClitics(word string, offset int) []rawToken {
	for _, c := range clitics {
		for _, v := range []string{c, strings.Replace(c, "'", "’", 1)} {
			if len(word) <= len(v) || !strings.EqualFold(word[len(word)-len(v):], v) {
				continue
			}
			cut := len(word) - len(v)
			return []rawToken{
				{text: word[:cut], offset: offset},
				{text: word[cut:], offset: offset + cut},
			}
		}
	}
	return []rawToken{{text: word, offset: offset}}
}

func isSentenceTerminator(s string) bool {
	switch s {
	case "!", "?", "‽", "…":
		return true
	}
	return strings.Trim(s, ".") == ""
}

// isCloser reports punctuation that stays in the sentence it closes.
func isCloser(s string) bool {
	switch s {
	case ")", "]", "}", "\"", "'", "”", "’", "»":
		return true
	}
	return false
}

// segment assigns sentences. A sentence ends after a run of terminators and
// any closing quotes or brackets that follow them. Sentences are contiguous and
// cover the whole document.
func segment(doc *core.Document) {
	start := 0
	n := len(doc.Tokens)
	for i := 0; i < n; i++ {
		if !doc.Tokens[i].IsSentenceEnd {
			continue
		}
		end := i + 1
		for end < n && (doc.Tokens[end].IsSentenceEnd || isCloser(doc.Tokens[end].Text)) {
			end++
		}
		addSentence(doc, start, end)
		start = end
		i = end - 1
	}
	if start < n {
		addSentence(doc, start, n)
	}
}

func addSentence(doc *core.Document, start, end int) {
	id := len(doc.Sentences)
	doc.Sentences = append(doc.Sentences, core.Sentence{Id: id, Start: start, End: end})
	for i := start; i < end; i++ {
		doc.Tokens[i].SentenceId = id
	}
}
