// Package nlp provides the linguistic substrate of phrasetrack: deterministic
// tokenization, sentence segmentation and lemmatization of English text.
//
// A Tokenizer turns text into a core.Document. Words are split from
// punctuation, common clitics are split off ("don't" becomes "do" and "n't"),
// and each token carries its case folded text and lemma. Sentences end after
// terminal punctuation and cover the whole document.
//
//	doc := nlp.NewTokenizer().Tokenize("The dog barks. It is loud.")
//	for _, s := range doc.Sentences {
//	    fmt.Println(doc.Span(s.Start, s.End).Text())
//	}
package nlp
