package nlp

import "strings"

// irregular maps inflected forms that suffix rules get wrong to their lemma.
var irregular = map[string]string{
	"am": "be", "is": "be", "are": "be", "was": "be", "were": "be", "been": "be", "being": "be",
	"'m": "be", "'re": "be", "’m": "be", "’re": "be",
	"has": "have", "had": "have", "having": "have", "'ve": "have", "’ve": "have",
	"does": "do", "did": "do", "done": "do", "doing": "do",
	"n't": "not", "n’t": "not", "'ll": "will", "’ll": "will", "wo": "will", "ca": "can",
	"went": "go", "gone": "go", "goes": "go",
	"said": "say", "says": "say", "made": "make", "making": "make",
	"took": "take", "taken": "take", "taking": "take", "came": "come", "coming": "come",
	"got": "get", "gotten": "get", "gave": "give", "given": "give", "giving": "give",
	"knew": "know", "known": "know", "thought": "think", "told": "tell", "felt": "feel",
	"became": "become", "left": "leave", "kept": "keep", "began": "begin", "begun": "begin",
	"brought": "bring", "bought": "buy", "paid": "pay", "sent": "send", "spent": "spend",
	"saw": "see", "seen": "see", "ran": "run", "wrote": "write", "written": "write",
	"spoke": "speak", "spoken": "speak", "met": "meet", "heard": "hear", "found": "find",
	"better": "good", "best": "good", "worse": "bad", "worst": "bad",
	"children": "child", "men": "man", "women": "woman", "people": "person",
	"mice": "mouse", "feet": "foot", "teeth": "tooth", "geese": "goose",
}

// invariant lists words ending in "s" that are not plurals.
var invariant = map[string]bool{
	"this": true, "his": true, "its": true, "yes": true, "thus": true, "plus": true,
	"bus": true, "gas": true, "news": true, "always": true, "perhaps": true, "series": true,
	"species": true, "was": true, "has": true, "does": true, "less": true, "unless": true,
}

const vowels = "aeiou"

// Lemmatize returns the base form of a lower-cased word using an irregular
// table and English suffix rules. The result is deterministic; it does not
// need to be linguistically exact, only consistent between trackers and
// transcripts.
func Lemmatize(word string) string {
	if lemma, ok := irregular[word]; ok {
		return lemma
	}
	if invariant[word] || len(word) <= 3 || !isAlpha(word) || strings.HasSuffix(word, "thing") {
		return word
	}

	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "sses"),
		strings.HasSuffix(word, "shes"),
		strings.HasSuffix(word, "ches"),
		strings.HasSuffix(word, "xes"),
		strings.HasSuffix(word, "zes"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "ss"),
		strings.HasSuffix(word, "us"),
		strings.HasSuffix(word, "is"):
		return word
	case strings.HasSuffix(word, "s"):
		return word[:len(word)-1]
	case strings.HasSuffix(word, "ied") && len(word) > 4:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "ed") && len(word) > 4:
		return restoreStem(word[:len(word)-2])
	case strings.HasSuffix(word, "ing") && len(word) > 5:
		return restoreStem(word[:len(word)-3])
	}
	return word
}

// restoreStem undoes consonant doubling ("stopp" -> "stop") and restores a
// silent e after a consonant-vowel-consonant stem ending in a soft letter
// ("hop" stays, "danc" -> "dance").
func restoreStem(stem string) string {
	n := len(stem)
	if n >= 2 && stem[n-1] == stem[n-2] && !strings.ContainsRune(vowels+"lsz", rune(stem[n-1])) {
		return stem[:n-1]
	}
	if n >= 2 && strings.ContainsRune("cvz", rune(stem[n-1])) && !strings.ContainsRune(vowels, rune(stem[n-2])) {
		return stem + "e"
	}
	if n >= 2 && stem[n-1] == 'u' {
		return stem + "e"
	}
	return stem
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
