package phrase

import (
	"strings"
	"unicode"
)

// maxKeySource bounds how much of a phrase contributes to its key.
// Longer phrases truncate to this prefix, so two phrases sharing the
// same first 30 characters collide — the later one overwrites the
// earlier within a namespace. Accepted lossy behavior: keys stay short
// and derivation stays deterministic, at the cost of occasional
// collisions. No disambiguation suffix is added.
const maxKeySource = 30

// DeriveKey converts a phrase into a compact lower-camel-case resource
// key. Runs of non-alphanumeric characters become word breaks; the
// first word is lower-cased, subsequent words are capitalized.
// Case and punctuation differences collapse to the same key:
// "Submit Form Now" and "submit form now!!" both derive "submitFormNow".
// Empty or all-punctuation input yields an empty key — callers must
// guard against the degenerate case.
func DeriveKey(text string) string {
	runes := []rune(text)
	if len(runes) > maxKeySource {
		runes = runes[:maxKeySource]
	}

	words := strings.FieldsFunc(string(runes), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	for i, w := range words {
		lower := strings.ToLower(w)
		if i == 0 {
			b.WriteString(lower)
			continue
		}
		wr := []rune(lower)
		wr[0] = unicode.ToUpper(wr[0])
		b.WriteString(string(wr))
	}
	return b.String()
}
