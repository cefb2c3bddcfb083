// Package tokenizer turns raw text into the token sequences the classifier
// trains and classifies on.
package tokenizer

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// A Tokenizer converts text into an ordered token sequence. Determinism is
// the only contract: the same text must always yield the same tokens.
type Tokenizer func(text string) []string

var lowercaser = cases.Lower(language.Und)

// Words is the default tokenizer: Unicode-lowercased, punctuation stripped,
// whitespace separated.
func Words(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, lowercaser.String(text))

	return strings.Fields(cleaned)
}

// Stemmed wraps base so every token is reduced to its snowball stem for the
// given language ("english", "spanish", ...). Stemming is opt-in; the
// classifier core never applies it on its own. Tokens the stemmer cannot
// handle pass through unchanged.
func Stemmed(base Tokenizer, lang string) Tokenizer {
	return func(text string) []string {
		tokens := base(text)
		stemmed := make([]string, 0, len(tokens))
		for _, token := range tokens {
			stem, err := snowball.Stem(token, lang, true)
			if err != nil || stem == "" {
				stemmed = append(stemmed, token)
				continue
			}
			stemmed = append(stemmed, stem)
		}
		return stemmed
	}
}
