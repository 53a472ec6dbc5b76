// Package textutil holds the sentence and token splitting shared by every
// text-based validator. Splitting is deliberately simple: terminal
// punctuation ends a sentence, words are lowercased letter/digit runs.
package textutil

import (
	"strings"
	"unicode"
)

// SplitSentences splits text into trimmed sentences on terminal
// punctuation (. ! ?). Abbreviation handling is out of scope; a period
// followed by whitespace or end-of-input terminates a sentence.
func SplitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			atEnd := i+1 >= len(runes)
			if atEnd || unicode.IsSpace(runes[i+1]) {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// Tokenize splits text into lowercase word tokens. Runs of letters and
// digits form a token; everything else is a separator.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// WordCount returns the number of word tokens in text.
func WordCount(text string) int {
	return len(Tokenize(text))
}
