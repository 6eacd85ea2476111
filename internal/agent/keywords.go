package agent

import (
	"strings"
	"unicode"
)

// stopwords are common words excluded from keyword scoring.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "any": true, "all": true,
	"are": true, "as": true, "at": true, "be": true, "by": true,
	"for": true, "from": true, "in": true, "is": true, "it": true,
	"of": true, "on": true, "or": true, "that": true, "the": true,
	"to": true, "with": true, "this": true, "these": true, "those": true,
	"records": true, "record": true, "request": true, "documents": true,
	"document": true, "please": true, "provide": true, "regarding": true,
}

// tokenize lowercases text and splits it into alphanumeric words,
// dropping stopwords and single characters.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || stopwords[f] {
			continue
		}
		words = append(words, f)
	}
	return words
}

// keywordSet builds the scoring vocabulary from topics and request text.
// Topic words count double in scoreText.
func keywordSet(topics []string, text string) map[string]int {
	weights := make(map[string]int)
	for _, w := range tokenize(text) {
		if weights[w] == 0 {
			weights[w] = 1
		}
	}
	for _, topic := range topics {
		for _, w := range tokenize(topic) {
			weights[w] = 2
		}
	}
	return weights
}

// scoreText returns the weighted keyword-hit count of text against the
// vocabulary. Repeated hits count each time.
func scoreText(text string, weights map[string]int) int {
	score := 0
	for _, w := range tokenize(text) {
		score += weights[w]
	}
	return score
}
