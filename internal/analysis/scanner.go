package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// containsAny reports whether text contains any keyword as a plain substring.
func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// containsAll reports whether text contains every keyword.
func containsAll(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	for _, kw := range keywords {
		if !strings.Contains(text, kw) {
			return false
		}
	}
	return true
}

// countPresent counts how many distinct words occur in text. Repeats of one word count once.
func countPresent(text string, words []string) int {
	n := 0
	for _, w := range words {
		if w != "" && strings.Contains(text, w) {
			n++
		}
	}
	return n
}

// fold lower-cases text for case-insensitive matching.
func fold(text string) string {
	return strings.ToLower(text)
}

// words splits text on whitespace.
func words(text string) []string {
	return strings.Fields(text)
}

// sharedWordCount counts words of candidate longer than minLen that also appear in reference.
// Duplicate words in candidate are counted each time they occur.
func sharedWordCount(candidate, reference []string, minLen int) int {
	ref := make(map[string]struct{}, len(reference))
	for _, w := range reference {
		ref[w] = struct{}{}
	}
	n := 0
	for _, w := range candidate {
		if utf8.RuneCountInString(w) <= minLen {
			continue
		}
		if _, ok := ref[w]; ok {
			n++
		}
	}
	return n
}

// isShouting reports whether text has letters and none of them are lower-case.
func isShouting(text string) bool {
	hasLetter := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

// truncate returns at most max runes of text.
func truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max])
}
