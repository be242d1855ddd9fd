package filter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vijay-prabhu/studyhub/internal/record"
)

// ContainsFold reports whether any textual form of the record's field
// contains the keyword. keyword must already be lowercased.
func ContainsFold(r record.Record, field, keyword string) bool {
	for _, text := range r.Text(field) {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// containsWord checks if text contains the word (with word boundary awareness)
func containsWord(text, word string) bool {
	// Simple contains for multi-word phrases
	if strings.Contains(word, " ") {
		return strings.Contains(text, word)
	}

	idx := strings.Index(text, word)
	if idx == -1 {
		return false
	}

	if idx > 0 {
		before, _ := utf8.DecodeLastRuneInString(text[:idx])
		if isWordChar(before) {
			return containsWord(text[idx+len(word):], word)
		}
	}

	endIdx := idx + len(word)
	if endIdx < len(text) {
		after, _ := utf8.DecodeRuneInString(text[endIdx:])
		if isWordChar(after) {
			return containsWord(text[endIdx:], word)
		}
	}

	return true
}

// isWordChar returns true for letters and digits in any script
func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
