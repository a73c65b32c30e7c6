package heuristics

import (
	"strings"
	"unicode"
)

// stopWords are tokens too generic to anchor a codebase search.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "this": true,
	"that": true, "not": true, "was": true, "are": true, "has": true,
	"have": true, "can": true, "cannot": true, "could": true, "but": true,
	"its": true, "into": true, "from": true, "your": true, "you": true,
	"found": true, "file": true, "line": true, "does": true, "did": true,
	"use": true, "used": true, "try": true, "when": true, "may": true,
}

// ExtractKeywords tokenizes an error message, strips stop words, and
// discards tokens of length <= 2. Order of first appearance is kept and
// duplicates are dropped.
func ExtractKeywords(message string) []string {
	fields := strings.FieldsFunc(message, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	seen := make(map[string]bool)
	var keywords []string
	for _, f := range fields {
		token := strings.ToLower(f)
		if len(token) <= 2 || stopWords[token] || seen[token] {
			continue
		}
		seen[token] = true
		keywords = append(keywords, token)
	}
	return keywords
}

// errorMarkers identify a source line as error-adjacent. A similar-issue
// match requires a keyword hit AND one of these.
var errorMarkers = []string{"error", "exception", "throw", "fail", "catch"}

// LooksErrorLike reports whether line carries an error-like marker.
// Matching is case-insensitive.
func LooksErrorLike(line string) bool {
	lower := strings.ToLower(line)
	for _, m := range errorMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
