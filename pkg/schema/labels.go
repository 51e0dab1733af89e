package schema

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultLabeler converts a field name into a human-friendly label. Words are
// split on underscores, dashes, spaces and case or digit boundaries, then
// title-cased, so "firstName" becomes "First Name" and "zip_code" becomes
// "Zip Code". Names are handled rune by rune; invalid UTF-8 bytes are
// replaced rather than split.
func DefaultLabeler(name string) string {
	var words []string
	name = strings.ToValidUTF8(name, string(utf8.RuneError))
	for _, chunk := range strings.FieldsFunc(name, isSeparator) {
		for _, word := range splitBoundaries(chunk) {
			words = append(words, capitalise(word))
		}
	}
	return strings.Join(words, " ")
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

// splitBoundaries breaks a chunk where a lower-case letter meets an upper-case
// one, or where letters and digits meet.
func splitBoundaries(chunk string) []string {
	var (
		words []string
		start int
		prev  rune = -1
	)
	for idx, r := range chunk {
		if prev >= 0 && isBoundary(prev, r) {
			words = append(words, chunk[start:idx])
			start = idx
		}
		prev = r
	}
	return append(words, chunk[start:])
}

func isBoundary(prev, next rune) bool {
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(next):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(next):
		return true
	case unicode.IsDigit(prev) && unicode.IsLetter(next):
		return true
	}
	return false
}

// capitalise title-cases the first rune and lower-cases the rest.
func capitalise(word string) string {
	first, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToTitle(first)) + strings.ToLower(word[size:])
}
