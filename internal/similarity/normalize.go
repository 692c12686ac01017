package similarity

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize lowercases text, replaces every rune that is not a word rune,
// whitespace or one of . , ; : ! ? with a space, and collapses whitespace.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range strings.ToLower(text) {
		if !keepRune(r) || unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func keepRune(r rune) bool {
	if isWordRune(r) || unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '.', ',', ';', ':', '!', '?':
		return true
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// Truncate caps text at max runes. A non-positive max disables the cap.
func Truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	count := 0
	for i := range text {
		if count == max {
			return text[:i]
		}
		count++
	}
	return text
}
