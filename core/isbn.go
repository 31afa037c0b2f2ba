package core

import (
	"strings"
	"unicode"
)

// NormalizeISBN canonicalizes a raw identifier for lookups and comparison:
// surrounding and interior whitespace and hyphens are removed and letters are upper-cased.
// "978-604-123-4567" and "9786041234567" normalize to the same key.
func NormalizeISBN(raw string) ISBNString {
	var b strings.Builder
	b.Grow(len(raw))

	for _, r := range raw {
		if r == '-' || unicode.IsSpace(r) {
			continue
		}

		b.WriteRune(unicode.ToUpper(r))
	}

	return b.String()
}
