// Package normalize provides canonicalization for user-facing identifiers.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// handleStripper removes diacritics so "José" and "Jose" claim the same handle.
var handleStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Handle canonicalizes a user handle: lowercase ASCII letters, digits and
// single hyphens. Returns "" if nothing usable remains.
func Handle(raw string) string {
	stripped, _, err := transform.String(handleStripper, raw)
	if err != nil {
		stripped = raw
	}

	var b strings.Builder
	lastHyphen := true // Suppress leading hyphens.
	for _, r := range strings.ToLower(strings.TrimSpace(stripped)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == '-' || r == '_' || r == ' ' || r == '.':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// DisplayName trims and collapses whitespace in a display name.
func DisplayName(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}
