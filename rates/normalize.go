package rates

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes a categorical value for table lookup: lower-cased,
// trimmed, diacritics stripped (NFD, combining marks dropped), internal
// whitespace runs collapsed to a single space. Idempotent, so table keys need
// only one canonical spelling ("Citroën", "citroen" and " CITROEN " all match).
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// The transformer chain keeps per-call state, so build it per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}

	return strings.Join(strings.Fields(s), " ")
}
