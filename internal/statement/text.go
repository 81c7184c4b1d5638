package statement

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics decomposes the string and removes combining marks, so that
// e.g. "Descrição" and "Descricao" normalize to the same header key.
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func removeDiacritics(s string) string {
	out, _, err := transform.String(stripDiacritics, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeHeader canonicalizes a CSV column header: diacritics stripped,
// lower-cased, runs of non-alphanumerics collapsed to a single underscore.
// "Data Lançamento" and "data_lancamento" resolve to the same key.
func NormalizeHeader(header string) string {
	s := strings.ToLower(removeDiacritics(strings.TrimSpace(header)))
	var b strings.Builder
	b.Grow(len(s))
	lastUnderscore := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}

// NormalizeText canonicalizes free text for comparison: diacritics stripped,
// lower-cased, non-alphanumerics replaced by single spaces, trimmed. Used for
// reference-token matching between statement lines and payables.
func NormalizeText(s string) string {
	lowered := strings.ToLower(removeDiacritics(s))
	var b strings.Builder
	b.Grow(len(lowered))
	lastSpace := false
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// firstValue probes the row for the first alias that holds a non-empty value.
// Alias order is priority order.
func firstValue(row map[string]string, aliases ...string) string {
	for _, key := range aliases {
		if v := strings.TrimSpace(row[key]); v != "" {
			return v
		}
	}
	return ""
}
