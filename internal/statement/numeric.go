package statement

import (
	"strconv"
	"strings"
)

// normalizeNumeric coerces a raw cell into a float. Thousands separators and
// currency noise are stripped; only digits, the decimal point and a leading
// minus survive. Returns false for empty or punctuation-only cells.
func normalizeNumeric(raw string) (float64, bool) {
	var b strings.Builder
	hasDigit := false
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			hasDigit = true
		case r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	if !hasDigit {
		return 0, false
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// trimCell trims whitespace including the non-breaking spaces Excel exports
// like to sprinkle around.
func trimCell(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
