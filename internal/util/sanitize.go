package util

import (
	"strings"
	"unicode"
)

// Per-field length caps applied to all inbound strings.
const (
	MaxTextLen    = 500 // title, description, urls
	MaxNameLen    = 100 // contributor display name
	MaxMessageLen = 300 // contribution / chat message
)

// MaxAmountEuro is the ceiling for any single money field. Generous for a
// gift registry, and keeps EuroToCent well inside int64 range.
const MaxAmountEuro = 100_000_000.0

// Sanitize replaces control characters with spaces, trims surrounding
// whitespace and enforces a hard length cap (in runes).
func Sanitize(s string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) {
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	runes := []rune(out)
	if len(runes) > maxLen {
		out = strings.TrimSpace(string(runes[:maxLen]))
	}
	return out
}

// EuroToCent converts an amount in euros to cents, rounding to the nearest
// cent. Negative inputs stay negative so callers can reject them. Callers
// bound inputs with MaxAmountEuro first; the conversion overflows far
// beyond it.
func EuroToCent(amount float64) int64 {
	if amount < 0 {
		return int64(amount*100 - 0.5)
	}
	return int64(amount*100 + 0.5)
}

// CentToEuro converts cents back to a float euro amount for responses.
func CentToEuro(cents int64) float64 {
	return float64(cents) / 100.0
}
