package contactutil

import (
	"strings"
	"unicode/utf8"
)

// PhonePolicy is the sanitizer-relevant part of a form configuration.
type PhonePolicy struct {
	// AllowedChars lists the special runes permitted besides ASCII digits.
	AllowedChars string
	// FirstDigits, when non-empty, is the set the first rune must belong to.
	FirstDigits string
}

// SanitizePhone cleans the user-entered part of a phone field (the text after
// the dial prefix).
//
// Steps, each on the output of the previous one:
//  1. drop every rune that is neither an ASCII digit nor in AllowedChars;
//  2. collapse runs of the same special rune into one (digits never collapse);
//  3. if FirstDigits is set and the first rune is not in it, drop that rune;
//  4. if the first rune is still not a digit, drop that rune.
//
// Steps 3 and 4 remove at most one rune each per call. This mirrors
// per-keystroke correction: a multi-character paste is not normalized in a
// single pass.
func SanitizePhone(userPortion string, p PhonePolicy) string {
	if userPortion == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(userPortion))

	var prev rune = -1
	for _, r := range userPortion {
		if isDigitRune(r) {
			b.WriteRune(r)
			prev = r
			continue
		}
		if r == utf8.RuneError || !strings.ContainsRune(p.AllowedChars, r) {
			continue
		}
		if r == prev {
			continue
		}
		b.WriteRune(r)
		prev = r
	}

	out := b.String()

	if p.FirstDigits != "" && out != "" {
		first, size := utf8.DecodeRuneInString(out)
		if !strings.ContainsRune(p.FirstDigits, first) {
			out = out[size:]
		}
	}

	if out != "" {
		first, size := utf8.DecodeRuneInString(out)
		if !isDigitRune(first) {
			out = out[size:]
		}
	}

	return out
}

// CountDigits returns the number of ASCII digits in s.
func CountDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if isASCIIDigit(s[i]) {
			n++
		}
	}
	return n
}

func isDigitRune(r rune) bool { return r >= '0' && r <= '9' }

func isASCIIDigit(b byte) bool { return b >= '0' && b <= '9' }
