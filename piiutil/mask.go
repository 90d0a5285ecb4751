package piiutil

import "strings"

const (
	shortDigitCountThreshold = 4
	keepShortDigits          = 1
	keepLongDigits           = 4
)

// MaskEmail masks the local-part of an e-mail while keeping minimal visibility.
// It shows the first and last character of the local-part.
// Examples:
//
//	"user@example.com"    -> "u**r@example.com"
//	"ab@example.com"      -> "a*@example.com"
//	"u@example.com"       -> "u@example.com"
//	"weird"               -> "w***d"
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}

	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return maskMiddle(email)
	}
	return maskMiddle(email[:at]) + email[at:]
}

// MaskPhone masks the user-entered digits of a phone field and leaves the
// dial prefix readable, so logs still show the selected country:
//
//	("+33 ", "6 12 34 56 78") -> "+33 * ** ** 56 78"
//	("+1 ", "555")           -> "+1 **5"
//	("", "")                 -> ""
func MaskPhone(prefix, userPortion string) string {
	return prefix + maskDigits(userPortion)
}

func maskMiddle(s string) string {
	runes := []rune(s)
	n := len(runes)
	switch {
	case n <= 1:
		return s
	case n == 2:
		return string(runes[0]) + "*"
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteRune(runes[0])
	for i := 1; i < n-1; i++ {
		b.WriteByte('*')
	}
	b.WriteRune(runes[n-1])
	return b.String()
}

// maskDigits keeps 1 last digit when there are at most 4 digits and 4 last
// digits otherwise. Non-digit runes are left as typed.
func maskDigits(s string) string {
	total := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			total++
		}
	}
	if total == 0 {
		return s
	}

	keep := keepLongDigits
	if total <= shortDigitCountThreshold {
		keep = keepShortDigits
	}

	out := []byte(s)
	seen := 0
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] >= '0' && out[i] <= '9' {
			seen++
			if seen > keep {
				out[i] = '*'
			}
		}
	}
	return string(out)
}
