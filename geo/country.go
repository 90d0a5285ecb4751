package geo

import "strings"

// Country is one selectable entry of a country picker.
type Country struct {
	ISO2     string
	Name     string
	DialCode string
	// Flag is opaque to validation: an emoji, an asset path or a sprite key.
	Flag string
}

// DialPrefix returns the immutable phone field prefix contributed by c,
// e.g. "+33 " for DialCode "33".
func DialPrefix(c Country) string {
	return "+" + strings.TrimSpace(c.DialCode) + " "
}

// NormalizeISO2 trims and uppercases an ASCII ISO2-like code.
//
// Validation here is format-only (two ASCII letters) and does not check
// whether the code is an officially assigned ISO 3166-1 alpha-2 value.
func NormalizeISO2(code string) (string, bool) {
	c := strings.TrimSpace(code)
	if len(c) != 2 || !isASCIILetter(c[0]) || !isASCIILetter(c[1]) {
		return "", false
	}
	return strings.ToUpper(c), true
}

func isASCIILetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
