package contactutil

import "regexp"

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// IsValidEmail reports whether text is a syntactically acceptable address.
//
// The check is anchored at both ends and does not trim; callers that want
// surrounding whitespace ignored must trim first. No DNS/MX lookups and no
// Unicode local parts.
func IsValidEmail(text string) bool {
	return emailRe.MatchString(text)
}
