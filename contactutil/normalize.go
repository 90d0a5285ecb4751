package contactutil

import "strings"

// NormalizeEmail приводит e-mail к нижнему регистру и обрезает пробелы.
// Не валидирует формат, только нормализует.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CompactPhone joins a dial prefix and a sanitized user portion into a
// submission value: surrounding space is trimmed and only '+' and ASCII
// digits are kept. Formatting characters typed by the user are dropped.
func CompactPhone(prefix, userPortion string) string {
	s := strings.TrimSpace(prefix + userPortion)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isASCIIDigit(c) || (c == '+' && b.Len() == 0) {
			b.WriteByte(c)
		}
	}
	return b.String()
}
