package validator

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var v *validator.Validate

func init() {
	v = validator.New()
	mustRegister("specialchars", specialChars)
	mustRegister("digitset", digitSet)
}

func mustRegister(tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Struct runs struct validation and returns the raw playground error, for
// callers that adapt it into their own error model.
func Struct(i any) error {
	return v.Struct(i)
}

// specialChars: a set of non-digit runes, each listed once.
func specialChars(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !utf8.ValidString(s) {
		return false
	}
	for i, r := range s {
		if r >= '0' && r <= '9' {
			return false
		}
		if strings.ContainsRune(s[i+utf8.RuneLen(r):], r) {
			return false
		}
	}
	return true
}

// digitSet: ASCII digits only.
func digitSet(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
