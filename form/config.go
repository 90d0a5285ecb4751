package form

import (
	"errors"

	play "github.com/go-playground/validator/v10"

	"github.com/vortex-fintech/contactform/contactutil"
	errs "github.com/vortex-fintech/contactform/errors"
	"github.com/vortex-fintech/contactform/validator"
)

const errorDomain = "contactform"

// Config is fixed for the lifetime of a Controller.
type Config struct {
	// MinDigits is the number of digits the user portion needs to be valid.
	MinDigits int `validate:"gte=0" koanf:"min_digits"`
	// AllowedChars lists the special characters accepted besides digits.
	AllowedChars string `validate:"specialchars" koanf:"allowed_chars"`
	// FirstDigits, if set, restricts the first digit of the user portion.
	FirstDigits string `validate:"omitempty,digitset" koanf:"first_digits"`

	DetectCountry bool `koanf:"detect_country"`
	DisableSubmit bool `koanf:"disable_submit"`

	// TrimEmailOnRecompute makes the overall validity use the trimmed e-mail,
	// the same value the edit path checks. Off by default: the overall
	// validity has always used the raw text.
	TrimEmailOnRecompute bool `koanf:"trim_email_on_recompute"`
}

// Validate returns an errs.ErrorResponse with one violation per bad field.
func (c Config) Validate() error {
	err := validator.Struct(c)
	if err == nil {
		return nil
	}

	var verrs play.ValidationErrors
	if errors.As(err, &verrs) {
		return errs.FromPlayground(verrs, validator.CodeFor).WithDomain(errorDomain)
	}
	return errs.InvalidArgument().WithDomain(errorDomain)
}

func (c Config) phonePolicy() contactutil.PhonePolicy {
	return contactutil.PhonePolicy{
		AllowedChars: c.AllowedChars,
		FirstDigits:  c.FirstDigits,
	}
}
