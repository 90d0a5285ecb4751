// Package config loads the contactform binary's settings from the
// environment. Every variable carries the CONTACTFORM_ prefix; the first
// segment after it names the section, e.g. CONTACTFORM_FORM_MIN_DIGITS or
// CONTACTFORM_REDIS_ADDR.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	play "github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/vortex-fintech/contactform/cache"
	"github.com/vortex-fintech/contactform/catalog"
	errs "github.com/vortex-fintech/contactform/errors"
	"github.com/vortex-fintech/contactform/form"
	"github.com/vortex-fintech/contactform/geoip"
	"github.com/vortex-fintech/contactform/validator"
)

const (
	Prefix      = "CONTACTFORM_"
	errorDomain = "contactform.config"
)

// sections are the nested keys; anything else is top-level.
var sections = []string{"form", "geoip", "redis", "postgres"}

var ErrDetectorRequired = errors.New("config: geoip.endpoint is required when form.detect_country is set")

type Config struct {
	Environment string `koanf:"environment" validate:"oneof=development debug production"`
	// MetricsAddr enables the /metrics and /health listener when set.
	MetricsAddr string `koanf:"metrics_addr" validate:"omitempty,hostname_port"`
	// ClientIP is passed to country detection; empty lets the provider use
	// the caller's address.
	ClientIP string `koanf:"client_ip" validate:"omitempty,ip"`

	Form     form.Config    `koanf:"form"`
	GeoIP    geoip.Config   `koanf:"geoip"`
	Redis    cache.Config   `koanf:"redis"`
	Postgres catalog.Config `koanf:"postgres"`
}

func defaults() Config {
	return Config{
		Environment: "development",
		Form: form.Config{
			MinDigits:     6,
			AllowedChars:  " -",
			DisableSubmit: true,
		},
		GeoIP: geoip.Config{
			Timeout:  2 * time.Second,
			CacheTTL: 24 * time.Hour,
		},
	}
}

// RedisEnabled reports whether a detection cache is configured.
func (c Config) RedisEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != "" || len(c.Redis.Addrs) > 0
}

// PostgresEnabled reports whether the catalog should come from Postgres.
func (c Config) PostgresEnabled() bool {
	return strings.TrimSpace(c.Postgres.URL) != ""
}

// Load reads the environment on top of the compiled defaults and validates
// the result.
func Load() (Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider(Prefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load env vars: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field tags, including the form section's phone policy,
// and the cross-section rules.
func (c Config) Validate() error {
	if err := validator.Struct(c); err != nil {
		var verrs play.ValidationErrors
		if errors.As(err, &verrs) {
			return errs.FromPlayground(verrs, validator.CodeFor).WithDomain(errorDomain)
		}
		return err
	}
	if c.Form.DetectCountry && strings.TrimSpace(c.GeoIP.Endpoint) == "" {
		return ErrDetectorRequired
	}
	return nil
}

// envKey maps CONTACTFORM_FORM_MIN_DIGITS to form.min_digits.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, Prefix))
	for _, sec := range sections {
		if strings.HasPrefix(key, sec+"_") {
			return sec + "." + strings.TrimPrefix(key, sec+"_")
		}
	}
	return key
}
