// Package geoip guesses a visitor's country from their IP address.
//
// Detectors return an upper-case two-letter code. They are meant to be
// handed to form.Handle.DetectCountry, which falls back to the first
// available country on any error.
package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vortex-fintech/contactform/geo"
	"github.com/vortex-fintech/contactform/netutil"
	"github.com/vortex-fintech/contactform/retry"
)

const (
	ipPlaceholder  = "{ip}"
	defaultTimeout = 2 * time.Second
	minTimeout     = 50 * time.Millisecond
	maxBodyBytes   = 4 << 10
)

var (
	ErrNoCountry      = errors.New("geoip: no country in response")
	ErrEmptyEndpoint  = errors.New("geoip: endpoint is required")
	errUnexpectedCode = errors.New("geoip: unexpected status")
)

// Detector guesses a country code for ip. An empty ip asks the provider to
// use the caller's own address.
type Detector interface {
	Detect(ctx context.Context, ip string) (string, error)
}

type Config struct {
	// Endpoint may contain "{ip}", e.g. "https://ipapi.co/{ip}/json/".
	Endpoint string `koanf:"endpoint"`
	// Timeout bounds a single HTTP attempt.
	Timeout  time.Duration `koanf:"timeout"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// HTTPDetector queries a JSON or plain-text geolocation endpoint.
type HTTPDetector struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
	policy   retry.Policy
}

type HTTPOption func(*HTTPDetector)

func WithHTTPClient(c *http.Client) HTTPOption { return func(d *HTTPDetector) { d.client = c } }
func WithRetryPolicy(p retry.Policy) HTTPOption {
	return func(d *HTTPDetector) { d.policy = p }
}

func NewHTTPDetector(cfg Config, opts ...HTTPOption) (*HTTPDetector, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, ErrEmptyEndpoint
	}
	if _, err := url.Parse(strings.ReplaceAll(endpoint, ipPlaceholder, "0.0.0.0")); err != nil {
		return nil, fmt.Errorf("geoip: endpoint: %w", err)
	}

	d := &HTTPDetector{
		endpoint: endpoint,
		client:   http.DefaultClient,
		timeout:  netutil.ClampTimeout(cfg.Timeout, minTimeout, defaultTimeout),
		policy:   retry.Fast(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *HTTPDetector) Detect(ctx context.Context, ip string) (string, error) {
	target := d.url(ip)
	return retry.Do(ctx, d.policy, func(ctx context.Context) (string, error) {
		return d.fetch(ctx, target)
	})
}

func (d *HTTPDetector) url(ip string) string {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return strings.ReplaceAll(strings.ReplaceAll(d.endpoint, ipPlaceholder+"/", ""), ipPlaceholder, "")
	}
	return strings.ReplaceAll(d.endpoint, ipPlaceholder, url.PathEscape(ip))
}

func (d *HTTPDetector) fetch(ctx context.Context, target string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", retry.Permanent(err)
	}
	req.Header.Set("Accept", "application/json, text/plain")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", fmt.Errorf("%w: %d", errUnexpectedCode, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", retry.Permanent(fmt.Errorf("%w: %d", errUnexpectedCode, resp.StatusCode))
	}

	code, ok := geo.NormalizeISO2(parseCountry(body))
	if !ok {
		return "", retry.Permanent(ErrNoCountry)
	}
	return code, nil
}

// parseCountry accepts {"country_code": ".."}, {"countryCode": ".."},
// {"country": ".."} or a bare code.
func parseCountry(body []byte) string {
	s := strings.TrimSpace(string(body))
	if !strings.HasPrefix(s, "{") {
		return s
	}

	var payload struct {
		CountryCode      string `json:"country_code"`
		CountryCodeCamel string `json:"countryCode"`
		Country          string `json:"country"`
	}
	if err := json.Unmarshal([]byte(s), &payload); err != nil {
		return ""
	}
	for _, v := range []string{payload.CountryCode, payload.CountryCodeCamel, payload.Country} {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
