package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vortex-fintech/contactform/netutil"
)

const (
	defaultMetricsPath   = "/metrics"
	defaultHealthPath    = "/health"
	defaultHealthTimeout = 500 * time.Millisecond
	minHealthTimeout     = 10 * time.Millisecond
)

// HealthFunc reports whether the process can serve forms, e.g. that the
// country catalog is reachable.
type HealthFunc func(ctx context.Context) error

// Options настраивает /metrics и /health.
type Options struct {
	Registry *prometheus.Registry
	// Collectors are registered next to the process and Go collectors.
	Collectors    []prometheus.Collector
	Health        HealthFunc
	MetricsPath   string
	HealthPath    string
	HealthTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.MetricsPath == "" {
		o.MetricsPath = defaultMetricsPath
	}
	if o.HealthPath == "" {
		o.HealthPath = defaultHealthPath
	}
	o.HealthTimeout = netutil.ClampTimeout(o.HealthTimeout, minHealthTimeout, defaultHealthTimeout)
	if o.Registry == nil {
		o.Registry = prometheus.NewRegistry()
	}
	return o
}

// register tolerates collectors that are already on the registry.
func register(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return err
	}
	return nil
}

// New builds the handler serving /metrics and /health and returns the
// registry it exposes.
func New(opts Options) (http.Handler, *prometheus.Registry, error) {
	opts = opts.withDefaults()
	reg := opts.Registry

	base := []prometheus.Collector{
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	}
	for _, c := range append(base, opts.Collectors...) {
		if err := register(reg, c); err != nil {
			return nil, nil, fmt.Errorf("metrics: register: %w", err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle(opts.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc(opts.HealthPath, healthHandler(opts.Health, opts.HealthTimeout))

	return mux, reg, nil
}

func healthHandler(check HealthFunc, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check == nil {
			writeOK(w)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		// буфер 1, чтобы горутина не зависла после таймаута
		errCh := make(chan error, 1)
		go func() { errCh <- check(ctx) }()

		select {
		case err := <-errCh:
			if err != nil {
				http.Error(w, "UNHEALTHY: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
			writeOK(w)
		case <-ctx.Done():
			http.Error(w, "UNHEALTHY: health timeout", http.StatusServiceUnavailable)
		}
	}
}

func writeOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
