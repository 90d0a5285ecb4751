// Command contactform drives a phone/e-mail contact form from a script on
// stdin and prints the settled state after every command as JSON.
//
// Settings come from CONTACTFORM_* environment variables (see package
// config). Logs go to stderr.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/vortex-fintech/contactform/cache"
	"github.com/vortex-fintech/contactform/catalog"
	"github.com/vortex-fintech/contactform/config"
	errs "github.com/vortex-fintech/contactform/errors"
	"github.com/vortex-fintech/contactform/form"
	"github.com/vortex-fintech/contactform/geo"
	"github.com/vortex-fintech/contactform/geoip"
	"github.com/vortex-fintech/contactform/logger"
	"github.com/vortex-fintech/contactform/metrics"
)

const (
	shutdownTimeout = 5 * time.Second
	startupTimeout  = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, in io.Reader, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logger.Init("contactform", cfg.Environment)
	defer log.SafeSync()

	ctx = logger.ContextWithSessionID(ctx, uuid.NewString())

	countries, err := loadCountries(ctx, cfg, log)
	if err != nil {
		return err
	}

	detector, closeDetector, err := buildDetector(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeDetector()

	collector := metrics.NewCollector()

	phone, email := form.NewTextField(""), form.NewTextField("")
	phoneMarks, emailMarks, submit := &form.Indicators{}, &form.Indicators{}, &form.Indicators{}

	ctrl, err := form.New(cfg.Form,
		form.WithPhoneField(phone),
		form.WithEmailField(email),
		form.WithPhoneMarker(phoneMarks),
		form.WithEmailMarker(emailMarks),
		form.WithSubmit(submit),
		form.WithCountries(countries),
		form.WithObserver(collector),
		form.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("form: %w", err)
	}

	h, err := form.NewRegistry().Attach(ctrl)
	if err != nil {
		return err
	}
	defer h.Dispose()

	g, gctx := errgroup.WithContext(ctx)
	scriptCtx, scriptDone := context.WithCancel(gctx)
	defer scriptDone()

	if cfg.MetricsAddr != "" {
		handler, _, err := metrics.New(metrics.Options{
			Collectors: []prometheus.Collector{collector},
			Health: func(context.Context) error {
				if countries.Len() == 0 {
					return errs.Unavailable("country catalog is empty")
				}
				return nil
			},
		})
		if err != nil {
			return err
		}
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}

		g.Go(func() error {
			log.Infow("metrics listening", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-scriptCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warnw("metrics graceful stop failed; forcing", "error", err)
				_ = srv.Close()
			}
			return nil
		})
	}

	g.Go(func() error {
		defer scriptDone()

		detectCtx, cancel := context.WithTimeout(scriptCtx, startupTimeout)
		h.DetectCountry(detectCtx, detector, cfg.ClientIP)
		cancel()

		sessLog := log.FromContext(logger.ContextWithFormID(scriptCtx, ctrl.ID()))
		sess := newSession(h, phone, email, submit, out, sessLog)
		if err := sess.Run(scriptCtx, in); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	return g.Wait()
}

func loadCountries(ctx context.Context, cfg config.Config, log logger.LoggerInterface) (*geo.Catalog, error) {
	if !cfg.PostgresEnabled() {
		return geo.Builtin(), nil
	}

	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	db, err := catalog.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	countries, err := catalog.Load(ctx, db)
	if err != nil {
		return nil, err
	}
	log.Infow("country catalog loaded", "countries", countries.Len())
	return countries, nil
}

// buildDetector returns a nil detector when detection is off; the form then
// selects the first country.
func buildDetector(ctx context.Context, cfg config.Config, log logger.LoggerInterface) (form.CountryDetector, func(), error) {
	noop := func() {}
	if !cfg.Form.DetectCountry {
		return nil, noop, nil
	}

	httpDetector, err := geoip.NewHTTPDetector(cfg.GeoIP)
	if err != nil {
		return nil, noop, err
	}
	if !cfg.RedisEnabled() {
		return httpDetector, noop, nil
	}

	rdb, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Warnw("detection cache unavailable, detecting without it", "error", err)
		return httpDetector, noop, nil
	}
	cached := geoip.NewCachedDetector(httpDetector, geoip.NewRedisCache(rdb, cfg.Redis.KeyPrefix(), cfg.GeoIP.CacheTTL), log)
	return cached, func() { _ = rdb.Close() }, nil
}
