package form

import (
	"context"
	stdErrors "errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortex-fintech/contactform/geo"
	"github.com/vortex-fintech/contactform/logger"
)

type stubDetector struct {
	mu     sync.Mutex
	code   string
	err    error
	calls  int
	during func()
}

func (d *stubDetector) Detect(ctx context.Context, ip string) (string, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	if d.during != nil {
		d.during()
	}
	return d.code, d.err
}

func (d *stubDetector) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func TestRegistry_FieldCannotBeShared(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	shared := NewTextField("")

	c1, err := New(Config{}, WithPhoneField(shared))
	require.NoError(t, err)
	c2, err := New(Config{}, WithPhoneField(shared), WithEmailField(NewTextField("")))
	require.NoError(t, err)

	h1, err := reg.Attach(c1)
	require.NoError(t, err)

	_, err = reg.Attach(c2)
	require.ErrorIs(t, err, ErrFieldInUse)
	assert.Equal(t, 1, reg.Active())

	h1.Dispose()
	h1.Dispose()
	assert.Equal(t, 0, reg.Active())

	h2, err := reg.Attach(c2)
	require.NoError(t, err)
	assert.Same(t, c2, h2.Controller())

	sel, ok := h2.SelectCountry(france)
	require.True(t, ok)
	assert.Equal(t, "+33 ", sel.DialPrefix)
	assert.Equal(t, "+33 ", shared.Value())
	assert.Equal(t, 1, reg.Active())
}

func TestRegistry_SameFieldForPhoneAndEmail(t *testing.T) {
	t.Parallel()

	f := NewTextField("")
	c, err := New(Config{}, WithPhoneField(f), WithEmailField(f))
	require.NoError(t, err)

	h, err := NewRegistry().Attach(c)
	require.NoError(t, err)
	h.Dispose()
}

func TestRegistry_NilController(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry().Attach(nil)
	require.Error(t, err)
}

func TestHandle_NoOpAfterDispose(t *testing.T) {
	t.Parallel()

	phone := NewTextField("")
	c, err := New(Config{MinDigits: 1}, WithPhoneField(phone), WithCountries(geo.Builtin()))
	require.NoError(t, err)

	h, err := NewRegistry().Attach(c)
	require.NoError(t, err)

	require.True(t, h.SelectFirst())
	phone.SetValue("+33 6")
	st := h.PhoneEdited()
	require.True(t, st.IsValid)

	h.Dispose()
	assert.True(t, h.Disposed())

	phone.SetValue("garbage")
	assert.Equal(t, st, h.PhoneEdited())
	assert.Equal(t, "garbage", phone.Value())
	assert.False(t, h.SelectByCode("US"))
	assert.False(t, h.SelectFirst())
	_, ok := h.SelectCountry(usa)
	assert.False(t, ok)
	assert.Equal(t, st, h.EmailEdited())
	assert.Equal(t, st, h.Recompute())
	assert.Equal(t, st, h.State())
}

func TestHandle_DetectCountry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		detect     bool
		detector   *stubDetector
		wantPrefix string
		wantResult string
	}{
		{name: "detected", detect: true, detector: &stubDetector{code: "us"}, wantPrefix: "+1 ", wantResult: DetectionDetected},
		{name: "failed", detect: true, detector: &stubDetector{err: stdErrors.New("timeout")}, wantPrefix: "+33 ", wantResult: DetectionFailed},
		{name: "unknown", detect: true, detector: &stubDetector{code: "ZZ"}, wantPrefix: "+33 ", wantResult: DetectionUnknown},
		{name: "disabled", detect: false, detector: &stubDetector{code: "us"}, wantPrefix: "+33 ", wantResult: DetectionSkipped},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			phone := NewTextField("")
			obs := &recordingObserver{}
			c, err := New(Config{DetectCountry: tc.detect},
				WithPhoneField(phone),
				WithCountries(geo.NewCatalog([]geo.Country{france, usa})),
				WithObserver(obs),
			)
			require.NoError(t, err)

			h, err := NewRegistry().Attach(c)
			require.NoError(t, err)

			h.DetectCountry(context.Background(), tc.detector, "203.0.113.7")
			h.DetectCountry(context.Background(), tc.detector, "203.0.113.7")

			assert.Equal(t, tc.wantPrefix, phone.Value())
			assert.Equal(t, []string{tc.wantResult}, obs.detections)
			if tc.detect {
				assert.Equal(t, 1, tc.detector.Calls())
			} else {
				assert.Zero(t, tc.detector.Calls())
			}
		})
	}
}

func TestHandle_DetectionLogsCarryContextIDs(t *testing.T) {
	t.Parallel()

	log, logs := observedLogger()
	c, err := New(Config{DetectCountry: true},
		WithPhoneField(NewTextField("")),
		WithCountries(geo.NewCatalog([]geo.Country{france, usa})),
		WithLogger(log),
		WithID("form-7"),
	)
	require.NoError(t, err)
	h, err := NewRegistry().Attach(c)
	require.NoError(t, err)

	ctx := logger.ContextWithSessionID(context.Background(), "sess-1")
	h.DetectCountry(ctx, &stubDetector{err: stdErrors.New("timeout")}, "203.0.113.7")

	entries := logs.FilterMessage("country detection failed, selecting first country").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "form-7", fields["form_id"])
	assert.Equal(t, "sess-1", fields["session_id"])
}

func TestHandle_DetectCountryNilDetector(t *testing.T) {
	t.Parallel()

	phone := NewTextField("")
	c, err := New(Config{DetectCountry: true}, WithPhoneField(phone), WithCountries(geo.Builtin()))
	require.NoError(t, err)
	h, err := NewRegistry().Attach(c)
	require.NoError(t, err)

	h.DetectCountry(context.Background(), nil, "")
	assert.Equal(t, "+33 ", phone.Value())
}

func TestHandle_DetectionAfterTeardownIsDiscarded(t *testing.T) {
	t.Parallel()

	phone := NewTextField("untouched")
	obs := &recordingObserver{}
	c, err := New(Config{DetectCountry: true},
		WithPhoneField(phone),
		WithCountries(geo.Builtin()),
		WithObserver(obs),
	)
	require.NoError(t, err)

	h, err := NewRegistry().Attach(c)
	require.NoError(t, err)

	d := &stubDetector{code: "US", during: h.Dispose}
	h.DetectCountry(context.Background(), d, "")

	assert.Equal(t, "untouched", phone.Value())
	assert.Equal(t, []string{DetectionDiscarded}, obs.detections)
}

func TestHandle_ConcurrentEvents(t *testing.T) {
	t.Parallel()

	phone := NewTextField("")
	email := NewTextField("a@b.co")
	c, err := New(Config{MinDigits: 1, AllowedChars: " "},
		WithPhoneField(phone),
		WithEmailField(email),
		WithCountries(geo.Builtin()),
	)
	require.NoError(t, err)
	h, err := NewRegistry().Attach(c)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				h.SelectByCode("FR")
				h.EmailEdited()
				h.Recompute()
			}
		}()
	}
	wg.Wait()

	st := h.State()
	assert.Equal(t, "+33 ", phone.Value())
	assert.False(t, st.PhoneValid)
	assert.True(t, st.EmailValid)
}
