package form

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"github.com/vortex-fintech/contactform/geo"
	"github.com/vortex-fintech/contactform/logger"
)

// ErrFieldInUse is returned by Registry.Attach when one of the controller's
// fields is already bound to a live handle.
var ErrFieldInUse = errors.New("form: field already bound to another controller")

// CountryDetector guesses the visitor's country as a two-letter code.
type CountryDetector interface {
	Detect(ctx context.Context, ip string) (string, error)
}

// Registry tracks which fields are bound to which controller. Attach and
// Dispose are the only way in and out; there is no implicit global state.
type Registry struct {
	mu      sync.Mutex
	fields  map[any]*Handle
	handles map[*Handle]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		fields:  make(map[any]*Handle),
		handles: make(map[*Handle]struct{}),
	}
}

// Attach binds c's fields and returns the handle through which all events
// for c must be delivered.
func (r *Registry) Attach(c *Controller) (*Handle, error) {
	if c == nil {
		return nil, errors.New("form: nil controller")
	}

	keys := fieldKeys(c)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range keys {
		if _, taken := r.fields[k]; taken {
			return nil, ErrFieldInUse
		}
	}

	h := &Handle{reg: r, ctrl: c, keys: keys}
	for _, k := range keys {
		r.fields[k] = h
	}
	r.handles[h] = struct{}{}

	c.log.Debugw("form attached")
	return h, nil
}

// Active returns the number of handles not yet disposed.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

func (r *Registry) release(h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range h.keys {
		if r.fields[k] == h {
			delete(r.fields, k)
		}
	}
	delete(r.handles, h)
}

// fieldKeys returns the bound fields usable as map keys. Fields of
// non-comparable dynamic types are not tracked.
func fieldKeys(c *Controller) []any {
	var keys []any
	for _, f := range []any{c.phone, c.email} {
		if f == nil || !reflect.TypeOf(f).Comparable() {
			continue
		}
		dup := false
		for _, k := range keys {
			if k == f {
				dup = true
			}
		}
		if !dup {
			keys = append(keys, f)
		}
	}
	return keys
}

// Handle is the disposable binding of one Controller. Its methods may be
// called from any goroutine; after Dispose they return the last state and
// change nothing.
type Handle struct {
	reg  *Registry
	ctrl *Controller
	keys []any

	mu       sync.Mutex
	disposed bool

	detectOnce sync.Once
}

func (h *Handle) Controller() *Controller { return h.ctrl }

// Dispose releases the fields. Calling it more than once is harmless.
func (h *Handle) Dispose() {
	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		return
	}
	h.disposed = true
	h.mu.Unlock()

	h.reg.release(h)
	h.ctrl.log.Debugw("form disposed")
}

func (h *Handle) Disposed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.disposed
}

func (h *Handle) PhoneEdited() State {
	return h.run(func(c *Controller) State { return c.PhoneEdited() })
}

func (h *Handle) EmailEdited() State {
	return h.run(func(c *Controller) State { return c.EmailEdited() })
}

func (h *Handle) Recompute() State {
	return h.run(func(c *Controller) State { return c.Recompute() })
}

func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ctrl.State()
}

func (h *Handle) Selected() (geo.Country, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ctrl.Selected()
}

func (h *Handle) Submission() (Submission, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ctrl.Submission()
}

// SelectCountry delivers a country pick. ok is false if the handle is
// disposed, in which case nothing changes.
func (h *Handle) SelectCountry(country geo.Country) (sel Selection, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.disposed {
		return Selection{}, false
	}
	return h.ctrl.SelectCountry(country), true
}

// SelectByCode delivers a select-by-code event; false if the code is
// unknown or the handle is disposed.
func (h *Handle) SelectByCode(code string) bool {
	return h.pick(func(c *Controller) bool { return c.SelectByCode(code) })
}

// SelectFirst delivers a select-first-available event; false if there is
// nothing to select or the handle is disposed.
func (h *Handle) SelectFirst() bool {
	return h.pick(func(c *Controller) bool { return c.SelectFirst() })
}

// DetectCountry runs country detection at most once per handle. It blocks
// on the detector; callers that do not want to wait run it in a goroutine.
// Failures and unknown codes fall back to the first available country and
// are only logged.
func (h *Handle) DetectCountry(ctx context.Context, d CountryDetector, ip string) {
	h.detectOnce.Do(func() { h.detect(ctx, d, ip) })
}

func (h *Handle) detect(ctx context.Context, d CountryDetector, ip string) {
	c := h.ctrl

	if !c.cfg.DetectCountry || d == nil {
		h.SelectFirst()
		c.obs.DetectionFinished(DetectionSkipped)
		return
	}

	ctx = logger.ContextWithFormID(ctx, c.id)
	log := c.base.FromContext(ctx)

	code, err := d.Detect(ctx, ip)
	if h.Disposed() {
		c.obs.DetectionFinished(DetectionDiscarded)
		return
	}
	if err != nil {
		log.Warnw("country detection failed, selecting first country", "error", err)
		h.SelectFirst()
		c.obs.DetectionFinished(DetectionFailed)
		return
	}
	if h.SelectByCode(code) {
		c.obs.DetectionFinished(DetectionDetected)
		return
	}
	if h.Disposed() {
		c.obs.DetectionFinished(DetectionDiscarded)
		return
	}

	log.Infow("detected country not in catalog, selecting first country", "country", code)
	h.SelectFirst()
	c.obs.DetectionFinished(DetectionUnknown)
}

func (h *Handle) run(fn func(*Controller) State) State {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.disposed {
		return h.ctrl.State()
	}
	return fn(h.ctrl)
}

func (h *Handle) pick(fn func(*Controller) bool) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.disposed {
		return false
	}
	return fn(h.ctrl)
}
