package form

import (
	"strings"

	"github.com/google/uuid"

	"github.com/vortex-fintech/contactform/contactutil"
	"github.com/vortex-fintech/contactform/geo"
	"github.com/vortex-fintech/contactform/logger"
	"github.com/vortex-fintech/contactform/piiutil"
)

// Controller keeps a phone field, an e-mail field and the derived State in
// sync. It is not safe for concurrent use; Handle serializes access when
// events come from more than one goroutine.
type Controller struct {
	id     string
	cfg    Config
	policy contactutil.PhonePolicy

	phone      PhoneField
	email      EmailField
	phoneMarks Marker
	emailMarks Marker
	submit     SubmitControl
	flag       FlagDisplay
	countries  *geo.Catalog

	base logger.LoggerInterface
	log  logger.LoggerInterface
	obs  Observer

	prefix   string
	selected geo.Country
	state    State
}

type Option func(*Controller)

// WithPhoneField binds the phone input. Without it the phone is always valid.
func WithPhoneField(f PhoneField) Option { return func(c *Controller) { c.phone = f } }

// WithEmailField binds the e-mail input. Without it the e-mail is always valid.
func WithEmailField(f EmailField) Option { return func(c *Controller) { c.email = f } }

func WithPhoneMarker(m Marker) Option       { return func(c *Controller) { c.phoneMarks = m } }
func WithEmailMarker(m Marker) Option       { return func(c *Controller) { c.emailMarks = m } }
func WithSubmit(s SubmitControl) Option     { return func(c *Controller) { c.submit = s } }
func WithFlagDisplay(f FlagDisplay) Option  { return func(c *Controller) { c.flag = f } }
func WithCountries(cat *geo.Catalog) Option { return func(c *Controller) { c.countries = cat } }
func WithObserver(o Observer) Option        { return func(c *Controller) { c.obs = o } }
func WithLogger(l logger.LoggerInterface) Option {
	return func(c *Controller) { c.log = l }
}

// WithID overrides the generated controller id used in logs and metrics.
func WithID(id string) Option { return func(c *Controller) { c.id = id } }

// New validates cfg and builds a Controller. The only error it returns is
// an errs.ErrorResponse for an invalid Config; missing fields are allowed.
func New(cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:    cfg,
		policy: cfg.phonePolicy(),
		log:    logger.Nop(),
		obs:    nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.id == "" {
		c.id = newID()
	}
	if c.obs == nil {
		c.obs = nopObserver{}
	}
	if c.log == nil {
		c.log = logger.Nop()
	}
	c.base = c.log
	c.log = c.log.With("form_id", c.id)

	return c, nil
}

func (c *Controller) ID() string { return c.id }

func (c *Controller) Config() Config { return c.cfg }

// State returns a copy of the last settled state.
func (c *Controller) State() State { return c.state }

// DialPrefix is the prefix the phone field must start with.
func (c *Controller) DialPrefix() string { return c.prefix }

// Selected returns the last selected country.
func (c *Controller) Selected() (geo.Country, bool) {
	return c.selected, c.selected.ISO2 != ""
}

// PhoneEdited handles an edit of the phone field. A value that lost the dial
// prefix is reset to the bare prefix; otherwise the user portion is
// sanitized and written back. Both paths end with a recompute.
func (c *Controller) PhoneEdited() State {
	if c.phone == nil {
		return c.Recompute()
	}

	value := c.phone.Value()
	if !strings.HasPrefix(value, c.prefix) {
		c.phone.SetValue(c.prefix)
		c.obs.PrefixReset()
		c.log.Debugw("phone prefix lost, field reset", "prefix", c.prefix)
		return c.Recompute()
	}

	portion := value[len(c.prefix):]
	clean := contactutil.SanitizePhone(portion, c.policy)
	c.phone.SetValue(c.prefix + clean)

	changed := clean != portion
	c.obs.PhoneSanitized(changed)
	if changed {
		c.log.Debugw("phone sanitized", "value", piiutil.MaskPhone(c.prefix, clean))
	}

	return c.Recompute()
}

// EmailEdited handles an edit of the e-mail field. The field markers follow
// the trimmed value; the overall state is then recomputed from the raw text
// unless Config.TrimEmailOnRecompute is set.
func (c *Controller) EmailEdited() State {
	if c.email != nil {
		value := c.email.Value()
		valid := emailEditValid(value)
		c.log.Debugw("email edited", "value", piiutil.MaskEmail(value), "valid", valid)
		setMarker(c.emailMarks, valid)
	}
	return c.Recompute()
}

// emailEditValid is the check used for the e-mail field markers.
func emailEditValid(text string) bool {
	return contactutil.IsValidEmail(strings.TrimSpace(text))
}

// SelectCountry replaces the phone field with the country's dial prefix,
// dropping whatever the user had typed, and recomputes. Selecting the same
// country again yields the same field value and state.
func (c *Controller) SelectCountry(country geo.Country) Selection {
	sel := Selection{
		Country:    country,
		DialPrefix: geo.DialPrefix(country),
		Flag:       country.Flag,
	}

	c.prefix = sel.DialPrefix
	c.selected = country
	if c.phone != nil {
		c.phone.SetValue(sel.DialPrefix)
		c.phone.SetDialPrefix(sel.DialPrefix)
	}
	if c.flag != nil {
		c.flag.SetFlag(sel.Flag)
	}

	c.obs.CountrySelected(country.ISO2)
	c.log.Debugw("country selected", "country", country.ISO2, "prefix", sel.DialPrefix)

	c.Recompute()
	return sel
}

// SelectByCode selects the catalog entry for a two-letter code. It reports
// false, changing nothing, when there is no catalog or no such country.
func (c *Controller) SelectByCode(code string) bool {
	country, ok := c.countries.ByCode(code)
	if !ok {
		return false
	}
	c.SelectCountry(country)
	return true
}

// SelectFirst selects the first catalog entry. It reports false, changing
// nothing, when the catalog is absent or empty.
func (c *Controller) SelectFirst() bool {
	country, ok := c.countries.First()
	if !ok {
		return false
	}
	c.SelectCountry(country)
	return true
}

// Recompute derives the whole State from the current field contents, pushes
// it to the markers and the submit control, and returns a copy.
func (c *Controller) Recompute() State {
	phoneValid := true
	if c.phone != nil {
		phoneValid = contactutil.CountDigits(c.userPortion()) >= c.cfg.MinDigits
		setMarker(c.phoneMarks, phoneValid)
	}

	emailValid := true
	if c.email != nil {
		raw := c.email.Value()
		if c.cfg.TrimEmailOnRecompute {
			raw = strings.TrimSpace(raw)
		}
		emailValid = contactutil.IsValidEmail(raw)
	}

	c.state = State{
		PhoneValid: phoneValid,
		EmailValid: emailValid,
		IsValid:    phoneValid && emailValid,
	}

	if c.cfg.DisableSubmit && c.submit != nil {
		c.submit.SetDisabled(!c.state.IsValid)
	}

	c.obs.Recomputed(c.state)
	return c.state
}

// Submission returns the normalized values of a valid form.
func (c *Controller) Submission() (Submission, bool) {
	if !c.state.IsValid {
		return Submission{}, false
	}

	s := Submission{Country: c.selected.ISO2}
	if c.phone != nil {
		s.Phone = contactutil.CompactPhone(c.prefix, c.userPortion())
	}
	if c.email != nil {
		s.Email = contactutil.NormalizeEmail(c.email.Value())
	}
	return s, true
}

// userPortion is the phone text after the dial prefix, or "" when the field
// does not currently carry the prefix.
func (c *Controller) userPortion() string {
	value := c.phone.Value()
	if !strings.HasPrefix(value, c.prefix) {
		return ""
	}
	return value[len(c.prefix):]
}

func setMarker(m Marker, valid bool) {
	if m == nil {
		return
	}
	m.SetError(!valid)
	m.SetSuccess(valid)
}

// newID returns a time-ordered v7 id, or a random one if v7 fails.
func newID() string {
	if u, err := uuid.NewV7(); err == nil {
		return u.String()
	}
	return uuid.NewString()
}
