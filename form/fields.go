package form

// PhoneField is the phone input owned by the UI layer.
type PhoneField interface {
	Value() string
	SetValue(string)
	// SetDialPrefix records the current prefix on the field, e.g. as a data
	// attribute the UI reads back.
	SetDialPrefix(string)
}

// EmailField is the e-mail input owned by the UI layer.
type EmailField interface {
	Value() string
}

// Marker receives the error/success presentation of one field.
type Marker interface {
	SetError(bool)
	SetSuccess(bool)
}

type SubmitControl interface {
	SetDisabled(bool)
}

type FlagDisplay interface {
	SetFlag(string)
}

// TextField is an in-memory PhoneField and EmailField.
type TextField struct {
	value  string
	prefix string
}

func NewTextField(value string) *TextField { return &TextField{value: value} }

func (f *TextField) Value() string          { return f.value }
func (f *TextField) SetValue(v string)      { f.value = v }
func (f *TextField) SetDialPrefix(p string) { f.prefix = p }
func (f *TextField) DialPrefix() string     { return f.prefix }

// Indicators is an in-memory Marker, SubmitControl and FlagDisplay.
type Indicators struct {
	Error    bool
	Success  bool
	Disabled bool
	Flag     string
}

func (i *Indicators) SetError(v bool)    { i.Error = v }
func (i *Indicators) SetSuccess(v bool)  { i.Success = v }
func (i *Indicators) SetDisabled(v bool) { i.Disabled = v }
func (i *Indicators) SetFlag(f string)   { i.Flag = f }
