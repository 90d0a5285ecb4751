package form

import "github.com/vortex-fintech/contactform/geo"

// State is the settled validity of the form. It is always replaced as a
// whole; IsValid is PhoneValid && EmailValid.
type State struct {
	PhoneValid bool `json:"phone_valid"`
	EmailValid bool `json:"email_valid"`
	IsValid    bool `json:"is_valid"`
}

// Selection is the outcome of picking a country.
type Selection struct {
	Country    geo.Country
	DialPrefix string
	Flag       string
}

// Submission carries normalized values ready to be sent. It is only
// produced for a valid form.
type Submission struct {
	Country string `json:"country,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}
