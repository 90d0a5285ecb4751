package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vortex-fintech/contactform/form"
	"github.com/vortex-fintech/contactform/logger"
)

// snapshot is printed after every command.
type snapshot struct {
	Phone          string           `json:"phone"`
	Email          string           `json:"email"`
	Country        string           `json:"country,omitempty"`
	State          form.State       `json:"state"`
	SubmitDisabled bool             `json:"submit_disabled"`
	Submission     *form.Submission `json:"submission,omitempty"`
	Error          string           `json:"error,omitempty"`
}

// session drives one form from a line-oriented script:
//
//	phone <text>    replace the phone field and deliver an edit
//	email <text>    replace the e-mail field and deliver an edit
//	country <ISO2>  select a country by code
//	first           select the first available country
//	state           print without changing anything
//
// Blank lines and lines starting with '#' are ignored.
type session struct {
	h      *form.Handle
	phone  *form.TextField
	email  *form.TextField
	submit *form.Indicators
	enc    *json.Encoder
	log    logger.LoggerInterface
}

func newSession(h *form.Handle, phone, email *form.TextField, submit *form.Indicators, out io.Writer, log logger.LoggerInterface) *session {
	return &session{h: h, phone: phone, email: email, submit: submit, enc: json.NewEncoder(out), log: log}
}

// Run executes lines from r until EOF or ctx is done.
func (s *session) Run(ctx context.Context, r io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return ctx.Err()
				}
			}
			if err := s.Exec(line); err != nil {
				return err
			}
		}
	}
}

// Exec runs one command and prints the resulting snapshot. Only output
// errors are returned; bad commands are reported in the snapshot.
func (s *session) Exec(line string) error {
	if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
		return nil
	}

	cmd, arg, _ := strings.Cut(line, " ")
	var cmdErr string

	switch strings.ToLower(cmd) {
	case "phone":
		s.phone.SetValue(arg)
		s.h.PhoneEdited()
	case "email":
		s.email.SetValue(arg)
		s.h.EmailEdited()
	case "country":
		if !s.h.SelectByCode(strings.TrimSpace(arg)) {
			cmdErr = fmt.Sprintf("unknown country %q", strings.TrimSpace(arg))
		}
	case "first":
		if !s.h.SelectFirst() {
			cmdErr = "no country available"
		}
	case "state":
	default:
		cmdErr = fmt.Sprintf("unknown command %q", cmd)
	}

	if cmdErr != "" {
		s.log.Debugw("script command rejected", "command", cmd, "error", cmdErr)
	}
	return s.enc.Encode(s.snapshot(cmdErr))
}

func (s *session) snapshot(cmdErr string) snapshot {
	snap := snapshot{
		Phone:          s.phone.Value(),
		Email:          s.email.Value(),
		State:          s.h.State(),
		SubmitDisabled: s.submit.Disabled,
		Error:          cmdErr,
	}
	if c, ok := s.h.Selected(); ok {
		snap.Country = c.ISO2
	}
	if sub, ok := s.h.Submission(); ok {
		snap.Submission = &sub
	}
	return snap
}
