package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortex-fintech/contactform/form"
	"github.com/vortex-fintech/contactform/geo"
	"github.com/vortex-fintech/contactform/logger"
)

func newTestSession(t *testing.T, cfg form.Config, out *bytes.Buffer) *session {
	t.Helper()

	phone, email, submit := form.NewTextField(""), form.NewTextField(""), &form.Indicators{}
	ctrl, err := form.New(cfg,
		form.WithPhoneField(phone),
		form.WithEmailField(email),
		form.WithSubmit(submit),
		form.WithCountries(geo.Builtin()),
	)
	require.NoError(t, err)

	h, err := form.NewRegistry().Attach(ctrl)
	require.NoError(t, err)
	t.Cleanup(h.Dispose)

	return newSession(h, phone, email, submit, out, logger.Nop())
}

func decode(t *testing.T, out *bytes.Buffer) []snapshot {
	t.Helper()
	var snaps []snapshot
	dec := json.NewDecoder(out)
	for dec.More() {
		var s snapshot
		require.NoError(t, dec.Decode(&s))
		snaps = append(snaps, s)
	}
	return snaps
}

func TestSession_Script(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(t, form.Config{MinDigits: 6, AllowedChars: " -", DisableSubmit: true}, &out)

	script := strings.Join([]string{
		"# pick France, type a number and an address",
		"country fr",
		"phone +33 6 12--34 56",
		"",
		"email Jean@Example.fr",
		"phone +3",
		"country ZZ",
		"bogus",
		"state",
	}, "\n")

	require.NoError(t, s.Run(context.Background(), strings.NewReader(script)))
	snaps := decode(t, &out)
	require.Len(t, snaps, 7)

	assert.Equal(t, "+33 ", snaps[0].Phone)
	assert.Equal(t, "FR", snaps[0].Country)
	assert.True(t, snaps[0].SubmitDisabled)

	assert.Equal(t, "+33 6 12-34 56", snaps[1].Phone)
	assert.True(t, snaps[1].State.PhoneValid)
	assert.False(t, snaps[1].State.IsValid)

	require.True(t, snaps[2].State.IsValid)
	assert.False(t, snaps[2].SubmitDisabled)
	require.NotNil(t, snaps[2].Submission)
	assert.Equal(t, form.Submission{Country: "FR", Phone: "+336123456", Email: "jean@example.fr"}, *snaps[2].Submission)

	assert.Equal(t, "+33 ", snaps[3].Phone, "prefix removed, field reset")
	assert.False(t, snaps[3].State.IsValid)
	assert.Nil(t, snaps[3].Submission)

	assert.Contains(t, snaps[4].Error, "unknown country")
	assert.Equal(t, "FR", snaps[4].Country)
	assert.Contains(t, snaps[5].Error, "unknown command")
	assert.Empty(t, snaps[6].Error)
}

func TestSession_EmailKeepsRawText(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(t, form.Config{}, &out)

	require.NoError(t, s.Exec("first"))
	require.NoError(t, s.Exec("email  a@b.co"))

	snaps := decode(t, &out)
	require.Len(t, snaps, 2)
	assert.Equal(t, " a@b.co", snaps[1].Email)
	assert.False(t, snaps[1].State.EmailValid, "overall validity uses the raw text")
}

func TestSession_StopsOnCancel(t *testing.T) {
	var out bytes.Buffer
	s := newTestSession(t, form.Config{}, &out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, w := io.Pipe()
	defer w.Close()

	err := s.Run(ctx, r)
	require.ErrorIs(t, err, context.Canceled)
}
