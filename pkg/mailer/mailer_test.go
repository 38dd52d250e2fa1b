package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	_, err := New(Config{Username: "u", Password: "p"})
	assert.Error(t, err, "missing sender")

	_, err = New(Config{Sender: "noreply@example.com"})
	assert.Error(t, err, "missing credentials")

	m, err := New(Config{Username: "u", Password: "p", Sender: "noreply@example.com"})
	require.NoError(t, err)
	assert.Equal(t, defaultAddr, m.addr)
	assert.Equal(t, "smtp.mailtrap.io", m.host)
}

func TestNewCustomAddr(t *testing.T) {
	m, err := New(Config{Addr: "mail.internal:587", Username: "u", Password: "p", Sender: "s@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "mail.internal", m.host)
}

func TestSendValidation(t *testing.T) {
	m, err := New(Config{Username: "u", Password: "p", Sender: "s@example.com"})
	require.NoError(t, err)

	assert.Error(t, m.Send("", "subject", "body"))
	assert.Error(t, m.Send("r@example.com", "", "body"))
}
