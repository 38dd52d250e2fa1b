// Package mailer sends notification email over SMTP. The default server is
// Mailtrap, which is what development and staging environments use.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

const defaultAddr = "smtp.mailtrap.io:2525"

// Mailer sends email through a single configured SMTP account.
type Mailer struct {
	addr     string
	host     string
	username string
	password string
	sender   string
}

// Config contains options for creating a Mailer. Addr defaults to the
// Mailtrap SMTP endpoint when empty.
type Config struct {
	Addr     string
	Username string
	Password string
	Sender   string
}

// New creates a Mailer. Username, Password and Sender are required.
func New(cfg Config) (*Mailer, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("SMTP username and password must be provided")
	}
	if cfg.Sender == "" {
		return nil, fmt.Errorf("sender email address cannot be empty")
	}
	addr := cfg.Addr
	if addr == "" {
		addr = defaultAddr
	}
	host := addr
	if i := strings.IndexByte(addr, ':'); i >= 0 {
		host = addr[:i]
	}
	return &Mailer{
		addr:     addr,
		host:     host,
		username: cfg.Username,
		password: cfg.Password,
		sender:   cfg.Sender,
	}, nil
}

// Send delivers one message. The Content-Type is inferred from the body:
// anything containing basic HTML tags is sent as text/html.
func (m *Mailer) Send(recipient, subject, body string) error {
	if recipient == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}

	contentType := "text/plain; charset=UTF-8"
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") {
		contentType = "text/html; charset=UTF-8"
	}

	message := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", recipient, m.sender, subject, contentType, body))

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := smtp.SendMail(m.addr, auth, m.sender, []string{recipient}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
