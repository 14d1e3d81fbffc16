package transports

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/cruxstack/find-my-rep-go/internal/config"
)

// GomailMailer delivers plain text messages to an SMTP server, normally the
// MTA on localhost.
type GomailMailer struct {
	Dialer *gomail.Dialer
}

// NewGomailMailer dials the configured SMTP server. With SMTPTLSSkipVerify
// set, STARTTLS accepts the server's certificate as-is, which suits a local
// MTA running on a self-signed certificate.
func NewGomailMailer(cfg *config.Config) *GomailMailer {
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	if cfg.SMTPTLSSkipVerify {
		d.TLSConfig = &tls.Config{ServerName: cfg.SMTPHost, InsecureSkipVerify: true}
	}
	return &GomailMailer{Dialer: d}
}

func (m *GomailMailer) Mail(ctx context.Context, to, subject, body string, headers []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := NewGomailMessage(to, subject, body, headers)
	if err != nil {
		return err
	}

	if err := m.Dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp delivery failed: %w", err)
	}

	return nil
}

// NewGomailMessage builds a plain text message from raw "Name: value" headers.
func NewGomailMessage(to, subject, body string, headers []string) (*gomail.Message, error) {
	msg := gomail.NewMessage()
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)

	for _, h := range headers {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("malformed header: %q", h)
		}
		values := append(msg.GetHeader(name), strings.TrimSpace(value))
		msg.SetHeader(name, values...)
	}

	msg.SetBody("text/plain", body)

	return msg, nil
}
