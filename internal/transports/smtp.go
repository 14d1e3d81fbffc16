package transports

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cruxstack/find-my-rep-go/internal/config"
	"github.com/cruxstack/find-my-rep-go/internal/types"
)

// Mailer hands a message to the local mail transfer agent.
type Mailer interface {
	Mail(ctx context.Context, to, subject, body string, headers []string) error
}

// SMTPTransport sends letters through a Mailer, adding the sender as
// Reply-To and From.
type SMTPTransport struct {
	Mailer  Mailer
	Headers []string
}

func NewSMTPTransport(m Mailer, headers ...string) *SMTPTransport {
	return &SMTPTransport{Mailer: m, Headers: headers}
}

func (t *SMTPTransport) Name() string {
	return config.TransportSMTP
}

func (t *SMTPTransport) Send(ctx context.Context, from, to, subject, body string) types.SendResult {
	headers := BuildHeaders(from, t.Headers)

	if err := t.Mailer.Mail(ctx, to, subject, body, headers); err != nil {
		slog.WarnContext(ctx, "smtp send failed", "error", err, "to", to)
		return types.Failed("Failed to send email via SMTP.")
	}

	return types.Sent("Email sent successfully via SMTP.")
}

// BuildHeaders returns a copy of headers with a Reply-To for from added
// unless one is already present, followed by a From header.
func BuildHeaders(from string, headers []string) []string {
	out := make([]string, 0, len(headers)+2)
	out = append(out, headers...)

	hasReplyTo := false
	for _, h := range headers {
		if strings.HasPrefix(strings.ToLower(h), "reply-to:") {
			hasReplyTo = true
			break
		}
	}

	if !hasReplyTo {
		out = append(out, "Reply-To: "+from)
	}

	return append(out, "From: "+from)
}
