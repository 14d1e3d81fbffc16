package transports

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/cruxstack/find-my-rep-go/internal/config"
	"github.com/cruxstack/find-my-rep-go/internal/types"
)

type SendGridTransport struct {
	Client  *rest.Client
	APIHost string
	APIKey  string
}

func NewSendGridTransport(cfg *config.Config) *SendGridTransport {
	return &SendGridTransport{
		Client:  &rest.Client{HTTPClient: cfg.HTTPClient()},
		APIHost: cfg.SendGridApiHost,
		APIKey:  cfg.SendGridEmailSendApiKey,
	}
}

func (t *SendGridTransport) Name() string {
	return config.TransportSendGrid
}

func (t *SendGridTransport) Send(ctx context.Context, from, to, subject, body string) types.SendResult {
	if t.APIKey == "" {
		return types.Failed("SendGrid API key not configured.")
	}

	srcName, srcAddr := ParseNameAddr(from)
	_, dstAddr := ParseNameAddr(to)

	sender := mail.NewEmail(srcName, srcAddr)
	msg := mail.NewV3Mail()
	msg.SetFrom(sender)
	msg.SetReplyTo(sender)
	msg.Subject = subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", dstAddr))
	msg.AddPersonalizations(p)
	msg.AddContent(mail.NewContent("text/plain", body))

	request := sendgrid.GetRequest(t.APIKey, "/v3/mail/send", t.APIHost)
	request.Method = rest.Post
	request.Body = mail.GetRequestBody(msg)

	response, err := t.Client.SendWithContext(ctx, request)
	if err != nil {
		slog.WarnContext(ctx, "sendgrid request failed", "error", err, "to", dstAddr)
		return types.Failed(fmt.Sprintf("sendgrid api error: %v", err))
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return types.Failed(fmt.Sprintf("SendGrid API error (HTTP %d): %s", response.StatusCode, response.Body))
	}

	return types.Sent("Email sent successfully via SendGrid.")
}
