package transports

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"

	"github.com/cruxstack/find-my-rep-go/internal/config"
	"github.com/cruxstack/find-my-rep-go/internal/types"
)

// HTTPAPITransport sends letters through the Resend email API.
type HTTPAPITransport struct {
	Client   *rest.Client
	Endpoint string
	APIKey   string
}

type httpAPIPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	ReplyTo string `json:"reply_to"`
}

func NewHTTPAPITransport(cfg *config.Config) *HTTPAPITransport {
	endpoint := cfg.ResendApiUrl
	if endpoint == "" {
		endpoint = config.DefaultResendAPIURL
	}

	return &HTTPAPITransport{
		Client:   &rest.Client{HTTPClient: cfg.HTTPClient()},
		Endpoint: endpoint,
		APIKey:   cfg.ResendApiKey,
	}
}

func (t *HTTPAPITransport) Name() string {
	return config.TransportResend
}

func (t *HTTPAPITransport) Send(ctx context.Context, from, to, subject, body string) types.SendResult {
	if t.APIKey == "" {
		return types.Failed("Resend API key not configured.")
	}

	payload, err := json.Marshal(httpAPIPayload{
		From:    from,
		To:      to,
		Subject: subject,
		Text:    body,
		ReplyTo: from,
	})
	if err != nil {
		return types.Failed(fmt.Sprintf("failed to encode request: %v", err))
	}

	request := sendgrid.GetRequest(t.APIKey, "", t.Endpoint)
	request.Method = rest.Post
	request.Headers["Content-Type"] = "application/json"
	request.Body = payload

	response, err := t.Client.SendWithContext(ctx, request)
	if err != nil {
		slog.WarnContext(ctx, "resend request failed", "error", err, "to", to)
		return types.Failed(err.Error())
	}

	if response.StatusCode != http.StatusOK {
		return types.Failed(fmt.Sprintf("Resend API error (HTTP %d): %s", response.StatusCode, response.Body))
	}

	return types.Sent("Email sent successfully via Resend.")
}
