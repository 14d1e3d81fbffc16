package transports

import (
	"context"
	"fmt"
	"log/slog"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	awstypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/cruxstack/find-my-rep-go/internal/config"
	"github.com/cruxstack/find-my-rep-go/internal/types"
)

// SESAPI is the subset of the SES client used to send letters.
type SESAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, opts ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESTransport struct {
	Client SESAPI
	Health *SESHealthChecker
}

func NewSESTransport(cfg *config.Config) *SESTransport {
	return &SESTransport{
		Client: ses.NewFromConfig(*cfg.AWSConfig),
		Health: NewSESHealthChecker(sesv2.NewFromConfig(*cfg.AWSConfig), cfg.SESHealthCacheTTL),
	}
}

func (t *SESTransport) Name() string {
	return config.TransportSES
}

func (t *SESTransport) Send(ctx context.Context, from, to, subject, body string) types.SendResult {
	out, err := t.Client.SendEmail(ctx, &ses.SendEmailInput{
		Source:           awssdk.String(from),
		ReplyToAddresses: []string{from},
		Destination:      &awstypes.Destination{ToAddresses: []string{to}},
		Message: &awstypes.Message{
			Subject: &awstypes.Content{Data: awssdk.String(subject), Charset: awssdk.String("UTF-8")},
			Body: &awstypes.Body{
				Text: &awstypes.Content{Data: awssdk.String(body), Charset: awssdk.String("UTF-8")},
			},
		},
	})
	if err != nil {
		slog.WarnContext(ctx, "ses send failed", "error", err, "to", to)
		return types.Failed(fmt.Sprintf("SES error: %v", err))
	}

	slog.DebugContext(ctx, "ses send accepted", "message_id", safeString(out.MessageId))

	return types.Sent("Email sent successfully via SES.")
}

// IsHealthy reports whether SES sending is enabled for the account.
func (t *SESTransport) IsHealthy(ctx context.Context) bool {
	if t.Health == nil {
		return true
	}
	return t.Health.IsHealthy(ctx)
}
