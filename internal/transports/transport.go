package transports

import (
	"context"
	"fmt"

	"github.com/cruxstack/find-my-rep-go/internal/config"
	"github.com/cruxstack/find-my-rep-go/internal/types"
)

// Transport delivers one rendered letter to one recipient. Implementations
// never return errors; every failure is reported through the SendResult.
type Transport interface {
	Name() string
	Send(ctx context.Context, from, to, subject, body string) types.SendResult
}

// New resolves the configured transport mode, ignoring case. Unknown modes
// produce a transport whose sends always fail.
func New(cfg *config.Config) Transport {
	switch cfg.TransportMode() {
	case config.TransportResend, "":
		return NewHTTPAPITransport(cfg)
	case config.TransportSMTP:
		return NewSMTPTransport(NewGomailMailer(cfg))
	case config.TransportTest:
		return NewLogFileTransport(cfg.AppTestLogDir)
	case config.TransportSendGrid:
		return NewSendGridTransport(cfg)
	case config.TransportSES:
		if cfg.AWSConfig == nil {
			return &failingTransport{name: config.TransportSES, message: "AWS configuration not loaded."}
		}
		return NewSESTransport(cfg)
	default:
		return &failingTransport{
			name:    cfg.AppTransport,
			message: fmt.Sprintf("Unknown transport mode: %s", cfg.AppTransport),
		}
	}
}

type failingTransport struct {
	name    string
	message string
}

func (t *failingTransport) Name() string {
	return t.name
}

func (t *failingTransport) Send(ctx context.Context, from, to, subject, body string) types.SendResult {
	return types.Failed(t.message)
}
