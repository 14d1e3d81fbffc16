package verifier

import (
	"context"
	"fmt"

	"github.com/cruxstack/find-my-rep-go/internal/config"
)

type EmailVerificationResult struct {
	Score        float32 `json:"score"`
	IsValid      bool    `json:"valid"`
	IsDisposable bool    `json:"disposable"`
	Raw          string  `json:"raw"`
}

// EmailVerifier checks a visitor supplied sender address.
type EmailVerifier interface {
	VerifyEmail(ctx context.Context, email string) (*EmailVerificationResult, error)
}

// New returns the configured verifier, or nil when verification is disabled.
func New(cfg *config.Config) (EmailVerifier, error) {
	if !cfg.AppEmailVerificationEnabled {
		return nil, nil
	}

	switch cfg.AppEmailVerificationProvider {
	case "", "offline":
		return NewOfflineVerifier(), nil
	case "sendgrid":
		return NewSendGridVerifier(cfg), nil
	default:
		return nil, fmt.Errorf("unknown email verification provider: %s", cfg.AppEmailVerificationProvider)
	}
}
