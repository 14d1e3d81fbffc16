package transports

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
)

// SESAccountAPI is the subset of the SESv2 client used for health checks.
type SESAccountAPI interface {
	GetAccount(ctx context.Context, in *sesv2.GetAccountInput, opts ...func(*sesv2.Options)) (*sesv2.GetAccountOutput, error)
}

// SESHealthChecker checks AWS SES account status to determine if sending is
// enabled. Results are cached for cacheTTL.
type SESHealthChecker struct {
	client   SESAccountAPI
	cacheTTL time.Duration

	mu            sync.RWMutex
	cachedHealthy bool
	cacheExpiry   time.Time
}

func NewSESHealthChecker(client SESAccountAPI, cacheTTL time.Duration) *SESHealthChecker {
	return &SESHealthChecker{
		client:   client,
		cacheTTL: cacheTTL,
	}
}

// IsHealthy returns true if SES sending is enabled for the account.
func (h *SESHealthChecker) IsHealthy(ctx context.Context) bool {
	h.mu.RLock()
	if time.Now().Before(h.cacheExpiry) {
		healthy := h.cachedHealthy
		h.mu.RUnlock()
		return healthy
	}
	h.mu.RUnlock()

	healthy := h.checkHealth(ctx)

	h.mu.Lock()
	h.cachedHealthy = healthy
	h.cacheExpiry = time.Now().Add(h.cacheTTL)
	h.mu.Unlock()

	return healthy
}

func (h *SESHealthChecker) checkHealth(ctx context.Context) bool {
	output, err := h.client.GetAccount(ctx, &sesv2.GetAccountInput{})
	if err != nil {
		slog.WarnContext(ctx, "ses health check failed", "error", err)
		return false
	}

	if !output.SendingEnabled {
		slog.WarnContext(ctx, "ses sending is disabled",
			"enforcement_status", safeString(output.EnforcementStatus),
			"production_access", output.ProductionAccessEnabled,
		)
		return false
	}

	return true
}

func safeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// InvalidateCache forces the next IsHealthy call to fetch fresh status.
func (h *SESHealthChecker) InvalidateCache() {
	h.mu.Lock()
	h.cacheExpiry = time.Time{}
	h.mu.Unlock()
}
