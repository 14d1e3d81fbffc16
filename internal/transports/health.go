package transports

import "context"

// HealthChecker is an optional interface that transports can implement
// to report whether they are currently able to deliver letters.
type HealthChecker interface {
	// IsHealthy returns true if the transport is healthy and able to send emails.
	// Implementations should cache the result to avoid excessive API calls.
	IsHealthy(ctx context.Context) bool
}
