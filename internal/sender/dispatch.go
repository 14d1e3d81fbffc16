package sender

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cruxstack/find-my-rep-go/internal/metrics"
	"github.com/cruxstack/find-my-rep-go/internal/templates"
	"github.com/cruxstack/find-my-rep-go/internal/transports"
	"github.com/cruxstack/find-my-rep-go/internal/types"
)

const Subject = "Letter from constituent"

// Dispatch renders and sends one letter per representative, in order, and
// reports how many were delivered. A failed send never stops the batch.
func Dispatch(ctx context.Context, senderEmail string, reps []types.Representative, letterTemplate string, t transports.Transport) types.DispatchOutcome {
	start := time.Now()
	batchID := uuid.NewString()
	outcome := types.DispatchOutcome{TotalCount: len(reps)}

	for _, rep := range reps {
		body := templates.Render(letterTemplate, templates.PlaceholdersFor(rep))
		result := t.Send(ctx, senderEmail, rep.Email, Subject, body)

		if result.Success {
			outcome.SentCount++
			metrics.LettersSent.WithLabelValues(t.Name()).Inc()
			slog.DebugContext(ctx, "letter sent", "batch_id", batchID, "transport", t.Name(), "to", rep.Email)
			continue
		}

		outcome.Errors = append(outcome.Errors, fmt.Sprintf("Failed to send to %s: %s", rep.Name, result.Message))
		metrics.LettersFailed.WithLabelValues(t.Name()).Inc()
		slog.WarnContext(ctx, "letter not sent",
			"batch_id", batchID,
			"transport", t.Name(),
			"to", rep.Email,
			"reason", result.Message,
		)
	}

	status := outcome.Status()
	metrics.Dispatches.WithLabelValues(string(status)).Inc()
	metrics.DispatchDuration.Observe(time.Since(start).Seconds())

	slog.InfoContext(ctx, "dispatch finished",
		"batch_id", batchID,
		"transport", t.Name(),
		"status", status,
		"sent", outcome.SentCount,
		"total", outcome.TotalCount,
	)

	return outcome
}
