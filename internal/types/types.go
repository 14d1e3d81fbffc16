package types

import "fmt"

// Representative is an elected official a letter can be sent to.
type Representative struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Title string `json:"title,omitempty"`
	Type  string `json:"type,omitempty"`
}

// SendResult is the outcome of a single delivery attempt.
type SendResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func Sent(msg string) SendResult {
	return SendResult{Success: true, Message: msg}
}

func Failed(msg string) SendResult {
	return SendResult{Success: false, Message: msg}
}

// DispatchOutcome aggregates the results of one batch of letters.
// len(Errors) is always TotalCount-SentCount.
type DispatchOutcome struct {
	SentCount  int      `json:"sent_count"`
	TotalCount int      `json:"total_count"`
	Errors     []string `json:"errors,omitempty"`
}

type DispatchStatus string

const (
	StatusComplete DispatchStatus = "complete"
	StatusPartial  DispatchStatus = "partial"
	StatusFailed   DispatchStatus = "failed"
)

// Status classifies the outcome. An empty batch counts as complete.
func (o DispatchOutcome) Status() DispatchStatus {
	switch {
	case o.SentCount == o.TotalCount:
		return StatusComplete
	case o.SentCount > 0:
		return StatusPartial
	default:
		return StatusFailed
	}
}

// Summary is the message shown to the visitor after a dispatch.
func (o DispatchOutcome) Summary() string {
	switch o.Status() {
	case StatusComplete:
		return fmt.Sprintf("Successfully sent %d letter(s).", o.SentCount)
	case StatusPartial:
		return fmt.Sprintf("Successfully sent %d of %d letter(s).", o.SentCount, o.TotalCount)
	default:
		return "Failed to send any letters."
	}
}
