package sender

import (
	"errors"

	"github.com/cruxstack/find-my-rep-go/internal/types"
)

// LetterRequest is a visitor's submitted letter.
type LetterRequest struct {
	SenderName      string                 `json:"sender_name" validate:"required"`
	SenderEmail     string                 `json:"sender_email" validate:"required,email"`
	LetterContent   string                 `json:"letter_content" validate:"required"`
	Representatives []types.Representative `json:"representatives" validate:"required,min=1,dive"`
}

// RequestError rejects a submission before anything is sent. Message is
// safe to show to the visitor.
type RequestError struct {
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsRequestError reports whether err rejected the submission itself.
func IsRequestError(err error) (*RequestError, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
