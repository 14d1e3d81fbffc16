package sender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	awsinternal "github.com/cruxstack/find-my-rep-go/internal/aws"
	"github.com/cruxstack/find-my-rep-go/internal/config"
	"github.com/cruxstack/find-my-rep-go/internal/opa"
	"github.com/cruxstack/find-my-rep-go/internal/transports"
	"github.com/cruxstack/find-my-rep-go/internal/types"
	"github.com/cruxstack/find-my-rep-go/internal/verifier"
)

const (
	msgFillAllFields   = "Please fill in all fields."
	msgInvalidEmail    = "Please enter a valid email address."
	msgInvalidReps     = "Invalid representatives data."
	msgLetterNotAccept = "Your letter could not be accepted."
)

// Sender checks a submitted letter and dispatches it through the configured
// transport.
type Sender struct {
	Transport transports.Transport
	Verifier  verifier.EmailVerifier
	Policy    *opa.LetterPolicy

	validate *validator.Validate
}

func New(t transports.Transport, v verifier.EmailVerifier, p *opa.LetterPolicy) *Sender {
	return &Sender{
		Transport: t,
		Verifier:  v,
		Policy:    p,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// NewSender wires a Sender from configuration, loading AWS and decrypting
// secrets when the configuration asks for it.
func NewSender(ctx context.Context, cfg *config.Config) (*Sender, error) {
	if cfg.NeedsAWS() {
		if err := cfg.LoadAWS(ctx); err != nil {
			return nil, err
		}
	}

	if cfg.AppSecretsEncrypted {
		kms := awsinternal.NewKMSClient(*cfg.AWSConfig)
		if err := cfg.ResolveSecrets(ctx, kms); err != nil {
			return nil, err
		}
	}

	v, err := verifier.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init email verifier: %w", err)
	}

	var p *opa.LetterPolicy
	if cfg.AppPolicyPath != "" {
		p, err = opa.LoadLetterPolicy(ctx, cfg.AppPolicyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load letter policy: %w", err)
		}
	}

	t := transports.New(cfg)
	slog.InfoContext(ctx, "letter sender ready", "transport", t.Name(), "policy", cfg.AppPolicyPath != "")

	return New(t, v, p), nil
}

// SendLetter validates the request and dispatches it. Rejections come back
// as *RequestError; delivery failures are reported in the outcome only.
func (s *Sender) SendLetter(ctx context.Context, req LetterRequest) (types.DispatchOutcome, error) {
	req.SenderName = SanitizeText(req.SenderName)
	req.SenderEmail = strings.TrimSpace(req.SenderEmail)
	req.LetterContent = SanitizeText(req.LetterContent)

	if err := s.validateRequest(req); err != nil {
		return types.DispatchOutcome{}, err
	}

	if s.Verifier != nil {
		res, err := s.Verifier.VerifyEmail(ctx, req.SenderEmail)
		if err != nil {
			slog.WarnContext(ctx, "sender email verification unavailable", "error", err)
		} else if !res.IsValid {
			return types.DispatchOutcome{}, &RequestError{Message: msgInvalidEmail}
		}
	}

	if s.Policy != nil {
		decision, err := s.Policy.Decide(ctx, opa.LetterPolicyInput{
			SenderName:      req.SenderName,
			SenderEmail:     req.SenderEmail,
			LetterLength:    len(req.LetterContent),
			Representatives: req.Representatives,
			Transport:       s.Transport.Name(),
		})
		if err != nil {
			return types.DispatchOutcome{}, fmt.Errorf("failed to evaluate letter policy: %w", err)
		}
		if !decision.Allowed() {
			msg := decision.Reason
			if msg == "" {
				msg = msgLetterNotAccept
			}
			slog.InfoContext(ctx, "letter denied by policy", "reason", decision.Reason)
			return types.DispatchOutcome{}, &RequestError{Message: msg}
		}
	}

	return Dispatch(ctx, req.SenderEmail, req.Representatives, req.LetterContent, s.Transport), nil
}

func (s *Sender) validateRequest(req LetterRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestError{Message: msgFillAllFields, Err: err}
	}

	missing, badEmail, badReps := false, false, false
	for _, fe := range verrs {
		switch {
		case strings.Contains(fe.Namespace(), "Representatives"):
			badReps = true
		case fe.StructField() == "SenderEmail" && fe.Tag() == "email":
			badEmail = true
		default:
			missing = true
		}
	}

	switch {
	case missing:
		return &RequestError{Message: msgFillAllFields, Err: err}
	case badEmail:
		return &RequestError{Message: msgInvalidEmail, Err: err}
	case badReps:
		return &RequestError{Message: msgInvalidReps, Err: err}
	}

	return &RequestError{Message: msgFillAllFields, Err: err}
}
