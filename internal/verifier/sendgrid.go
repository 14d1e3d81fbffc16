package verifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"

	"github.com/cruxstack/find-my-rep-go/internal/config"
)

type sendGridValidationRequest struct {
	Email  string `json:"email"`
	Source string `json:"source"`
}

type SendGridEmailAddressValidationResult struct {
	Email   string  `json:"email"`
	Verdict string  `json:"verdict"`
	Score   float32 `json:"score"`
	Checks  struct {
		Additional struct {
			HasKnownBounces     bool `json:"has_known_bounces"`
			HasSuspectedBounces bool `json:"has_suspected_bounces"`
		} `json:"additional"`
		Domain struct {
			IsSuspectedDisposableAddress bool `json:"is_suspected_disposable_address"`
		} `json:"domain"`
	} `json:"checks"`
}

type SendGridEmailAddressValidationResponse struct {
	Result SendGridEmailAddressValidationResult `json:"result"`
}

type SendGridEmailVerifier struct {
	Client  *rest.Client
	APIHost string
	APIKey  string
}

func (v *SendGridEmailVerifier) VerifyEmail(ctx context.Context, email string) (*EmailVerificationResult, error) {
	body, err := json.Marshal(sendGridValidationRequest{Email: email, Source: "find-my-rep"})
	if err != nil {
		return nil, fmt.Errorf("sendgrid marshal error: %w", err)
	}

	request := sendgrid.GetRequest(v.APIKey, "/v3/validations/email", v.APIHost)
	request.Method = rest.Post
	request.Body = body

	response, err := v.Client.SendWithContext(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("sendgrid api error: %w", err)
	}
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sendgrid api error: status=%d body=%s", response.StatusCode, response.Body)
	}

	var payload SendGridEmailAddressValidationResponse
	if err := json.Unmarshal([]byte(response.Body), &payload); err != nil {
		return nil, fmt.Errorf("sendgrid unmarshal error: %w", err)
	}

	result := payload.Result

	return &EmailVerificationResult{
		Score:        result.Score,
		IsValid:      result.Verdict != "Invalid",
		IsDisposable: result.Checks.Domain.IsSuspectedDisposableAddress,
		Raw:          response.Body,
	}, nil
}

func NewSendGridVerifier(cfg *config.Config) *SendGridEmailVerifier {
	return &SendGridEmailVerifier{
		Client:  &rest.Client{HTTPClient: cfg.HTTPClient()},
		APIHost: cfg.SendGridApiHost,
		APIKey:  cfg.SendGridEmailVerificationApiKey,
	}
}
