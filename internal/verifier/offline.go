package verifier

import (
	"context"
	"net/mail"
	"strings"
)

// OfflineEmailVerifier performs basic email address validation without
// external API calls. It validates the email format using RFC 5322 parsing.
type OfflineEmailVerifier struct{}

func (v *OfflineEmailVerifier) VerifyEmail(ctx context.Context, email string) (*EmailVerificationResult, error) {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != strings.TrimSpace(email) {
		return invalid(`{"error":"invalid email format"}`), nil
	}

	at := strings.LastIndex(addr.Address, "@")
	if at == -1 || at == len(addr.Address)-1 {
		return invalid(`{"error":"missing domain"}`), nil
	}

	domain := addr.Address[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return invalid(`{"error":"invalid domain"}`), nil
	}

	return &EmailVerificationResult{
		Score:   100.0,
		IsValid: true,
		Raw:     `{}`,
	}, nil
}

func invalid(raw string) *EmailVerificationResult {
	return &EmailVerificationResult{Score: 0, IsValid: false, Raw: raw}
}

func NewOfflineVerifier() *OfflineEmailVerifier {
	return &OfflineEmailVerifier{}
}
