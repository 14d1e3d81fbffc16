package opa

import (
	"context"

	"github.com/cruxstack/find-my-rep-go/internal/types"
)

const LetterPolicyQuery = "data.findmyrep.result"

// LetterPolicyInput is what a letter policy sees for each submission.
type LetterPolicyInput struct {
	SenderName      string                 `json:"senderName"`
	SenderEmail     string                 `json:"senderEmail"`
	LetterLength    int                    `json:"letterLength"`
	Representatives []types.Representative `json:"representatives"`
	Transport       string                 `json:"transport"`
}

// LetterDecision is the shape policies must produce.
type LetterDecision struct {
	Action string `json:"action"`
	Reason string `json:"reason,omitempty"`
}

func (d *LetterDecision) Allowed() bool {
	return d != nil && d.Action == "allow"
}

// LetterPolicy decides whether a submitted letter may be dispatched.
type LetterPolicy struct {
	pp *PreparedPolicy
}

// LoadLetterPolicy reads and compiles the rego module at path.
func LoadLetterPolicy(ctx context.Context, path string) (*LetterPolicy, error) {
	src, err := ReadPolicy(path)
	if err != nil {
		return nil, err
	}
	return NewLetterPolicy(ctx, src)
}

func NewLetterPolicy(ctx context.Context, src string) (*LetterPolicy, error) {
	pp, err := PreparePolicy(ctx, src, LetterPolicyQuery)
	if err != nil {
		return nil, err
	}
	return &LetterPolicy{pp: pp}, nil
}

func (p *LetterPolicy) Decide(ctx context.Context, in LetterPolicyInput) (*LetterDecision, error) {
	return Evaluate[LetterDecision](ctx, p.pp, in)
}
