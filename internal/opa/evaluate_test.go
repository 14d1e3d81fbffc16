package opa

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cruxstack/find-my-rep-go/internal/types"
)

type testPolicyOutput struct {
	IsAdmin bool `json:"isAdmin,omitempty"`
}

func TestEvaluate(t *testing.T) {
	policy := `
		package mock_policy
		result := {
			"isAdmin": input.user == "admin"
		}
	`

	ctx := context.Background()
	pp, err := PreparePolicy(ctx, policy, "data.mock_policy.result")
	if err != nil {
		t.Fatalf("failed to prepare policy: %v", err)
	}

	testCases := []struct {
		name     string
		data     map[string]any
		expected bool
	}{
		{name: "allow admin user", data: map[string]any{"user": "admin"}, expected: true},
		{name: "deny non-admin user", data: map[string]any{"user": "guest"}, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Evaluate[testPolicyOutput](ctx, pp, tc.data)
			if err != nil {
				t.Fatalf("failed to evaluate policy: %v", err)
			}
			if result.IsAdmin != tc.expected {
				t.Errorf("expected isAdmin=%v, got %v", tc.expected, result.IsAdmin)
			}
		})
	}
}

func TestPreparePolicy_InvalidRego(t *testing.T) {
	if _, err := PreparePolicy(context.Background(), "package broken\nresult := {", "data.broken.result"); err == nil {
		t.Error("expected compile error")
	}
}

func TestEvaluate_UndefinedResult(t *testing.T) {
	ctx := context.Background()
	pp, err := PreparePolicy(ctx, "package empty\n", "data.empty.result")
	if err != nil {
		t.Fatalf("failed to prepare policy: %v", err)
	}

	if _, err := Evaluate[testPolicyOutput](ctx, pp, map[string]any{}); err == nil {
		t.Error("expected error for undefined result")
	}
}

const letterPolicy = `
package findmyrep

blocked_domains := {"spam.example"}

default result := {"action": "allow"}

result := {"action": "deny", "reason": "Too many representatives selected."} if {
	count(input.representatives) > 3
}

result := {"action": "deny", "reason": "Sender address is not accepted."} if {
	count(input.representatives) <= 3
	some d in blocked_domains
	endswith(input.senderEmail, concat("", ["@", d]))
}
`

func TestLetterPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "letter.rego")
	if err := os.WriteFile(path, []byte(letterPolicy), 0o600); err != nil {
		t.Fatalf("failed to write policy: %v", err)
	}

	ctx := context.Background()
	p, err := LoadLetterPolicy(ctx, path)
	if err != nil {
		t.Fatalf("failed to load policy: %v", err)
	}

	reps := func(n int) []types.Representative {
		out := make([]types.Representative, n)
		for i := range out {
			out[i] = types.Representative{Name: "Rep", Email: "rep@example.com"}
		}
		return out
	}

	tests := []struct {
		name    string
		input   LetterPolicyInput
		allowed bool
		reason  string
	}{
		{
			name:    "allowed",
			input:   LetterPolicyInput{SenderEmail: "me@example.com", Representatives: reps(2)},
			allowed: true,
		},
		{
			name:   "too many representatives",
			input:  LetterPolicyInput{SenderEmail: "me@example.com", Representatives: reps(4)},
			reason: "Too many representatives selected.",
		},
		{
			name:   "blocked sender domain",
			input:  LetterPolicyInput{SenderEmail: "bot@spam.example", Representatives: reps(1)},
			reason: "Sender address is not accepted.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := p.Decide(ctx, tc.input)
			if err != nil {
				t.Fatalf("failed to decide: %v", err)
			}
			if d.Allowed() != tc.allowed {
				t.Errorf("expected allowed=%v, got %v", tc.allowed, d.Allowed())
			}
			if d.Reason != tc.reason {
				t.Errorf("expected reason %q, got %q", tc.reason, d.Reason)
			}
		})
	}
}

func TestLoadLetterPolicy_MissingFile(t *testing.T) {
	if _, err := LoadLetterPolicy(context.Background(), filepath.Join(t.TempDir(), "none.rego")); err == nil {
		t.Error("expected error for missing policy file")
	}
}

func TestLetterPolicy_Fixture(t *testing.T) {
	p, err := LoadLetterPolicy(context.Background(), filepath.Join("..", "..", "fixtures", "letter-policy.rego"))
	if err != nil {
		t.Fatalf("failed to load fixture policy: %v", err)
	}

	d, err := p.Decide(context.Background(), LetterPolicyInput{SenderEmail: "bot@mailinator.com"})
	if err != nil {
		t.Fatalf("failed to decide: %v", err)
	}
	if d.Allowed() {
		t.Error("expected disposable domain to be denied")
	}
}
