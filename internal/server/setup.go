package server

import (
	"context"
	"fmt"

	"github.com/cruxstack/find-my-rep-go/internal/config"
	"github.com/cruxstack/find-my-rep-go/internal/lookup"
	"github.com/cruxstack/find-my-rep-go/internal/sender"
	"github.com/cruxstack/find-my-rep-go/internal/templates"
)

// NewFromConfig builds the sender, lookup client and letter template
// described by cfg.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Server, error) {
	s, err := sender.NewSender(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tmpl, err := templates.Load(cfg.AppLetterTemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load letter template: %w", err)
	}

	return New(s, lookup.NewClient(cfg.AppLookupApiUrl, cfg.HTTPClient()), tmpl), nil
}
