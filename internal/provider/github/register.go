package github

import (
	"context"

	"github.com/localcc/autoupdater/internal/provider"
)

// Info describes the GitHub provider.
func Info() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        providerName,
		Description: "GitHub and GitHub Enterprise releases",
		Hosts:       []string{"github.com"},
		Priority:    10,
	}
}

// New builds a GitHub source from provider settings.
func New(_ context.Context, s provider.Settings) (provider.Source, error) {
	opts := []Option{WithHTTPClient(s.HTTPClient)}
	if s.Token != "" {
		opts = append(opts, WithToken(s.Token))
	}
	if s.BaseURL != "" {
		opts = append(opts, WithBaseURL(s.BaseURL))
	}

	c, err := NewClient(s.Owner, s.Repo, opts...)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Register adds the GitHub provider to the registry.
func Register(r *provider.Registry) {
	_ = r.Register(Info(), New)
}
