package gitlab

import (
	"context"

	"github.com/localcc/autoupdater/internal/provider"
)

// Info describes the GitLab provider.
func Info() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        providerName,
		Description: "GitLab.com and self-hosted GitLab releases",
		Hosts:       []string{"gitlab.com"},
	}
}

// New builds a GitLab source from provider settings.
func New(_ context.Context, s provider.Settings) (provider.Source, error) {
	opts := []Option{WithHTTPClient(s.HTTPClient)}
	if s.Token != "" {
		opts = append(opts, WithToken(s.Token))
	}
	if s.BaseURL != "" {
		opts = append(opts, WithBaseURL(s.BaseURL))
	}

	c, err := NewClient(s.Project, opts...)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Register adds the GitLab provider to the registry.
func Register(r *provider.Registry) {
	_ = r.Register(Info(), New)
}
