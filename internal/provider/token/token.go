// Package token resolves API tokens for release backends.
package token

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"
)

// EnvPrefix prefixes the tool-specific token variable, AUTOUPDATER_{PROVIDER}_TOKEN.
const EnvPrefix = "AUTOUPDATER_"

// ErrNoToken is returned when no token can be resolved.
var ErrNoToken = errors.New("no token found")

// ResolverConfig defines the token sources for a provider.
type ResolverConfig struct {
	// ProviderName builds the AUTOUPDATER_{ProviderName}_TOKEN variable.
	// Should be in uppercase (e.g., "GITHUB", "GITLAB").
	ProviderName string

	// EnvVars are checked after the prefixed variable, in order.
	EnvVars []string

	// ConfigToken is the value from the configuration file.
	ConfigToken string

	// CLIFallback is tried last, e.g. `gh auth token`.
	CLIFallback func() string
}

// Config builds a ResolverConfig with just the provider name and config token.
func Config(providerName, configToken string) ResolverConfig {
	return ResolverConfig{
		ProviderName: providerName,
		ConfigToken:  configToken,
	}
}

// WithEnvVars adds environment variables to check.
func (c ResolverConfig) WithEnvVars(envVars ...string) ResolverConfig {
	c.EnvVars = append(c.EnvVars, envVars...)

	return c
}

// WithCLIFallback adds a CLI fallback function to the config.
func (c ResolverConfig) WithCLIFallback(fn func() string) ResolverConfig {
	c.CLIFallback = fn

	return c
}

// Resolve returns the first non-empty token from, in order:
//  1. AUTOUPDATER_{ProviderName}_TOKEN
//  2. EnvVars
//  3. ConfigToken
//  4. CLIFallback
//
// Returns ErrNoToken if every source is empty.
func Resolve(cfg ResolverConfig) (string, error) {
	if cfg.ProviderName != "" {
		if tok := os.Getenv(EnvPrefix + strings.ToUpper(cfg.ProviderName) + "_TOKEN"); tok != "" {
			return tok, nil
		}
	}

	for _, envVar := range cfg.EnvVars {
		if tok := os.Getenv(envVar); tok != "" {
			return tok, nil
		}
	}

	if cfg.ConfigToken != "" {
		return cfg.ConfigToken, nil
	}

	if cfg.CLIFallback != nil {
		if tok := cfg.CLIFallback(); tok != "" {
			return tok, nil
		}
	}

	return "", ErrNoToken
}

// GitHub resolves a GitHub token: AUTOUPDATER_GITHUB_TOKEN, GITHUB_TOKEN,
// GH_TOKEN, the config value, then `gh auth token`.
func GitHub(configToken string) (string, error) {
	return Resolve(Config("GITHUB", configToken).
		WithEnvVars("GITHUB_TOKEN", "GH_TOKEN").
		WithCLIFallback(ghCLIToken))
}

// GitLab resolves a GitLab token: AUTOUPDATER_GITLAB_TOKEN, GITLAB_TOKEN, then the
// config value.
func GitLab(configToken string) (string, error) {
	return Resolve(Config("GITLAB", configToken).WithEnvVars("GITLAB_TOKEN"))
}

// lookPath is swapped in tests to keep the gh CLI out of the picture.
var lookPath = exec.LookPath

func ghCLIToken() string {
	gh, err := lookPath("gh")
	if err != nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, gh, "auth", "token").Output()
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(out))
}
