// Package config loads updater settings from YAML and .env files.
package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/localcc/autoupdater/internal/provider/httpclient"
	"github.com/localcc/autoupdater/internal/update"
)

// Config holds all application configuration.
type Config struct {
	Source Source    `yaml:"source"`
	Log    LogConfig `yaml:"log"`
	UI     UIConfig  `yaml:"ui"`
}

// Source selects the release host, the releases considered and how they are compared.
type Source struct {
	Provider   string        `yaml:"provider"`   // "github" (default) or "gitlab"
	Owner      string        `yaml:"owner"`      // GitHub owner
	Repo       string        `yaml:"repo"`       // GitHub repository
	Project    string        `yaml:"project"`    // GitLab project path or ID
	APIURL     string        `yaml:"api_url"`    // Enterprise / self-hosted API base
	Token      string        `yaml:"token"`      // Prefer the environment; see ResolveToken
	Branch     string        `yaml:"branch"`     // Only releases targeting this branch
	Tag        string        `yaml:"tag"`        // Pin an exact tag
	Asset      string        `yaml:"asset"`      // Exact asset name; platform detection when empty
	Prerelease bool          `yaml:"prerelease"` // Consider prereleases
	Comparator string        `yaml:"comparator"` // simple, strict or semver
	PerPage    int           `yaml:"per_page"`
	Timeout    time.Duration `yaml:"timeout"`
	CAFile     string        `yaml:"ca_file"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// UIConfig holds terminal output settings.
type UIConfig struct {
	Color    bool `yaml:"color"`
	Progress bool `yaml:"progress"`
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Source: Source{
			Provider:   "github",
			Comparator: "simple",
			PerPage:    update.DefaultPerPage,
			Timeout:    httpclient.DefaultTimeout,
		},
		Log: LogConfig{
			Level: "warn",
		},
		UI: UIConfig{
			Color:    true,
			Progress: true,
		},
	}
}

// Criteria builds the release selection for this source. baseline is the version
// currently running; empty disables the newer-than check.
func (s Source) Criteria(baseline string) update.Criteria {
	return update.Criteria{
		AllowPrerelease: s.Prerelease,
		Branch:          s.Branch,
		Tag:             s.Tag,
		AssetName:       s.Asset,
		Baseline:        baseline,
	}
}

// CacheKey identifies the releases this source selects. A cached check result
// is only valid for the key it was recorded under.
func (s Source) CacheKey() string {
	name := s.Project
	if s.Provider != "gitlab" {
		name = s.Owner + "/" + s.Repo
	}

	return strings.Join([]string{
		s.Provider,
		name,
		s.APIURL,
		"branch=" + s.Branch,
		"tag=" + s.Tag,
		"asset=" + s.Asset,
		"prerelease=" + strconv.FormatBool(s.Prerelease),
		"comparator=" + strings.ToLower(s.Comparator),
	}, "|")
}

// CompareFunc returns the configured tag comparator.
func (s Source) CompareFunc() (update.Comparator, error) {
	return update.ComparatorByName(s.Comparator)
}

// HTTPOptions returns the HTTP client options for this source.
func (s Source) HTTPOptions() httpclient.Options {
	return httpclient.Options{
		Timeout: s.Timeout,
		CAFile:  s.CAFile,
	}
}
