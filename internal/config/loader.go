package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/localcc/autoupdater/internal/provider/token"
	"github.com/localcc/autoupdater/internal/update"
)

// ConfigFileName is the name of the YAML configuration file inside AppDir.
const ConfigFileName = "config.yaml"

// DefaultConfigPaths returns the configuration files checked when no path is
// given, highest priority first.
func DefaultConfigPaths() []string {
	paths := []string{filepath.Join(AppDir, ConfigFileName)}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, AppDir, ConfigFileName))
	}

	return paths
}

// Load reads configuration on top of the defaults. An empty path tries
// DefaultConfigPaths and uses the first that exists; a missing file is not an
// error. A named file that does not exist is.
func Load(path string) (*Config, error) {
	cfg := NewDefault()

	if path == "" {
		for _, candidate := range DefaultConfigPaths() {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate

				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate performs validation the YAML decoder cannot.
func (c *Config) Validate() error {
	c.Source.Provider = strings.ToLower(strings.TrimSpace(c.Source.Provider))
	switch c.Source.Provider {
	case "":
		c.Source.Provider = "github"
	case "github", "gitlab":
		// OK
	default:
		return fmt.Errorf("invalid provider: %s (must be github or gitlab)", c.Source.Provider)
	}

	if _, err := update.ComparatorByName(c.Source.Comparator); err != nil {
		return err
	}

	if c.Source.PerPage < 0 || c.Source.PerPage > 100 {
		return fmt.Errorf("invalid per_page: %d (must be at most 100; 0 uses the default)", c.Source.PerPage)
	}
	if c.Source.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", c.Source.Timeout)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
		// OK
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn or error)", c.Log.Level)
	}

	return nil
}

// ErrSourceIncomplete is returned when the release source is not identified.
var ErrSourceIncomplete = errors.New("release source not configured")

// CheckComplete reports whether the source names a repository or project.
// It is separate from Validate so a config file may leave the source to flags.
func (s Source) CheckComplete() error {
	switch s.Provider {
	case "gitlab":
		if s.Project == "" {
			return fmt.Errorf("%w: gitlab needs project (set source.project or --project)", ErrSourceIncomplete)
		}
	default:
		if s.Owner == "" || s.Repo == "" {
			return fmt.Errorf("%w: github needs owner and repo (set source.owner/source.repo or --owner/--repo)", ErrSourceIncomplete)
		}
	}

	return nil
}

// ResolveToken returns the API token for the configured provider. Environment
// variables take priority over the config file. Empty means unauthenticated.
func (s Source) ResolveToken() string {
	var (
		tok string
		err error
	)
	switch s.Provider {
	case "gitlab":
		tok, err = token.GitLab(s.Token)
	default:
		tok, err = token.GitHub(s.Token)
	}
	if err != nil {
		return ""
	}

	return tok
}
