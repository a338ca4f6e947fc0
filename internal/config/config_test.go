package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/localcc/autoupdater/internal/testutil"
	"github.com/localcc/autoupdater/internal/update"
)

// isolate points the working directory and home at empty temp dirs so
// DefaultConfigPaths finds nothing unless the test writes it.
func isolate(t *testing.T) (cwd, home string) {
	t.Helper()
	cwd = t.TempDir()
	home = t.TempDir()
	t.Chdir(cwd)
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	return cwd, home
}

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()

	if cfg.Source.Provider != "github" {
		t.Errorf("Source.Provider = %q, want %q", cfg.Source.Provider, "github")
	}
	if cfg.Source.Comparator != "simple" {
		t.Errorf("Source.Comparator = %q, want %q", cfg.Source.Comparator, "simple")
	}
	if cfg.Source.PerPage != update.DefaultPerPage {
		t.Errorf("Source.PerPage = %d, want %d", cfg.Source.PerPage, update.DefaultPerPage)
	}
	if cfg.Source.Timeout != 5*time.Minute {
		t.Errorf("Source.Timeout = %v, want 5m", cfg.Source.Timeout)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "warn")
	}
	if !cfg.UI.Color || !cfg.UI.Progress {
		t.Errorf("UI = %+v, want color and progress enabled", cfg.UI)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestLoad_NoFile(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source.Provider != "github" {
		t.Errorf("Source.Provider = %q, want defaults", cfg.Source.Provider)
	}
}

func TestLoad_File(t *testing.T) {
	cwd, _ := isolate(t)
	path := filepath.Join(cwd, "custom.yaml")
	testutil.WriteFile(t, path, `
source:
  provider: GitLab
  project: group/app
  api_url: https://gitlab.example.com/api/v4
  branch: stable
  prerelease: true
  comparator: semver
  per_page: 20
  timeout: 90s
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	s := cfg.Source
	if s.Provider != "gitlab" {
		t.Errorf("Provider = %q, want normalized %q", s.Provider, "gitlab")
	}
	if s.Project != "group/app" {
		t.Errorf("Project = %q", s.Project)
	}
	if s.APIURL != "https://gitlab.example.com/api/v4" {
		t.Errorf("APIURL = %q", s.APIURL)
	}
	if s.Branch != "stable" || !s.Prerelease {
		t.Errorf("Branch/Prerelease = %q/%v", s.Branch, s.Prerelease)
	}
	if s.Comparator != "semver" || s.PerPage != 20 {
		t.Errorf("Comparator/PerPage = %q/%d", s.Comparator, s.PerPage)
	}
	if s.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", s.Timeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	// Unset keys keep their defaults.
	if !cfg.UI.Progress {
		t.Error("UI.Progress lost its default")
	}
}

func TestLoad_DefaultPathsPriority(t *testing.T) {
	cwd, home := isolate(t)
	testutil.WriteFile(t, filepath.Join(home, AppDir, ConfigFileName), "source:\n  owner: from-home\n")
	testutil.WriteFile(t, filepath.Join(cwd, AppDir, ConfigFileName), "source:\n  owner: from-project\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source.Owner != "from-project" {
		t.Errorf("Owner = %q, want project config to win", cfg.Source.Owner)
	}
}

func TestLoad_HomeFallback(t *testing.T) {
	_, home := isolate(t)
	testutil.WriteFile(t, filepath.Join(home, AppDir, ConfigFileName), "source:\n  owner: from-home\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source.Owner != "from-home" {
		t.Errorf("Owner = %q, want %q", cfg.Source.Owner, "from-home")
	}
}

func TestLoad_Errors(t *testing.T) {
	cwd, _ := isolate(t)

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "source: [", "parse config"},
		{"bad provider", "source:\n  provider: bitbucket\n", "invalid provider"},
		{"bad comparator", "source:\n  comparator: fuzzy\n", "comparator"},
		{"bad per_page", "source:\n  per_page: 500\n", "invalid per_page"},
		{"bad log level", "log:\n  level: loud\n", "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(cwd, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			testutil.WriteFile(t, path, tt.content)

			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	cwd, _ := isolate(t)

	if _, err := Load(filepath.Join(cwd, "nope.yaml")); err == nil {
		t.Error("Load() of a missing explicit path should fail")
	}
}

func TestValidate_UnknownComparatorSentinel(t *testing.T) {
	cfg := NewDefault()
	cfg.Source.Comparator = "fuzzy"

	if err := cfg.Validate(); !errors.Is(err, update.ErrUnknownComparator) {
		t.Errorf("Validate() = %v, want ErrUnknownComparator", err)
	}
}

func TestSource_CheckComplete(t *testing.T) {
	tests := []struct {
		name    string
		source  Source
		wantErr bool
	}{
		{"github complete", Source{Provider: "github", Owner: "o", Repo: "r"}, false},
		{"github missing repo", Source{Provider: "github", Owner: "o"}, true},
		{"empty provider is github", Source{Owner: "o", Repo: "r"}, false},
		{"gitlab complete", Source{Provider: "gitlab", Project: "g/p"}, false},
		{"gitlab missing project", Source{Provider: "gitlab", Owner: "o", Repo: "r"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.source.CheckComplete()
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckComplete() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrSourceIncomplete) {
				t.Errorf("CheckComplete() = %v, want ErrSourceIncomplete", err)
			}
		})
	}
}

func TestSource_Criteria(t *testing.T) {
	s := Source{Prerelease: true, Branch: "main", Tag: "v2.0.0", Asset: "app.tar.gz"}

	got := s.Criteria("v1.0.0")
	want := update.Criteria{
		AllowPrerelease: true,
		Branch:          "main",
		Tag:             "v2.0.0",
		AssetName:       "app.tar.gz",
		Baseline:        "v1.0.0",
	}
	if got != want {
		t.Errorf("Criteria() = %+v, want %+v", got, want)
	}
}

func TestSource_CacheKey(t *testing.T) {
	base := Source{Provider: "github", Owner: "acme", Repo: "app", Comparator: "simple"}

	tests := []struct {
		name   string
		modify func(s *Source)
	}{
		{"owner", func(s *Source) { s.Owner = "other" }},
		{"repo", func(s *Source) { s.Repo = "project" }},
		{"provider", func(s *Source) { s.Provider = "gitlab"; s.Project = "acme/app" }},
		{"api url", func(s *Source) { s.APIURL = "https://ghe.example.com/api/v3" }},
		{"branch", func(s *Source) { s.Branch = "stable" }},
		{"tag", func(s *Source) { s.Tag = "v1.0.0" }},
		{"asset", func(s *Source) { s.Asset = "app-linux" }},
		{"prerelease", func(s *Source) { s.Prerelease = true }},
		{"comparator", func(s *Source) { s.Comparator = "semver" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := base
			tt.modify(&changed)
			if changed.CacheKey() == base.CacheKey() {
				t.Errorf("CacheKey() unchanged after changing %s: %q", tt.name, base.CacheKey())
			}
		})
	}

	// Settings that do not select releases keep the key.
	same := base
	same.Token = "secret"
	same.PerPage = 10
	if same.CacheKey() != base.CacheKey() {
		t.Errorf("CacheKey() = %q, want %q", same.CacheKey(), base.CacheKey())
	}
}

func TestSource_ResolveToken(t *testing.T) {
	for _, k := range []string{"AUTOUPDATER_GITLAB_TOKEN", "GITLAB_TOKEN"} {
		t.Setenv(k, "")
	}

	s := Source{Provider: "gitlab", Token: "from-config"}
	if got := s.ResolveToken(); got != "from-config" {
		t.Errorf("ResolveToken() = %q, want config token", got)
	}

	t.Setenv("GITLAB_TOKEN", "from-env")
	if got := s.ResolveToken(); got != "from-env" {
		t.Errorf("ResolveToken() = %q, want env to win", got)
	}

	s.Token = ""
	t.Setenv("GITLAB_TOKEN", "")
	if got := s.ResolveToken(); got != "" {
		t.Errorf("ResolveToken() = %q, want empty", got)
	}
}
