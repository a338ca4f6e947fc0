// Package commands implements the autoupdater command line.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/localcc/autoupdater/internal/config"
	"github.com/localcc/autoupdater/internal/display"
	"github.com/localcc/autoupdater/internal/log"
	"github.com/localcc/autoupdater/internal/provider"
	"github.com/localcc/autoupdater/internal/provider/github"
	"github.com/localcc/autoupdater/internal/provider/gitlab"
	"github.com/localcc/autoupdater/internal/update"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	// Global flags.
	cfgFile string
	verbose bool
	logJSON bool
	noColor bool
	source  sourceFlags

	cfg      *config.Config
	registry *provider.Registry

	// newInstaller is swapped in tests so the test binary is never replaced.
	newInstaller func() selfReplacer
	// executable reports the path the installer operates on.
	executable func() (string, error)
}

// selfReplacer is the part of update.Installer the commands use.
type selfReplacer interface {
	Replace(downloadedPath string) error
	Rollback() error
	IsWritable() (bool, error)
}

// sourceFlags override config.Source values when set on the command line.
type sourceFlags struct {
	provider   string
	owner      string
	repo       string
	project    string
	apiURL     string
	branch     string
	tag        string
	asset      string
	comparator string
	caFile     string
	prerelease bool
}

func newApp() *app {
	r := provider.NewRegistry()
	github.Register(r)
	gitlab.Register(r)

	return &app{
		registry:     r,
		newInstaller: func() selfReplacer { return update.NewInstaller() },
		executable:   update.ExecutablePath,
	}
}

// newRootCmd builds the command tree for a.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "autoupdater",
		Short: "Self-update a program from GitHub or GitLab releases",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Long: `autoupdater finds the newest release of a project on GitHub or GitLab,
downloads the asset for this platform and swaps it in for the installed binary.
The previous binary is kept next to it with an .exe.old suffix.

Quick Start:
  autoupdater check --owner acme --repo app     Is a newer release out?
  autoupdater list                              Show matching releases
  autoupdater update                            Download and install
  autoupdater rollback                          Restore the previous binary

Settings are read from .autoupdater/config.yaml (project) or
~/.autoupdater/config.yaml (user); tokens from GITHUB_TOKEN / GITLAB_TOKEN or
.autoupdater/.env.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env first so tokens are visible to everything after it.
			if err := config.LoadDotEnvFromCwd(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to load %s/%s: %v\n", config.AppDir, config.EnvFileName, err)
			}

			cfg, err := config.Load(a.cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.applyFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg

			log.Configure(log.Options{
				Level:   log.ParseLevel(cfg.Log.Level),
				JSON:    a.logJSON || cfg.Log.JSON,
				Output:  cmd.ErrOrStderr(),
				Verbose: a.verbose,
			})
			display.InitColors(a.noColor || !cfg.UI.Color)

			log.Debug("initialized", "provider", cfg.Source.Provider, "config", a.cfgFile)

			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "Config file (default .autoupdater/config.yaml, then ~/.autoupdater/config.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output")
	pf.BoolVar(&a.logJSON, "log-json", false, "Log as JSON")
	pf.BoolVar(&a.noColor, "no-color", false, "Disable color output")

	pf.StringVar(&a.source.provider, "provider", "", "Release host: github or gitlab")
	pf.StringVar(&a.source.owner, "owner", "", "GitHub repository owner")
	pf.StringVar(&a.source.repo, "repo", "", "GitHub repository name")
	pf.StringVar(&a.source.project, "project", "", "GitLab project path or ID")
	pf.StringVar(&a.source.apiURL, "api-url", "", "API base URL for GitHub Enterprise or self-hosted GitLab")
	pf.StringVar(&a.source.branch, "branch", "", "Only consider releases targeting this branch")
	pf.StringVar(&a.source.tag, "tag", "", "Install exactly this tag")
	pf.StringVar(&a.source.asset, "asset", "", "Asset name to install (default: detect from OS/arch)")
	pf.StringVar(&a.source.comparator, "comparator", "", "Tag comparison: simple, strict or semver")
	pf.StringVar(&a.source.caFile, "ca-file", "", "PEM bundle of extra trusted CA certificates")
	pf.BoolVarP(&a.source.prerelease, "pre-release", "p", false, "Include pre-release versions")

	root.AddGroup(&cobra.Group{
		ID:    "update",
		Title: "Update Commands:",
	}, &cobra.Group{
		ID:    "info",
		Title: "Information Commands:",
	})

	root.AddCommand(
		newCheckCmd(a),
		newListCmd(a),
		newUpdateCmd(a),
		newRollbackCmd(a),
		newProvidersCmd(a),
		newVersionCmd(),
	)

	return root
}

// applyFlags copies explicitly set flags over the loaded configuration.
func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	s := &cfg.Source

	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("provider", &s.Provider, a.source.provider)
	set("owner", &s.Owner, a.source.owner)
	set("repo", &s.Repo, a.source.repo)
	set("project", &s.Project, a.source.project)
	set("api-url", &s.APIURL, a.source.apiURL)
	set("branch", &s.Branch, a.source.branch)
	set("tag", &s.Tag, a.source.tag)
	set("asset", &s.Asset, a.source.asset)
	set("comparator", &s.Comparator, a.source.comparator)
	set("ca-file", &s.CAFile, a.source.caFile)
	if flags.Changed("pre-release") {
		s.Prerelease = a.source.prerelease
	}

	// A GitLab API URL without an explicit provider selects GitLab.
	if !flags.Changed("provider") && flags.Changed("api-url") {
		if name, ok := a.registry.Detect(s.APIURL); ok {
			s.Provider = name
		}
	}
}

// Execute runs the root command with signal handling.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return newRootCmd(newApp()).ExecuteContext(ctx)
}
