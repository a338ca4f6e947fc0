package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/localcc/autoupdater/internal/config"
	"github.com/localcc/autoupdater/internal/display"
	"github.com/localcc/autoupdater/internal/log"
)

func newCheckCmd(a *app) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:     "check",
		Short:   "Check whether a newer release is available",
		GroupID: "update",
		Long: `Check whether a release newer than this build exists.

With --interval the result of the last check is reused until the interval has
passed, which keeps frequent invocations (shell prompts, cron) off the API.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			now := time.Now()

			if err := a.cfg.Source.CheckComplete(); err != nil {
				return err
			}
			key := a.cfg.Source.CacheKey()

			state, err := config.LoadState()
			if err != nil {
				log.Debug("ignoring unreadable state", log.Err(err))
				state = &config.State{}
			}

			if !state.CheckDue(now, interval, key) {
				log.Debug("using cached check", "last_check", state.LastCheck)
				latest := state.LatestTag
				// The cached tag may be the one installed since.
				if cmp, err := a.cfg.Source.CompareFunc(); err == nil && latest != "" && baseline() != "" && cmp(latest, baseline()) <= 0 {
					latest = ""
				}
				printCheckResult(cmd, latest, display.RelativeTime(state.LastCheck, now))

				return nil
			}

			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}

			release, err := s.newest(cmd.Context(), a.cfg.Source.Criteria(baseline()))
			if err != nil {
				return fmt.Errorf("check for updates: %w", err)
			}

			latest := ""
			if release != nil {
				latest = release.Tag
			}
			state.RecordCheck(now, key, latest)
			if err := state.Save(); err != nil {
				log.Debug("could not save state", log.Err(err))
			}

			if release == nil {
				printCheckResult(cmd, "", "")

				return nil
			}

			_, _ = fmt.Fprintln(out, display.FormatRelease("Update available", *release, Version))

			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Reuse the last result if it is younger than this (e.g. 24h)")

	return cmd
}

// printCheckResult reports a check outcome. latest empty means up to date; when
// seen is set the result came from the state file.
func printCheckResult(cmd *cobra.Command, latest, seen string) {
	out := cmd.OutOrStdout()
	suffix := ""
	if seen != "" {
		suffix = display.Muted(fmt.Sprintf(" (checked %s)", seen))
	}

	if latest == "" {
		_, _ = fmt.Fprintf(out, "%s%s\n", display.SuccessMsg("Already up to date (%s)", Version), suffix)

		return
	}

	_, _ = fmt.Fprintf(out, "%s%s\n", display.InfoMsg("%s is available (you have %s)", display.Bold(latest), Version), suffix)
	_, _ = fmt.Fprintf(out, "%s Run 'autoupdater update' to install\n", display.Muted("→"))
}
