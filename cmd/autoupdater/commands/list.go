package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/localcc/autoupdater/internal/display"
)

func newListCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List releases matching the selection, newest first",
		GroupID: "info",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}

			// The baseline does not apply to listing.
			releases, err := s.matching(cmd.Context(), a.cfg.Source.Criteria(""))
			if err != nil {
				return fmt.Errorf("list releases: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(releases) == 0 {
				_, _ = fmt.Fprintln(out, display.Muted("No matching releases"))

				return nil
			}

			shown := releases
			if limit > 0 && len(shown) > limit {
				shown = shown[:limit]
			}
			_, _ = fmt.Fprint(out, display.ReleaseTable(shown, Version))
			if len(shown) < len(releases) {
				_, _ = fmt.Fprintln(out, display.Muted(fmt.Sprintf("… %d more (use --limit 0 to show all)", len(releases)-len(shown))))
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum releases to show (0 for all)")

	return cmd
}
