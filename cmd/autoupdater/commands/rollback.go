package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/localcc/autoupdater/internal/display"
	"github.com/localcc/autoupdater/internal/update"
)

func newRollbackCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rollback",
		Short:   "Restore the binary kept by the last update",
		GroupID: "update",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			exe, err := a.executable()
			if err != nil {
				return err
			}
			backup := update.BackupPath(exe)

			confirmed, err := confirmAction(cmd.InOrStdin(), out,
				display.FormatConfirmation("Restore previous version?", []string{"From: " + backup, "To:   " + exe}, ""), yes)
			if err != nil {
				return err
			}
			if !confirmed {
				_, _ = fmt.Fprintln(out, display.Muted("Rollback cancelled"))

				return nil
			}

			if err := a.newInstaller().Rollback(); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(out, display.SuccessMsg("Restored %s", exe))

			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")

	return cmd
}
