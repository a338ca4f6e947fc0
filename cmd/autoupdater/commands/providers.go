package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/localcc/autoupdater/internal/display"
)

func newProvidersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "providers",
		Short:   "List supported release hosts",
		GroupID: "info",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			rows := [][]string{}
			for _, info := range a.registry.List() {
				rows = append(rows, []string{info.Name, strings.Join(info.Hosts, ","), info.Description})
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), display.Table([]string{"NAME", "HOSTS", "DESCRIPTION"}, rows))
		},
	}
}
