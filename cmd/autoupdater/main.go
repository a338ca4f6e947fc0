// Command autoupdater checks for, downloads and installs new releases of a program
// from GitHub or GitLab.
package main

import (
	"fmt"
	"os"

	"github.com/localcc/autoupdater/cmd/autoupdater/commands"
	"github.com/localcc/autoupdater/internal/display"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprint(os.Stderr, display.FormatError(err))
		os.Exit(1)
	}
}
