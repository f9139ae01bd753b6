package cmd

import (
	"github.com/spf13/cobra"

	"fzm/internal/installer"
)

// uninstallCmd removes an installed version, clearing the in-use state
// first when that version was active.
var uninstallCmd = &cobra.Command{
	Use:   "uninstall <version>",
	Short: "Remove an installed toolchain version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		return installer.Uninstall(deps, args[0])
	},
}
