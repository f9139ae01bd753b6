package cmd

import (
	"github.com/spf13/cobra"

	"fzm/internal/installer"
)

// installCmd downloads, verifies, and extracts a toolchain version into
// the local version store.
var installCmd = &cobra.Command{
	Use:   "install <version>",
	Short: "Install a toolchain version (master or X.Y.Z)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		return installer.Install(deps, args[0])
	},
}
