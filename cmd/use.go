package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"fzm/internal/installer"
)

// useCmd activates an installed version. With no argument it autoswitches
// from the current directory's project manifest, which is deliberately
// silent in every "nothing to do" case — shell hooks run it on each
// directory change.
var useCmd = &cobra.Command{
	Use:   "use [<version>]",
	Short: "Activate an installed version, or autoswitch from fir.yaml",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}

		if len(args) == 1 {
			return installer.Use(deps, args[0])
		}

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		return installer.Autoswitch(deps, cwd)
	},
}
