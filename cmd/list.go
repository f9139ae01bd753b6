package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fzm/internal/state"
)

// listCmd prints the installed versions, each with its resolved full
// version, marking the one recorded as in use.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed toolchain versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}

		specifiers, err := deps.Store.List()
		if err != nil {
			return err
		}
		if len(specifiers) == 0 {
			fmt.Println("no versions installed")
			return nil
		}

		st := state.Load(deps.StatePath)
		for _, specifier := range specifiers {
			full, err := deps.Store.Installed(specifier)
			if err != nil {
				// Directory without a marker: an interrupted install or a
				// manually placed tree. Show it, but flag it.
				fmt.Printf("  %s (incomplete)\n", specifier)
				continue
			}

			marker := " "
			if specifier == st.InUse {
				marker = "*"
			}
			if full != specifier {
				fmt.Printf("%s %s (%s)\n", marker, specifier, full)
			} else {
				fmt.Printf("%s %s\n", marker, specifier)
			}
		}
		return nil
	},
}
