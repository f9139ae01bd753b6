package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"fzm/internal/dirs"
	"fzm/internal/index"
	"fzm/internal/installer"
	"fzm/internal/logger"
	"fzm/internal/progress"
	"fzm/internal/store"
)

// debug indicates whether debug logging should be enabled.
// It can be toggled via the `--debug` command-line flag.
var debug bool

// rootCmd is the base command for the fzm CLI.
var rootCmd = &cobra.Command{
	Use:   "fzm",
	Short: "Fir toolchain version manager",
	Long: `fzm installs and switches between versions of the Fir toolchain.

Examples:
  fzm install 0.15.2     # Install a tagged release
  fzm install master     # Install (or update) the latest dev snapshot
  fzm use 0.15.2         # Activate an installed version in this session
  fzm use                # Autoswitch from the project's fir.yaml
  fzm uninstall 0.15.2   # Remove an installed version
  fzm list               # Show installed versions`,

	// Initialize the logger before any subcommand runs.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug)
	},
}

// Execute registers flags and subcommands and runs the CLI. Any command
// error has already been printed as a single line by the time we exit
// non-zero here.
func Execute() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(useCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(listCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
}

// buildDeps constructs the dependency set for one command invocation.
// Every command resolves its directories and stores explicitly here rather
// than through package-level state.
func buildDeps() (installer.Deps, error) {
	versionsDir, err := dirs.VersionsDir()
	if err != nil {
		return installer.Deps{}, err
	}
	statePath, err := dirs.StatePath()
	if err != nil {
		return installer.Deps{}, err
	}
	cacheDir, err := dirs.CacheDir()
	if err != nil {
		return installer.Deps{}, err
	}

	return installer.Deps{
		Index:      index.NewClient(),
		Store:      store.New(versionsDir),
		StatePath:  statePath,
		CacheDir:   cacheDir,
		SessionDir: dirs.SessionDir(),
		Sink:       progress.NewConsole(),
	}, nil
}
