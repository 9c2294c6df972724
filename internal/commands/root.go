package commands

import (
	"github.com/spf13/cobra"

	"github.com/collectivites/m57/internal/buildinfo"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	repo       string
	configPath string
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "m57",
		Short:   "Aggregate French municipal M57/M14 balance ledgers",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.repo, "repo", ".", "workspace directory")
	flags.StringVar(&opts.configPath, "config", "", "config file (default <repo>/m57.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newInitCommand(),
		newFetchCommand(opts),
		newAggregateCommand(opts),
		newImportCommand(opts),
		newValidateCommand(opts),
		newCompareCommand(opts),
		newBenchmarkCommand(opts),
	)

	return rootCmd
}
