package cmd

import (
	"os"

	"aviutl2-cli/internal/logger"

	"github.com/spf13/cobra"
)

// debug flag indicates whether debug logging should be enabled.
// It can be toggled via the `--debug` command-line flag.
var debug bool

// newRootCommand assembles au2 and registers every subcommand.
func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "au2",
		Short: "Development workflow tool for AviUtl2 plugins",
		Long: `au2 scaffolds an AviUtl2 plugin project, installs AviUtl2 for local
development, places build artifacts into its data directory, and packages
releases and catalog manifests from aviutl2.toml.`,
		SilenceUsage:  true,
		SilenceErrors: true,

		// PersistentPreRun runs before any subcommand.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(debug)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newPrepareCommand())
	rootCmd.AddCommand(newPrepareSchemaCommand())
	rootCmd.AddCommand(newPrepareAviUtl2Command())
	rootCmd.AddCommand(newPrepareArtifactsCommand())
	rootCmd.AddCommand(newDevelopCommand())
	rootCmd.AddCommand(newPreviewCommand())
	rootCmd.AddCommand(newReleaseCommand())
	rootCmd.AddCommand(newCatalogCommand())

	return rootCmd
}

// Execute runs the CLI. The first error aborts the command; it is printed on
// one line and the process exits with status 1.
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		logger.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
}
