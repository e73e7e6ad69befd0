package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/hfstol/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "hfstol",
	Short: "hfstol looks up words in HFST optimized-lookup transducers",
	Long: `hfstol loads morphological analyzers compiled to the HFST optimized-lookup
format and serves lookups from the command line, over HTTP or as MCP tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default $HFSTOL_CONFIG or ./hfstol.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log debug output to stderr")
}

// newApp builds the application from the persistent flags.
func newApp(cmd *cobra.Command) (*cli.App, error) {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.NewApp(cli.Options{ConfigPath: configPath, Debug: debug})
}
