package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/hfstol/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate [analyzer...]",
	Short: "Check analyzers for structural problems",
	Long: `Decodes every configured analyzer (or the ones given) and reports unreachable
final states, dead ends, epsilon cycles and flag features that are never set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()
		return cli.RunValidate(cmd.Context(), app, args, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
