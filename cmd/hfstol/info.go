package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/hfstol/internal/cli"
)

var infoCmd = &cobra.Command{
	Use:   "info [analyzer]",
	Short: "Describe a transducer",
	Long:  `Prints the header, alphabet and table sizes of a transducer file or configured analyzer.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		jsonMode, _ := cmd.Flags().GetBool("json")
		pretty := !jsonMode && cli.IsTerminal(os.Stdout)
		return cli.RunInfo(cmd.Context(), app, firstArg(args), pretty, os.Stdout)
	},
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().Bool("json", false, "Print JSON even on a terminal")
}
