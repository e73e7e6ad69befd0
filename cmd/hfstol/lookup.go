package main

import (
	"context"
	"os"

	"github.com/aretw0/lifecycle"
	"github.com/spf13/cobra"

	"github.com/aretw0/hfstol/internal/cli"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [analyzer] [word...]",
	Short: "Analyse words",
	Long: `Analyses the words given as arguments, or one word per line from standard
input, in the hfst-optimized-lookup output format.

The analyzer is a transducer file or the name of a configured analyzer. It can
be omitted when exactly one analyzer is configured.`,
	Example: `  hfstol lookup crk-analyser.hfstol atim
  echo itwêwina | hfstol lookup crk
  hfstol lookup crk --output json < words.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		output, _ := cmd.Flags().GetString("output")
		noColor, _ := cmd.Flags().GetBool("no-color")

		opts := cli.LookupOptions{
			Output:      output,
			In:          cli.TerminalInput(os.Stdin),
			Out:         os.Stdout,
			Color:       !noColor && cli.IsTerminal(os.Stdout),
			Interactive: cli.IsTerminal(os.Stdin),
		}
		if len(args) > 0 {
			opts.Analyzer = args[0]
			opts.Words = args[1:]
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		return cli.RunLookup(lifecycle.NewSignalContext(ctx), app, opts)
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().StringP("output", "o", cli.OutputText, "Output format: 'text' or 'json'")
	lookupCmd.Flags().Bool("no-color", false, "Do not highlight tags on a terminal")
}
