package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/hfstol/internal/cli"
	"github.com/aretw0/hfstol/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph [analyzer]",
	Short: "Export the transducer as a Mermaid diagram",
	Long: `Crawls the transducer from its start state and prints a Mermaid flowchart (graph LR).
With --word, the states of the first path accepting the word are highlighted.`,
	Example: `  hfstol graph crk --max-states 50
  hfstol graph crk-analyser.hfstol --word atim`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		maxStates, _ := cmd.Flags().GetInt("max-states")
		word, _ := cmd.Flags().GetString("word")
		return cli.RunGraph(cmd.Context(), app, cli.GraphOptions{
			Analyzer:  firstArg(args),
			MaxStates: maxStates,
			Word:      word,
			Out:       os.Stdout,
		})
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().Int("max-states", graph.DefaultMaxStates, "Stop after this many states")
	graphCmd.Flags().String("word", "", "Highlight the path accepting this word")
}
