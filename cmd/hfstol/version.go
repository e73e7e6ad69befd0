package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/hfstol"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hfstol",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hfstol version %s\n", strings.TrimSpace(hfstol.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
