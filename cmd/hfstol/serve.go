package main

import (
	"context"

	"github.com/aretw0/lifecycle"
	"github.com/spf13/cobra"

	"github.com/aretw0/hfstol/internal/cli"
	"github.com/aretw0/hfstol/internal/presentation/tui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP lookup server",
	Long: `Loads the configured analyzers and serves lookups as JSON over HTTP, with a
websocket stream per analyzer and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		addr, _ := cmd.Flags().GetString("addr")
		quiet, _ := cmd.Flags().GetBool("quiet")
		if !quiet {
			tui.PrintBanner(cmd.ErrOrStderr())
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		return cli.RunServe(lifecycle.NewSignalContext(ctx), app, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from config, :8080)")
	serveCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
