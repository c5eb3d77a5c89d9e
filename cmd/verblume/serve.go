package main

import (
	"context"
	"log/slog"

	"github.com/harunnryd/verblume/internal/api"
	"github.com/harunnryd/verblume/internal/config"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lesson API over HTTP",
	Long:  `Start the HTTP API used by the browser UI. Stops gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		sig := NewSignalHandler(context.Background())
		sig.Start()
		defer sig.Stop()

		srv := api.NewServer(a.planner, a.metrics, a.cfg.Server, api.WithVersion(version))
		slog.Info("Starting VerbLume API",
			"port", a.cfg.Server.Port,
			"text_model", a.cfg.Models.Default,
			"image_model", a.cfg.Models.Image)
		return srv.Run(sig.Context())
	},
}

func init() {
	serveCmd.Flags().Int("server.port", config.DefaultServerPort, "server port")
	rootCmd.AddCommand(serveCmd)
}
