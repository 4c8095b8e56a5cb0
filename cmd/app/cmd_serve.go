package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"FinDash/internal/di"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Start the HTTP API, the optional live quote stream and the metrics
endpoint. Blocks until interrupted.

Examples:
  findash serve
  findash serve --config /etc/findash/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("app initialization failed: %w", err)
	}
	return app.Run(cmd.Context())
}
