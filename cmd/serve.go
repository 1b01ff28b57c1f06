package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rccheck/internal/config"
	"github.com/alexiusacademia/rccheck/internal/server"
)

var (
	serveAddr    string
	serveWorkers int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the section check over HTTP",
	Long: `Serve the section check to the calculation sheet over HTTP.

Endpoints:
  POST /api/beam/calc     batch check, returns one entry per eligible row
  POST /api/beam/report   calculation report of a single row
  POST /api/beam          dispatch on the request "mode" (calc or report)
  GET  /healthz           liveness

Settings come from the environment or a .env file in the working
directory, and flags override them:
  RCCHECK_ADDR      listen address (default :8080)
  RCCHECK_WORKERS   rows evaluated at once per request
  RCCHECK_RATE      requests per second per client (default 5)
  RCCHECK_BURST     request burst per client (default 10)`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address, overrides RCCHECK_ADDR")
	serveCmd.Flags().IntVar(&serveWorkers, "workers", 0, "Rows evaluated at once, overrides RCCHECK_WORKERS")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Addr = serveAddr
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = serveWorkers
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return server.New(cfg).Run(ctx)
}
