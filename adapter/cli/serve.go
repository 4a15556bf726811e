package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coursecast/coursecast/adapter/api"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the internal trigger API",
	Long: `Start the HTTP server that exposes the cron trigger endpoints:

  POST /internal/v1/schedules/extend
  POST /internal/v1/reminders/scan
  GET  /health

The trigger endpoints are guarded by CRON_AUTH_TOKEN.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := api.DefaultServerConfig()
		cfg.Addr = container.Config.APIAddr
		cfg.AuthToken = container.Config.CronAuthToken

		handler := api.NewTriggerHandler(
			container.ExtendHandler,
			container.ScanHandler,
			container.RunLock,
			logger,
		)
		server := api.NewServer(cfg, handler, logger)

		errCh := make(chan error, 1)
		go func() {
			if err := server.Start(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}
