package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coursecast/coursecast/internal/app"
	"github.com/coursecast/coursecast/pkg/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	logger.Info("starting coursecast worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.IsDevelopment() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	// Health endpoint for liveness probes.
	healthServer := startHealthServer(cfg.WorkerHealthAddr, logger)
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = healthServer.Shutdown(shutdownCtx)
	}()

	// One extension pass at startup so a fresh deployment doesn't wait a
	// full interval before filling thin calendars.
	runExtend(ctx, container, logger)

	extendTicker := time.NewTicker(cfg.ExtendInterval)
	defer extendTicker.Stop()
	scanTicker := time.NewTicker(cfg.ScanInterval)
	defer scanTicker.Stop()

	logger.Info("worker loops started",
		"extend_interval", cfg.ExtendInterval,
		"scan_interval", cfg.ScanInterval,
	)

	for {
		select {
		case <-ctx.Done():
			logger.Info("worker stopped")
			return
		case <-extendTicker.C:
			runExtend(ctx, container, logger)
		case <-scanTicker.C:
			runScan(ctx, container, logger)
		}
	}
}

func runExtend(ctx context.Context, container *app.Container, logger *slog.Logger) {
	release, acquired, err := container.RunLock.Acquire(ctx, "schedule-extend", 10*time.Minute)
	if err != nil {
		logger.Error("failed to acquire run lock", "job", "schedule-extend", "error", err)
		return
	}
	if !acquired {
		logger.Debug("extension already running elsewhere")
		return
	}
	defer release()

	if _, err := container.ExtendHandler.Handle(ctx); err != nil {
		logger.Error("extension pass failed", "error", err)
	}
}

func runScan(ctx context.Context, container *app.Container, logger *slog.Logger) {
	release, acquired, err := container.RunLock.Acquire(ctx, "reminder-scan", time.Minute)
	if err != nil {
		logger.Error("failed to acquire run lock", "job", "reminder-scan", "error", err)
		return
	}
	if !acquired {
		logger.Debug("scan already running elsewhere")
		return
	}
	defer release()

	if _, err := container.ScanHandler.Handle(ctx); err != nil {
		logger.Error("reminder scan failed", "error", err)
	}
}

func startHealthServer(addr string, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("health server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", "error", err)
		}
	}()

	return server
}
