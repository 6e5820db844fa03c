// Command sedserver exposes the SED Builder client over HTTP. GET /v1/sed
// fetches a position from the upstream service and renders it in the
// requested format.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/sedbuilder/internal/adapter/httpadapter"
	"github.com/couchcryptid/sedbuilder/internal/adapter/sedapi"
	"github.com/couchcryptid/sedbuilder/internal/config"
	"github.com/couchcryptid/sedbuilder/internal/observability"
	"github.com/couchcryptid/sedbuilder/internal/render"
)

// writeSlack is added to the upstream timeout so a slow upstream still gets
// its error response written.
const writeSlack = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := sedapi.NewClient(cfg.BaseURL, cfg.RequestTimeout, metrics, logger)
	renderer := render.New(logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, cfg.RequestTimeout+writeSlack, client, renderer, client, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr, "upstream", cfg.BaseURL)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
