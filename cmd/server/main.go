package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/amirasaad/fxconvert/infra/initializer"
	"github.com/amirasaad/fxconvert/pkg/app"
	"github.com/amirasaad/fxconvert/pkg/config"
	"github.com/amirasaad/fxconvert/webapi"
	log "github.com/charmbracelet/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() {
		if err := initializer.Close(deps); err != nil {
			slog.Warn("Failed to close rate cache", "error", err)
		}
	}()
	logger := deps.Logger

	fiberApp := webapi.SetupApp(app.New(deps, cfg))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- fiberApp.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Shutting down server", "signal", sig.String())
	}

	if err := fiberApp.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, os.ErrClosed) {
		logger.Warn("Listener returned after shutdown", "error", err)
	}
	logger.Info("Server stopped")
	return nil
}
