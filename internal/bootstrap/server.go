package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/campushub/item-manager/internal/api"
	"github.com/campushub/item-manager/internal/config"
	"github.com/campushub/item-manager/internal/events"
	"github.com/campushub/item-manager/internal/logger"
	"github.com/campushub/item-manager/internal/repository"
)

// RunHTTPServer builds the router and serves until a shutdown signal
// arrives, then drains in-flight requests within the shutdown timeout.
func RunHTTPServer(cfg *config.Config, repo *repository.ItemRepository, publisher *events.Publisher, log logger.Logger) error {
	router := api.NewRouter(repo, publisher, cfg, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server",
			logger.String("address", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigCh:
		log.Info("Shutdown signal received",
			logger.String("signal", sig.String()),
		)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server",
		logger.Duration("timeout", cfg.Server.ShutdownTimeout),
	)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info("HTTP server stopped gracefully")
	return nil
}
