// Package bootstrap handles application initialization and lifecycle
// management for the item-manager service.
package bootstrap

import (
	"fmt"

	"github.com/campushub/item-manager/internal/logger"
)

const version = "dev"

// Start initializes and runs the item-manager application. The store schema
// is created and seed data loaded before any request is served.
func Start() error {
	// Phase 1: Load config and create logger
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := CreateLogger(cfg, version)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: Setup database, schema, and seed data
	db, repo, err := SetupDatabase(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Failed to close database", logger.Error(closeErr))
		}
	}()

	// Phase 3: Setup event publisher (optional)
	publisher := SetupEventPublisher(cfg, log)

	// Phase 4: Run HTTP server until shutdown
	if runErr := RunHTTPServer(cfg, repo, publisher, log); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}
