package bootstrap

import (
	"flag"
	"fmt"

	"github.com/campushub/item-manager/internal/config"
	"github.com/campushub/item-manager/internal/logger"
)

// LoadConfig loads configuration. Uses the -config flag with a CONFIG_PATH
// override.
func LoadConfig() (*config.Config, error) {
	configPath := flag.String("config", config.GetConfigPath("config.yml"), "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config, version string) (logger.Logger, error) {
	log, err := logger.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(
		logger.String("service", "item-manager"),
		logger.String("version", version),
	), nil
}
