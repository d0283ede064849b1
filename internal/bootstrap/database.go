package bootstrap

import (
	"context"
	"fmt"

	"github.com/campushub/item-manager/internal/config"
	"github.com/campushub/item-manager/internal/database"
	"github.com/campushub/item-manager/internal/logger"
	"github.com/campushub/item-manager/internal/repository"
	"github.com/campushub/item-manager/internal/seed"
)

// SetupDatabase opens the store, ensures the schema exists, and loads seed
// data into an empty store. A missing or malformed seed file is logged and
// ignored: the service still starts with whatever the store holds.
func SetupDatabase(cfg *config.Config, log logger.Logger) (*database.DB, *repository.ItemRepository, error) {
	db, err := database.New(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection: %w", err)
	}

	repo := repository.NewItemRepository(db.DB(), log)

	ctx := context.Background()
	if schemaErr := repo.InitSchema(ctx); schemaErr != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("init schema: %w", schemaErr)
	}

	seedStore(ctx, cfg, repo, log)

	return db, repo, nil
}

func seedStore(ctx context.Context, cfg *config.Config, repo *repository.ItemRepository, log logger.Logger) {
	inputs, err := seed.Load(cfg.Seed.File)
	if err != nil {
		log.Warn("Seed data unavailable, starting with current store",
			logger.String("seed_file", cfg.Seed.File),
			logger.Error(err),
		)
		return
	}

	if _, err := repo.SeedIfEmpty(ctx, inputs); err != nil {
		log.Warn("Seeding failed",
			logger.String("seed_file", cfg.Seed.File),
			logger.Error(err),
		)
	}
}
