// Package backend picks and opens the storage implementation named by config.
package backend

import (
	"context"
	"fmt"

	"github.com/agrofix/agrofix-backend/internal/storage"
	"github.com/agrofix/agrofix-backend/internal/storage/memory"
	"github.com/agrofix/agrofix-backend/internal/storage/sqlstore"
	"github.com/agrofix/agrofix-backend/pkg/config"
	"github.com/agrofix/agrofix-backend/pkg/db"
	"github.com/agrofix/agrofix-backend/pkg/logger"
	"github.com/agrofix/agrofix-backend/pkg/migrate"
)

// Open connects the configured driver and brings its schema up to date:
// embedded goose migrations for Postgres (when auto-migrate is on) and gorm
// AutoMigrate for sqlite.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage.Storage, error) {
	ctx = logg.WithField(ctx, "storage_driver", cfg.Storage.Driver)

	if cfg.Storage.Driver == config.StorageDriverMemory {
		logg.Info(ctx, "using in-memory storage")
		return memory.New(), nil
	}

	client, err := db.New(ctx, cfg.Storage.Driver, cfg.DB, logg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap database: %w", err)
	}
	store := sqlstore.New(client)

	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		err = migrate.MaybeAutoRun(ctx, cfg, logg, client)
	case config.StorageDriverSQLite:
		err = store.AutoMigrate(ctx)
	}
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("prepare schema: %w", err)
	}
	return store, nil
}
