package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/agrofix/agrofix-backend/internal/storage"
	"github.com/agrofix/agrofix-backend/internal/storage/memory"
	"github.com/agrofix/agrofix-backend/internal/storage/sqlstore"
	"github.com/agrofix/agrofix-backend/pkg/config"
	"github.com/agrofix/agrofix-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMemory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.StorageDriverMemory}}
	store, err := Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	_, ok := store.(*memory.Store)
	assert.True(t, ok)
}

func TestOpenSQLiteMigratesSchema(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.StorageDriverSQLite},
		DB:      config.DBConfig{DSN: filepath.Join(t.TempDir(), "agrofix.db")},
	}
	store, err := Open(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, ok := store.(*sqlstore.Store)
	require.True(t, ok)

	products, err := store.ListProducts(ctx, storage.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestOpenRejectsMissingDSN(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.StorageDriverPostgres}}
	_, err := Open(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
