package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/agrofix/agrofix-backend/internal/storage"
	"github.com/agrofix/agrofix-backend/internal/storage/storagetest"
	"github.com/agrofix/agrofix-backend/pkg/db"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

var dbSeq atomic.Int64

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	conn, err := db.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store := New(db.FromConn(conn))
	require.NoError(t, store.AutoMigrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreContractSQLite(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage { return newSQLiteStore(t) })
}
