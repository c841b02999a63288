package seed

import (
	"context"
	"testing"

	"github.com/agrofix/agrofix-backend/internal/storage"
	"github.com/agrofix/agrofix-backend/internal/storage/memory"
	"github.com/agrofix/agrofix-backend/pkg/config"
	"github.com/agrofix/agrofix-backend/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastArgon = config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}

func TestSeedRunCreatesCatalogOrderAndAdmin(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seeder, err := New(store, security.NewPasswordHasher(fastArgon), config.SeedConfig{AdminUsername: "admin", AdminPassword: "s3cret-pass"}, nil)
	require.NoError(t, err)

	res, err := seeder.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, res.ProductsCreated)
	assert.True(t, res.OrderCreated)
	assert.True(t, res.AdminCreated)
	assert.Empty(t, res.GeneratedPassword)

	products, err := store.ListProducts(ctx, storage.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, products, 4)
	assert.Equal(t, "Tomatoes", products[0].Name)
	assert.Equal(t, int64(2500), products[0].Price)

	orders, err := store.ListOrders(ctx, storage.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(25000), orders[0].TotalAmount)
	assert.Equal(t, "Pending", orders[0].Status.String())

	admin, err := store.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	ok, err := security.VerifyPassword("s3cret-pass", admin.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSeedRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seeder, err := New(store, security.NewPasswordHasher(fastArgon), config.SeedConfig{AdminUsername: "admin", AdminPassword: "pw-123456"}, nil)
	require.NoError(t, err)

	_, err = seeder.Run(ctx)
	require.NoError(t, err)
	res, err := seeder.Run(ctx)
	require.NoError(t, err)

	assert.Zero(t, res.ProductsCreated)
	assert.False(t, res.OrderCreated)
	assert.False(t, res.AdminCreated)

	orders, _ := store.ListOrders(ctx, storage.OrderFilter{})
	assert.Len(t, orders, 1)
}

func TestSeedGeneratesAdminPasswordWhenUnset(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seeder, err := New(store, security.NewPasswordHasher(fastArgon), config.SeedConfig{AdminUsername: "ops"}, nil)
	require.NoError(t, err)

	res, err := seeder.Run(ctx)
	require.NoError(t, err)
	require.True(t, res.AdminCreated)
	require.Len(t, res.GeneratedPassword, tempPasswordLength)

	admin, err := store.GetUserByUsername(ctx, "ops")
	require.NoError(t, err)
	ok, err := security.VerifyPassword(res.GeneratedPassword, admin.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewValidatesDependencies(t *testing.T) {
	_, err := New(nil, security.NewPasswordHasher(fastArgon), config.SeedConfig{}, nil)
	assert.Error(t, err)
	_, err = New(memory.New(), nil, config.SeedConfig{}, nil)
	assert.Error(t, err)
}
