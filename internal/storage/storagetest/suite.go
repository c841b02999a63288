// Package storagetest holds the behavioural contract every storage.Storage
// implementation must satisfy.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/agrofix/agrofix-backend/internal/storage"
	"github.com/agrofix/agrofix-backend/pkg/db/models"
	"github.com/agrofix/agrofix-backend/pkg/enums"
	"github.com/agrofix/agrofix-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty store for each subtest.
type Factory func(t *testing.T) storage.Storage

func Run(t *testing.T, newStore Factory) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("products", func(t *testing.T) { testProducts(t, newStore(t)) })
	t.Run("product filters", func(t *testing.T) { testProductFilters(t, newStore(t)) })
	t.Run("orders", func(t *testing.T) { testOrders(t, newStore(t)) })
	t.Run("order numbers", func(t *testing.T) { testOrderNumbers(t, newStore(t)) })
	t.Run("carts", func(t *testing.T) { testCarts(t, newStore(t)) })
}

func strPtr(v string) *string { return &v }

func testUsers(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	user := &models.User{Username: "buyer@farm.test", PasswordHash: "hash", Email: strPtr("buyer@farm.test")}
	require.NoError(t, s.CreateUser(ctx, user))
	require.NotZero(t, user.ID)

	got, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "buyer@farm.test", got.Username)
	assert.False(t, got.IsAdmin)

	byName, err := s.GetUserByUsername(ctx, "buyer@farm.test")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	err = s.CreateUser(ctx, &models.User{Username: "buyer@farm.test", PasswordHash: "other"})
	assert.ErrorIs(t, err, storage.ErrConflict)

	_, err = s.GetUser(ctx, 9999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testProducts(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	p := &models.Product{Name: "Tomatoes", Category: "Vegetables", Price: 2500, MinOrderQuantity: 10, InStock: true}
	require.NoError(t, s.CreateProduct(ctx, p))
	require.NotZero(t, p.ID)

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tomatoes", got.Name)
	assert.Equal(t, int64(2500), got.Price)

	price := int64(2700)
	inStock := false
	updated, err := s.UpdateProduct(ctx, p.ID, storage.ProductPatch{Price: &price, InStock: &inStock})
	require.NoError(t, err)
	assert.Equal(t, int64(2700), updated.Price)
	assert.False(t, updated.InStock)
	assert.Equal(t, "Tomatoes", updated.Name)
	assert.Equal(t, 10, updated.MinOrderQuantity)

	_, err = s.UpdateProduct(ctx, 9999, storage.ProductPatch{Price: &price})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	deleted, err := s.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = s.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testProductFilters(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	seed := []models.Product{
		{Name: "Tomatoes", Category: "Vegetables", Price: 2500, MinOrderQuantity: 10, InStock: true},
		{Name: "Apples", Category: "Fruits", Price: 8000, MinOrderQuantity: 20, InStock: true},
		{Name: "Potatoes", Category: "Vegetables", Price: 1800, MinOrderQuantity: 25, InStock: false},
	}
	for i := range seed {
		require.NoError(t, s.CreateProduct(ctx, &seed[i]))
	}

	all, err := s.ListProducts(ctx, storage.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Tomatoes", all[0].Name)
	assert.Equal(t, "Potatoes", all[2].Name)

	veg, err := s.ListProducts(ctx, storage.ProductFilter{Category: "vegetables"})
	require.NoError(t, err)
	assert.Len(t, veg, 2)

	vegInStock, err := s.ListProducts(ctx, storage.ProductFilter{Category: "Vegetables", InStockOnly: true})
	require.NoError(t, err)
	require.Len(t, vegInStock, 1)
	assert.Equal(t, "Tomatoes", vegInStock[0].Name)
}

func newOrder(t *testing.T, email string, items types.LineItems) *models.Order {
	t.Helper()
	items, total, err := items.Priced()
	require.NoError(t, err)
	return &models.Order{
		BuyerName:             "Ravi Kumar",
		Email:                 email,
		Phone:                 "9876543210",
		DeliveryAddress:       "12 Market Road",
		City:                  "Pune",
		State:                 "MH",
		Pincode:               "411001",
		PreferredDeliveryDate: "2025-04-01",
		Items:                 items,
		Status:                enums.OrderStatusPending,
		TotalAmount:           total,
	}
}

func testOrders(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	items := types.LineItems{{ProductID: 1, Name: "Tomatoes", Price: 2500, Quantity: 10}}
	first := newOrder(t, "a@farm.test", items)
	require.NoError(t, s.CreateOrder(ctx, first))
	second := newOrder(t, "b@farm.test", items)
	require.NoError(t, s.CreateOrder(ctx, second))

	got, err := s.GetOrder(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.OrderNumber, got.OrderNumber)
	assert.Equal(t, int64(25000), got.TotalAmount)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(25000), got.Items[0].Subtotal)
	assert.Nil(t, got.UserID)

	byNumber, err := s.GetOrderByNumber(ctx, second.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, second.ID, byNumber.ID)

	_, err = s.GetOrderByNumber(ctx, "AGF-1999-000001")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	all, err := s.ListOrders(ctx, storage.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	mine, err := s.ListOrders(ctx, storage.OrderFilter{Email: "a@farm.test"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	updated, err := s.UpdateOrderStatus(ctx, first.ID, enums.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, updated.Status)
	assert.Equal(t, int64(25000), updated.TotalAmount)
	assert.Equal(t, got.Items, updated.Items)

	_, err = s.UpdateOrderStatus(ctx, 9999, enums.OrderStatusDelivered)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testOrderNumbers(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 1; i <= 5; i++ {
		o := newOrder(t, fmt.Sprintf("buyer%d@farm.test", i), types.LineItems{{ProductID: 1, Name: "Apples", Price: 8000, Quantity: 20}})
		require.NoError(t, s.CreateOrder(ctx, o))
		want := models.FormatOrderNumber(o.CreatedAt, o.ID)
		assert.Equal(t, want, o.OrderNumber)
		assert.False(t, seen[o.OrderNumber], "duplicate order number %s", o.OrderNumber)
		seen[o.OrderNumber] = true

		stored, err := s.GetOrder(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, o.OrderNumber, stored.OrderNumber)
	}
}

func testCarts(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	_, err := s.GetCart(ctx, 7)
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	items := types.LineItems{
		{ProductID: 1, Name: "Tomatoes", Price: 2500, Quantity: 10, Subtotal: 25000},
		{ProductID: 4, Name: "Spinach", Price: 3500, Quantity: 5, Subtotal: 17500},
	}
	cart, err := s.UpdateCart(ctx, 7, items)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cart.UserID)
	assert.Equal(t, items, cart.Items)

	fetched, err := s.GetCart(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, items, fetched.Items)

	replaced, err := s.UpdateCart(ctx, 7, types.LineItems{})
	require.NoError(t, err)
	assert.Equal(t, cart.ID, replaced.ID)
	assert.Empty(t, replaced.Items)

	other, err := s.GetCart(ctx, 8)
	assert.Nil(t, other)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
