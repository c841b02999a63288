package cart

import (
	"context"
	"math"
	"testing"

	"github.com/agrofix/agrofix-backend/internal/storage/memory"
	pkgerrors "github.com/agrofix/agrofix-backend/pkg/errors"
	"github.com/agrofix/agrofix-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMetrics struct{ replaced int }

func (c *countingMetrics) CartReplaced() { c.replaced++ }

func TestGetEmptyCart(t *testing.T) {
	svc, err := NewService(memory.New(), nil)
	require.NoError(t, err)

	cart, err := svc.Get(context.Background(), 9)
	require.NoError(t, err)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assert.Nil(t, cart.UpdatedAt)
}

func TestReplaceThenGetRoundTrips(t *testing.T) {
	rec := &countingMetrics{}
	svc, err := NewService(memory.New(), rec)
	require.NoError(t, err)
	ctx := context.Background()

	pushed := types.LineItems{
		{ProductID: 1, Name: "Tomatoes", Price: 2500, Quantity: 10, Subtotal: 1},
		{ProductID: 3, Name: "Potatoes", Price: 1800, Quantity: 25},
	}
	saved, err := svc.Replace(ctx, 5, pushed)
	require.NoError(t, err)
	assert.Equal(t, int64(25000), saved.Items[0].Subtotal)
	assert.Equal(t, int64(45000), saved.Items[1].Subtotal)

	fetched, err := svc.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, saved.Items, fetched.Items)
	assert.Equal(t, int64(70000), fetched.Items.Total())

	_, err = svc.Replace(ctx, 5, types.LineItems{})
	require.NoError(t, err)
	fetched, err = svc.Get(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, fetched.Items)
	assert.Equal(t, 2, rec.replaced)
}

func TestReplaceValidation(t *testing.T) {
	svc, err := NewService(memory.New(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	bad := []types.LineItems{
		{{ProductID: 1, Price: 100, Quantity: 0}},
		{{ProductID: 0, Price: 100, Quantity: 1}},
		{{ProductID: 1, Price: -1, Quantity: 1}},
		{{ProductID: 1, Price: 100, Quantity: 1}, {ProductID: 1, Price: 100, Quantity: 2}},
	}
	for _, items := range bad {
		_, err := svc.Replace(ctx, 1, items)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "items %+v: %v", items, err)
	}

	_, err = svc.Replace(ctx, 0, types.LineItems{})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))
}

func TestReplaceRejectsAmountOverflow(t *testing.T) {
	svc, err := NewService(memory.New(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	kept := types.LineItems{{ProductID: 1, Name: "Tomatoes", Price: 2500, Quantity: 10}}
	_, err = svc.Replace(ctx, 3, kept)
	require.NoError(t, err)

	overflowing := []types.LineItems{
		{{ProductID: 1, Name: "Tomatoes", Price: 2500, Quantity: int(math.MaxInt64/2500 + 10)}},
		{
			{ProductID: 1, Name: "Tomatoes", Price: math.MaxInt64 / 2, Quantity: 1},
			{ProductID: 2, Name: "Apples", Price: math.MaxInt64 / 2, Quantity: 1},
			{ProductID: 3, Name: "Potatoes", Price: 10, Quantity: 1},
		},
	}
	for _, items := range overflowing {
		_, err := svc.Replace(ctx, 3, items)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "items %+v: %v", items, err)
	}

	fetched, err := svc.Get(ctx, 3)
	require.NoError(t, err)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, int64(25000), fetched.Items.Total())
}
