package memory

import (
	"context"
	"testing"
	"time"

	"github.com/agrofix/agrofix-backend/internal/storage"
	"github.com/agrofix/agrofix-backend/internal/storage/storagetest"
	"github.com/agrofix/agrofix-backend/pkg/db/models"
	"github.com/agrofix/agrofix-backend/pkg/types"
)

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage { return New() })
}

func TestCreateOrderUsesClockYear(t *testing.T) {
	clock := func() time.Time { return time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC) }
	s := New(WithClock(clock))

	order := &models.Order{Email: "x@y.z", Items: types.LineItems{}}
	if err := s.CreateOrder(context.Background(), order); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.OrderNumber != "AGF-2024-000001" {
		t.Fatalf("unexpected order number %q", order.OrderNumber)
	}
}

func TestReturnedOrdersAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	order := &models.Order{Email: "x@y.z", Items: types.LineItems{{ProductID: 1, Name: "Apples", Price: 8000, Quantity: 20, Subtotal: 160000}}}
	if err := s.CreateOrder(ctx, order); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	got, _ := s.GetOrder(ctx, order.ID)
	got.Items[0].Quantity = 1
	order.Items[0].Quantity = 2

	again, _ := s.GetOrder(ctx, order.ID)
	if again.Items[0].Quantity != 20 {
		t.Fatalf("stored items were mutated through a returned value: %+v", again.Items)
	}
}
