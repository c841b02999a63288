package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agrofix/agrofix-backend/internal/storage"
	"github.com/agrofix/agrofix-backend/pkg/db/models"
	pkgerrors "github.com/agrofix/agrofix-backend/pkg/errors"
	"github.com/agrofix/agrofix-backend/pkg/types"
)

// Service reads and replaces a user's server-side cart snapshot.
type Service interface {
	Get(ctx context.Context, userID int64) (*types.Cart, error)
	Replace(ctx context.Context, userID int64, items types.LineItems) (*types.Cart, error)
}

type replaceRecorder interface {
	CartReplaced()
}

type noopRecorder struct{}

func (noopRecorder) CartReplaced() {}

type service struct {
	store   storage.CartStore
	metrics replaceRecorder
}

func NewService(store storage.CartStore, metrics replaceRecorder) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store is required")
	}
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &service{store: store, metrics: metrics}, nil
}

func (s *service) Get(ctx context.Context, userID int64) (*types.Cart, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	row, err := s.store.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &types.Cart{Items: types.LineItems{}}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "get cart")
	}
	dto := FromModel(*row)
	return &dto, nil
}

func (s *service) Replace(ctx context.Context, userID int64, items types.LineItems) (*types.Cart, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}
	normalized, err := normalize(items)
	if err != nil {
		return nil, err
	}
	row, err := s.store.UpdateCart(ctx, userID, normalized)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart")
	}
	s.metrics.CartReplaced()
	dto := FromModel(*row)
	return &dto, nil
}

func validateItems(items types.LineItems) error {
	details := map[string]string{}
	seen := make(map[int64]struct{}, len(items))
	for i, item := range items {
		prefix := fmt.Sprintf("items[%d]", i)
		if item.ProductID <= 0 {
			details[prefix+".productId"] = "must be a positive integer"
		} else if _, dup := seen[item.ProductID]; dup {
			details[prefix+".productId"] = "appears more than once"
		}
		seen[item.ProductID] = struct{}{}
		if item.Quantity <= 0 {
			details[prefix+".quantity"] = "must be a positive integer"
		}
		if item.Price < 0 {
			details[prefix+".price"] = "must not be negative"
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid cart items").WithDetails(details)
	}
	return nil
}

// normalize trims names and recomputes subtotals. Prices here come from the
// client, so an overflowing line is a validation failure.
func normalize(items types.LineItems) (types.LineItems, error) {
	out := make(types.LineItems, 0, len(items))
	for _, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		out = append(out, item)
	}
	priced, _, err := out.Priced()
	if err != nil {
		var overflow *types.LineOverflowError
		if errors.As(err, &overflow) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cart items").
				WithDetails(map[string]string{fmt.Sprintf("items[%d].quantity", overflow.Index): "cart amount is too large"})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart items")
	}
	return priced, nil
}

func FromModel(m models.Cart) types.Cart {
	items := m.Items
	if items == nil {
		items = types.LineItems{}
	}
	updated := m.UpdatedAt
	return types.Cart{
		ID:        m.ID,
		UserID:    m.UserID,
		Items:     items,
		UpdatedAt: &updated,
	}
}
