package products

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

// DefaultCategory is applied when a product is created without one.
const DefaultCategory = "General"

// Service exposes catalog reads and admin catalog management.
type Service interface {
	List(ctx context.Context, filter storage.ProductFilter) ([]types.Product, error)
	Get(ctx context.Context, id int64) (*types.Product, error)
	Create(ctx context.Context, req types.CreateProductRequest) (*types.Product, error)
	Update(ctx context.Context, id int64, req types.UpdateProductRequest) (*types.Product, error)
	Delete(ctx context.Context, id int64) error
}

type changeRecorder interface {
	ProductChanged(action string)
}

type noopRecorder struct{}

func (noopRecorder) ProductChanged(string) {}

type service struct {
	store   storage.ProductStore
	metrics changeRecorder
}

// NewService builds the product service. metrics may be nil.
func NewService(store storage.ProductStore, metrics changeRecorder) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("product store is required")
	}
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &service{store: store, metrics: metrics}, nil
}

func (s *service) List(ctx context.Context, filter storage.ProductFilter) ([]types.Product, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	rows, err := s.store.ListProducts(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	out := make([]types.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id int64) (*types.Product, error) {
	row, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "get product")
	}
	dto := FromModel(*row)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, req types.CreateProductRequest) (*types.Product, error) {
	model, err := newProductModel(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateProduct(ctx, model); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	s.metrics.ProductChanged("create")
	dto := FromModel(*model)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id int64, req types.UpdateProductRequest) (*types.Product, error) {
	patch, err := toPatch(req)
	if err != nil {
		return nil, err
	}
	row, err := s.store.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, mapStoreError(err, "update product")
	}
	s.metrics.ProductChanged("update")
	dto := FromModel(*row)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	s.metrics.ProductChanged("delete")
	return nil
}

func newProductModel(req types.CreateProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationError("name", "is required")
	}
	if req.Price <= 0 {
		return nil, validationError("price", "must be a positive integer")
	}
	if req.MinOrderQuantity <= 0 {
		return nil, validationError("minOrderQuantity", "must be a positive integer")
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = DefaultCategory
	}
	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}
	return &models.Product{
		Name:             name,
		Category:         category,
		Price:            req.Price,
		MinOrderQuantity: req.MinOrderQuantity,
		ImageURL:         trimmedOrNil(req.ImageURL),
		Description:      trimmedOrNil(req.Description),
		InStock:          inStock,
	}, nil
}

func toPatch(req types.UpdateProductRequest) (storage.ProductPatch, error) {
	patch := storage.ProductPatch{
		Price:            req.Price,
		MinOrderQuantity: req.MinOrderQuantity,
		ImageURL:         req.ImageURL,
		Description:      req.Description,
		InStock:          req.InStock,
	}
	if req.Price != nil && *req.Price <= 0 {
		return patch, validationError("price", "must be a positive integer")
	}
	if req.MinOrderQuantity != nil && *req.MinOrderQuantity <= 0 {
		return patch, validationError("minOrderQuantity", "must be a positive integer")
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return patch, validationError("name", "must not be blank")
		}
		patch.Name = &name
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return patch, validationError("category", "must not be blank")
		}
		patch.Category = &category
	}
	return patch, nil
}

func validationError(field, reason string) error {
	return pkgerrors.Newf(pkgerrors.CodeValidation, "%s %s", field, reason).
		WithDetails(map[string]string{field: reason})
}

func mapStoreError(err error, action string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
