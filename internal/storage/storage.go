// Package storage defines the persistence contract shared by the in-memory and
// relational implementations.
package storage

import (
	"context"
	"errors"

	"github.com/agrofix/agrofix-backend/pkg/db/models"
	"github.com/agrofix/agrofix-backend/pkg/enums"
	"github.com/agrofix/agrofix-backend/pkg/types"
)

var (
	// ErrNotFound is returned by lookups and updates that reference a missing row.
	ErrNotFound = errors.New("storage: not found")
	// ErrConflict is returned when a unique column would be duplicated.
	ErrConflict = errors.New("storage: conflict")
)

type ProductFilter struct {
	Category    string
	InStockOnly bool
}

// OrderFilter narrows order listings. An empty Email lists every order.
type OrderFilter struct {
	Email string
}

// ProductPatch holds the columns to change; nil fields are left untouched.
type ProductPatch struct {
	Name             *string
	Category         *string
	Price            *int64
	MinOrderQuantity *int
	ImageURL         *string
	Description      *string
	InStock          *bool
}

type UserStore interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// CreateUser assigns ID and CreatedAt on the passed model.
	CreateUser(ctx context.Context, user *models.User) error
}

type ProductStore interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, id int64, patch ProductPatch) (*models.Product, error)
	// DeleteProduct reports false with a nil error when id does not exist.
	DeleteProduct(ctx context.Context, id int64) (bool, error)
}

type OrderStore interface {
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	// CreateOrder assigns ID, OrderNumber and CreatedAt on the passed model.
	CreateOrder(ctx context.Context, order *models.Order) error
	UpdateOrderStatus(ctx context.Context, id int64, status enums.OrderStatus) (*models.Order, error)
}

type CartStore interface {
	GetCart(ctx context.Context, userID int64) (*models.Cart, error)
	// UpdateCart creates the cart on first use and replaces its items afterwards.
	UpdateCart(ctx context.Context, userID int64, items types.LineItems) (*models.Cart, error)
}

// Storage is the full persistence surface used by the API.
type Storage interface {
	UserStore
	ProductStore
	OrderStore
	CartStore
	Ping(ctx context.Context) error
	Close() error
}
