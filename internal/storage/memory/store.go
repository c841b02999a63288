// Package memory is a map-backed Storage used for development, the CLI demo
// server and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/agrofix/agrofix-backend/internal/storage"
	"github.com/agrofix/agrofix-backend/pkg/db/models"
	"github.com/agrofix/agrofix-backend/pkg/enums"
	"github.com/agrofix/agrofix-backend/pkg/types"
)

type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users    map[int64]models.User
	products map[int64]models.Product
	orders   map[int64]models.Order
	carts    map[int64]models.Cart // keyed by user id

	nextUserID    int64
	nextProductID int64
	nextOrderID   int64
	nextCartID    int64
}

var _ storage.Storage = (*Store)(nil)

type Option func(*Store)

// WithClock overrides the time source used for CreatedAt/UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		now:           time.Now,
		users:         map[int64]models.User{},
		products:      map[int64]models.Product{},
		orders:        map[int64]models.Order{},
		carts:         map[int64]models.Cart{},
		nextUserID:    1,
		nextProductID: 1,
		nextOrderID:   1,
		nextCartID:    1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) GetUser(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return storage.ErrConflict
		}
	}

	user.ID = s.nextUserID
	s.nextUserID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) ListProducts(_ context.Context, filter storage.ProductFilter) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if filter.InStockOnly && !p.InStock {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetProduct(_ context.Context, id int64) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (s *Store) CreateProduct(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product.ID = s.nextProductID
	s.nextProductID++
	now := s.now()
	product.CreatedAt = now
	product.UpdatedAt = now
	s.products[product.ID] = *product
	return nil
}

func (s *Store) UpdateProduct(_ context.Context, id int64, patch storage.ProductPatch) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	applyPatch(&p, patch)
	p.UpdatedAt = s.now()
	s.products[id] = p
	return &p, nil
}

func applyPatch(p *models.Product, patch storage.ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.MinOrderQuantity != nil {
		p.MinOrderQuantity = *patch.MinOrderQuantity
	}
	if patch.ImageURL != nil {
		p.ImageURL = cloneString(patch.ImageURL)
	}
	if patch.Description != nil {
		p.Description = cloneString(patch.Description)
	}
	if patch.InStock != nil {
		p.InStock = *patch.InStock
	}
}

func (s *Store) DeleteProduct(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return false, nil
	}
	delete(s.products, id)
	return true, nil
}

// ListOrders returns newest first.
func (s *Store) ListOrders(_ context.Context, filter storage.OrderFilter) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if filter.Email != "" && o.Email != filter.Email {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) GetOrder(_ context.Context, id int64) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (s *Store) GetOrderByNumber(_ context.Context, orderNumber string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if o.OrderNumber == orderNumber {
			o = cloneOrder(o)
			return &o, nil
		}
	}
	return nil, storage.ErrNotFound
}

// CreateOrder numbers the order from the id counter, which is max id + 1
// because orders are never deleted.
func (s *Store) CreateOrder(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = s.nextOrderID
	s.nextOrderID++
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.now()
	}
	order.OrderNumber = models.FormatOrderNumber(order.CreatedAt, order.ID)
	order.Items = cloneItems(order.Items)
	s.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, id int64, status enums.OrderStatus) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	o.Status = status
	s.orders[id] = o
	o = cloneOrder(o)
	return &o, nil
}

func (s *Store) GetCart(_ context.Context, userID int64) (*models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c.Items = cloneItems(c.Items)
	return &c, nil
}

func (s *Store) UpdateCart(_ context.Context, userID int64, items types.LineItems) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[userID]
	if !ok {
		c = models.Cart{ID: s.nextCartID, UserID: userID}
		s.nextCartID++
	}
	c.Items = cloneItems(items)
	c.UpdatedAt = s.now()
	s.carts[userID] = c

	c.Items = cloneItems(c.Items)
	return &c, nil
}

func cloneOrder(o models.Order) models.Order {
	o.Items = cloneItems(o.Items)
	return o
}

func cloneItems(items types.LineItems) types.LineItems {
	out := make(types.LineItems, len(items))
	copy(out, items)
	return out
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}
