// Package seed loads the sample catalog, a sample order and the admin account.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agrofix/agrofix-backend/internal/storage"
	"github.com/agrofix/agrofix-backend/pkg/config"
	"github.com/agrofix/agrofix-backend/pkg/db/models"
	"github.com/agrofix/agrofix-backend/pkg/enums"
	"github.com/agrofix/agrofix-backend/pkg/logger"
	"github.com/agrofix/agrofix-backend/pkg/security"
	"github.com/agrofix/agrofix-backend/pkg/types"
	"go.uber.org/multierr"
)

const tempPasswordLength = 20

type hasher interface {
	Hash(password string) (string, error)
}

// Result reports what Run created. GeneratedPassword is set only when the
// admin account was created without a configured password.
type Result struct {
	ProductsCreated   int
	OrderCreated      bool
	AdminCreated      bool
	GeneratedPassword string
}

type Seeder struct {
	store  storage.Storage
	hasher hasher
	cfg    config.SeedConfig
	logg   *logger.Logger
	now    func() time.Time
}

func New(store storage.Storage, hasher hasher, cfg config.SeedConfig, logg *logger.Logger) (*Seeder, error) {
	if store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Seeder{store: store, hasher: hasher, cfg: cfg, logg: logg, now: time.Now}, nil
}

// Run is idempotent: products are only added to an empty catalog, the sample
// order only when no orders exist and the admin only when the username is free.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	products, err := s.seedProducts(ctx)
	if err != nil {
		return nil, err
	}
	res.ProductsCreated = len(products)

	if len(products) > 0 {
		created, err := s.seedOrder(ctx, products[0])
		if err != nil {
			return nil, err
		}
		res.OrderCreated = created
	}

	generated, created, err := s.seedAdmin(ctx)
	if err != nil {
		return nil, err
	}
	res.AdminCreated = created
	res.GeneratedPassword = generated

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"products_created": res.ProductsCreated,
		"order_created":    res.OrderCreated,
		"admin_created":    res.AdminCreated,
	}), "seed.completed")
	return res, nil
}

func (s *Seeder) seedProducts(ctx context.Context) ([]models.Product, error) {
	existing, err := s.store.ListProducts(ctx, storage.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if len(existing) > 0 {
		return nil, nil
	}

	created := make([]models.Product, 0, len(SampleProducts))
	var errs error
	for _, p := range SampleProducts {
		row := p
		if err := s.store.CreateProduct(ctx, &row); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("create product %s: %w", p.Name, err))
			continue
		}
		created = append(created, row)
	}
	return created, errs
}

func (s *Seeder) seedOrder(ctx context.Context, product models.Product) (bool, error) {
	existing, err := s.store.ListOrders(ctx, storage.OrderFilter{})
	if err != nil {
		return false, fmt.Errorf("list orders: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	items, total, err := types.LineItems{{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  product.MinOrderQuantity,
	}}.Priced()
	if err != nil {
		return false, fmt.Errorf("price sample order: %w", err)
	}
	order := SampleOrder
	order.Items = items
	order.TotalAmount = total
	order.Status = enums.OrderStatusPending
	order.CreatedAt = s.now()

	if err := s.store.CreateOrder(ctx, &order); err != nil {
		return false, fmt.Errorf("create sample order: %w", err)
	}
	s.logg.Info(s.logg.WithOrderNumber(ctx, order.OrderNumber), "seed.order_created")
	return true, nil
}

func (s *Seeder) seedAdmin(ctx context.Context) (string, bool, error) {
	username := strings.TrimSpace(s.cfg.AdminUsername)
	if username == "" {
		return "", false, nil
	}

	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return "", false, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return "", false, fmt.Errorf("lookup admin: %w", err)
	}

	password := s.cfg.AdminPassword
	generated := ""
	if password == "" {
		var err error
		password, err = security.GenerateTempPassword(tempPasswordLength)
		if err != nil {
			return "", false, fmt.Errorf("generate admin password: %w", err)
		}
		generated = password
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", false, fmt.Errorf("hash admin password: %w", err)
	}

	if err := s.store.CreateUser(ctx, &models.User{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      true,
	}); err != nil {
		return "", false, fmt.Errorf("create admin: %w", err)
	}

	ctx = s.logg.WithField(ctx, "username", username)
	if generated != "" {
		// printed once; it is never stored in plain text
		s.logg.Warn(s.logg.WithField(ctx, "password", generated), "seed.admin_created_with_generated_password")
	} else {
		s.logg.Info(ctx, "seed.admin_created")
	}
	return generated, true, nil
}
