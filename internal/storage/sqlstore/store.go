// Package sqlstore implements storage.Storage on GORM for Postgres and sqlite.
package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrofix/agrofix-backend/internal/storage"
	"github.com/agrofix/agrofix-backend/pkg/db"
	"github.com/agrofix/agrofix-backend/pkg/db/models"
	"gorm.io/gorm"
)

type Store struct {
	client *db.Client
}

var _ storage.Storage = (*Store)(nil)

func New(client *db.Client) *Store {
	return &Store{client: client}
}

// AutoMigrate creates or updates the tables from the models. Postgres
// deployments use the goose migrations instead; sqlite relies on this.
func (s *Store) AutoMigrate(ctx context.Context) error {
	if err := s.client.DB().WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.Cart{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.client.DB().WithContext(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return storage.ErrNotFound
	case db.IsUniqueViolation(err, ""):
		return fmt.Errorf("%w: %v", storage.ErrConflict, err)
	default:
		return err
	}
}
