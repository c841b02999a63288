package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrofix/agrofix-backend/internal/storage"
	"github.com/agrofix/agrofix-backend/pkg/db/models"
	pkgerrors "github.com/agrofix/agrofix-backend/pkg/errors"
	"github.com/agrofix/agrofix-backend/pkg/types"
)

// Service exposes read access to account profiles.
type Service interface {
	Get(ctx context.Context, id int64) (*types.User, error)
}

type service struct {
	store storage.UserStore
}

func NewService(store storage.UserStore) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("user store is required")
	}
	return &service{store: store}, nil
}

func (s *service) Get(ctx context.Context, id int64) (*types.User, error) {
	row, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "get user")
	}
	dto := FromModel(row)
	return &dto, nil
}

// FromModel is the transport shape; it never carries the password hash.
func FromModel(u *models.User) types.User {
	if u == nil {
		return types.User{}
	}
	return types.User{
		ID:               u.ID,
		Username:         u.Username,
		IsAdmin:          u.IsAdmin,
		Email:            u.Email,
		FullName:         u.FullName,
		Phone:            u.Phone,
		PreferredAddress: u.PreferredAddress,
		PreferredCity:    u.PreferredCity,
		PreferredState:   u.PreferredState,
		PreferredPincode: u.PreferredPincode,
	}
}
