package sqlstore

import (
	"context"
	"time"

	"github.com/agrofix/agrofix-backend/pkg/db/models"
	"github.com/agrofix/agrofix-backend/pkg/types"
	"gorm.io/gorm/clause"
)

func (s *Store) GetCart(ctx context.Context, userID int64) (*models.Cart, error) {
	var cart models.Cart
	if err := s.conn(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (s *Store) UpdateCart(ctx context.Context, userID int64, items types.LineItems) (*models.Cart, error) {
	if items == nil {
		items = types.LineItems{}
	}
	cart := models.Cart{UserID: userID, Items: items, UpdatedAt: time.Now()}
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
	}).Create(&cart).Error
	if err != nil {
		return nil, translate(err)
	}
	return s.GetCart(ctx, userID)
}
