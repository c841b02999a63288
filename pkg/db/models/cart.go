package models

import (
	"time"

	"github.com/agrofix/agrofix-backend/pkg/types"
)

// Cart is the server copy of a user's cart. Items are replaced wholesale on
// every sync.
type Cart struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64           `gorm:"column:user_id;not null;uniqueIndex"`
	Items     types.LineItems `gorm:"column:items;type:jsonb;serializer:json;not null"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
