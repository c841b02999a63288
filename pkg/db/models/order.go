package models

import (
	"time"

	"github.com/agrofix/agrofix-backend/pkg/enums"
	"github.com/agrofix/agrofix-backend/pkg/types"
)

// Order is a placed bulk order. Items and TotalAmount are frozen at creation;
// Status is the only column updated afterwards.
type Order struct {
	ID                    int64             `gorm:"column:id;primaryKey;autoIncrement"`
	OrderNumber           string            `gorm:"column:order_number;not null;uniqueIndex"`
	UserID                *int64            `gorm:"column:user_id;index"`
	BuyerName             string            `gorm:"column:buyer_name;not null"`
	BusinessName          *string           `gorm:"column:business_name"`
	Email                 string            `gorm:"column:email;not null;index"`
	Phone                 string            `gorm:"column:phone;not null"`
	DeliveryAddress       string            `gorm:"column:delivery_address;not null"`
	City                  string            `gorm:"column:city;not null"`
	State                 string            `gorm:"column:state;not null"`
	Pincode               string            `gorm:"column:pincode;not null"`
	DeliveryInstructions  *string           `gorm:"column:delivery_instructions"`
	PreferredDeliveryDate string            `gorm:"column:preferred_delivery_date;not null"`
	Items                 types.LineItems   `gorm:"column:items;type:jsonb;serializer:json;not null"`
	Status                enums.OrderStatus `gorm:"column:status;not null"`
	TotalAmount           int64             `gorm:"column:total_amount;not null"`
	CreatedAt             time.Time         `gorm:"column:created_at;autoCreateTime"`
}
