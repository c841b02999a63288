package models

import "time"

// Product is a catalog listing. Price is in minor currency units per unit of
// sale; MinOrderQuantity is the smallest quantity a buyer may order.
type Product struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name             string    `gorm:"column:name;not null"`
	Category         string    `gorm:"column:category;not null;index"`
	Price            int64     `gorm:"column:price;not null"`
	MinOrderQuantity int       `gorm:"column:min_order_quantity;not null"`
	ImageURL         *string   `gorm:"column:image_url"`
	Description      *string   `gorm:"column:description"`
	InStock          bool      `gorm:"column:in_stock;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
