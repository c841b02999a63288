package sqlstore

import (
	"context"
	"strings"

	"github.com/agrofix/agrofix-backend/internal/storage"
	"github.com/agrofix/agrofix-backend/pkg/db/models"
	"gorm.io/gorm"
)

func (s *Store) ListProducts(ctx context.Context, filter storage.ProductFilter) ([]models.Product, error) {
	query := s.conn(ctx).Model(&models.Product{})
	if filter.Category != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(filter.Category))
	}
	if filter.InStockOnly {
		query = query.Where("in_stock = ?", true)
	}

	var products []models.Product
	if err := query.Order("id ASC").Find(&products).Error; err != nil {
		return nil, translate(err)
	}
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := s.conn(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	return translate(s.conn(ctx).Create(product).Error)
}

func (s *Store) UpdateProduct(ctx context.Context, id int64, patch storage.ProductPatch) (*models.Product, error) {
	var product models.Product
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			return err
		}
		updates := patchColumns(patch)
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&product).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&product, "id = ?", id).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// patchColumns uses a map so false and empty values are written, which a
// struct-based Updates would skip.
func patchColumns(patch storage.ProductPatch) map[string]any {
	updates := map[string]any{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.Price != nil {
		updates["price"] = *patch.Price
	}
	if patch.MinOrderQuantity != nil {
		updates["min_order_quantity"] = *patch.MinOrderQuantity
	}
	if patch.ImageURL != nil {
		updates["image_url"] = *patch.ImageURL
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.InStock != nil {
		updates["in_stock"] = *patch.InStock
	}
	return updates
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	res := s.conn(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}
