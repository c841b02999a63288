package sqlstore

import (
	"context"

	"github.com/agrofix/agrofix-backend/internal/storage"
	"github.com/agrofix/agrofix-backend/pkg/db/models"
	"github.com/agrofix/agrofix-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) ListOrders(ctx context.Context, filter storage.OrderFilter) ([]models.Order, error) {
	query := s.conn(ctx).Model(&models.Order{})
	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}

	var orders []models.Order
	if err := query.Order("id DESC").Find(&orders).Error; err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

func (s *Store) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	if err := s.conn(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (s *Store) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := s.conn(ctx).Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// CreateOrder inserts under a unique placeholder number and then derives the
// real number from the row id inside the same transaction, so two concurrent
// inserts can never share a number.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		order.OrderNumber = "pending-" + uuid.NewString()
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		order.OrderNumber = models.FormatOrderNumber(order.CreatedAt, order.ID)
		return tx.Model(order).UpdateColumn("order_number", order.OrderNumber).Error
	})
	return translate(err)
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, status enums.OrderStatus) (*models.Order, error) {
	res := s.conn(ctx).Model(&models.Order{}).Where("id = ?", id).UpdateColumn("status", status)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, storage.ErrNotFound
	}
	return s.GetOrder(ctx, id)
}
