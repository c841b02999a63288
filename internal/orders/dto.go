package orders

import (
	"github.com/agrofix/agrofix-backend/pkg/db/models"
	"github.com/agrofix/agrofix-backend/pkg/types"
)

func FromModel(m models.Order) types.Order {
	items := m.Items
	if items == nil {
		items = types.LineItems{}
	}
	return types.Order{
		ID:                    m.ID,
		OrderNumber:           m.OrderNumber,
		UserID:                m.UserID,
		BuyerName:             m.BuyerName,
		BusinessName:          m.BusinessName,
		Email:                 m.Email,
		Phone:                 m.Phone,
		DeliveryAddress:       m.DeliveryAddress,
		City:                  m.City,
		State:                 m.State,
		Pincode:               m.Pincode,
		DeliveryInstructions:  m.DeliveryInstructions,
		PreferredDeliveryDate: m.PreferredDeliveryDate,
		Items:                 items,
		Status:                m.Status.String(),
		TotalAmount:           m.TotalAmount,
		CreatedAt:             m.CreatedAt,
	}
}

// TrackingFromModel drops every buyer field; the result is safe for
// unauthenticated callers.
func TrackingFromModel(m models.Order) types.OrderTracking {
	return types.OrderTracking{
		ID:                    m.ID,
		OrderNumber:           m.OrderNumber,
		Status:                m.Status.String(),
		CreatedAt:             m.CreatedAt,
		PreferredDeliveryDate: m.PreferredDeliveryDate,
		TotalAmount:           m.TotalAmount,
	}
}
