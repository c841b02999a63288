package products

import (
	"github.com/agrofix/agrofix-backend/pkg/db/models"
	"github.com/agrofix/agrofix-backend/pkg/types"
)

// FromModel maps a stored product to its API shape.
func FromModel(m models.Product) types.Product {
	return types.Product{
		ID:               m.ID,
		Name:             m.Name,
		Category:         m.Category,
		Price:            m.Price,
		MinOrderQuantity: m.MinOrderQuantity,
		ImageURL:         m.ImageURL,
		Description:      m.Description,
		InStock:          m.InStock,
	}
}
