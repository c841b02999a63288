package seed

import "github.com/agrofix/agrofix-backend/pkg/db/models"

func str(v string) *string { return &v }

// SampleProducts is the demo catalog. Prices are per kilogram in paise.
var SampleProducts = []models.Product{
	{
		Name:             "Tomatoes",
		Category:         "Vegetables",
		Price:            2500,
		MinOrderQuantity: 10,
		ImageURL:         str("https://images.unsplash.com/photo-1592924357228-91a4daadcfea"),
		Description:      str("Farm-fresh red tomatoes, sorted and crated."),
		InStock:          true,
	},
	{
		Name:             "Apples",
		Category:         "Fruits",
		Price:            8000,
		MinOrderQuantity: 20,
		ImageURL:         str("https://images.unsplash.com/photo-1560806887-1e4cd0b6cbd6"),
		Description:      str("Crisp Himalayan apples."),
		InStock:          true,
	},
	{
		Name:             "Potatoes",
		Category:         "Vegetables",
		Price:            1800,
		MinOrderQuantity: 25,
		ImageURL:         str("https://images.unsplash.com/photo-1518977676601-b53f82aba655"),
		Description:      str("Table potatoes in 25kg sacks."),
		InStock:          true,
	},
	{
		Name:             "Spinach",
		Category:         "Leafy Greens",
		Price:            3500,
		MinOrderQuantity: 5,
		ImageURL:         str("https://images.unsplash.com/photo-1576045057995-568f588f82fb"),
		Description:      str("Tender spinach bunches, harvested daily."),
		InStock:          true,
	},
}

// SampleOrder carries the buyer fields of the demo order; items and totals are
// filled from the first seeded product.
var SampleOrder = models.Order{
	BuyerName:             "Ravi Kumar",
	BusinessName:          str("Kumar Fresh Mart"),
	Email:                 "ravi@example.com",
	Phone:                 "9876543210",
	DeliveryAddress:       "12 Market Road",
	City:                  "Pune",
	State:                 "Maharashtra",
	Pincode:               "411001",
	PreferredDeliveryDate: "2025-06-01",
}
