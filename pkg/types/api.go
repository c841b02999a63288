package types

import "time"

// User is the public projection of an account; the password hash never leaves
// the service layer.
type User struct {
	ID               int64   `json:"id"`
	Username         string  `json:"username"`
	IsAdmin          bool    `json:"isAdmin"`
	Email            *string `json:"email,omitempty"`
	FullName         *string `json:"fullName,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	PreferredAddress *string `json:"preferredAddress,omitempty"`
	PreferredCity    *string `json:"preferredCity,omitempty"`
	PreferredState   *string `json:"preferredState,omitempty"`
	PreferredPincode *string `json:"preferredPincode,omitempty"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type Product struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	Price            int64   `json:"price"`
	MinOrderQuantity int     `json:"minOrderQuantity"`
	ImageURL         *string `json:"imageUrl"`
	Description      *string `json:"description"`
	InStock          bool    `json:"inStock"`
}

type Order struct {
	ID                    int64     `json:"id"`
	OrderNumber           string    `json:"orderNumber"`
	UserID                *int64    `json:"userId"`
	BuyerName             string    `json:"buyerName"`
	BusinessName          *string   `json:"businessName"`
	Email                 string    `json:"email"`
	Phone                 string    `json:"phone"`
	DeliveryAddress       string    `json:"deliveryAddress"`
	City                  string    `json:"city"`
	State                 string    `json:"state"`
	Pincode               string    `json:"pincode"`
	DeliveryInstructions  *string   `json:"deliveryInstructions"`
	PreferredDeliveryDate string    `json:"preferredDeliveryDate"`
	Items                 LineItems `json:"items"`
	Status                string    `json:"status"`
	TotalAmount           int64     `json:"totalAmount"`
	CreatedAt             time.Time `json:"createdAt"`
}

// OrderTracking is the public projection served by order-number lookup. It
// carries no buyer contact or address data.
type OrderTracking struct {
	ID                    int64     `json:"id"`
	OrderNumber           string    `json:"orderNumber"`
	Status                string    `json:"status"`
	CreatedAt             time.Time `json:"createdAt"`
	PreferredDeliveryDate string    `json:"preferredDeliveryDate"`
	TotalAmount           int64     `json:"totalAmount"`
}

type Cart struct {
	ID        int64      `json:"id,omitempty"`
	UserID    int64      `json:"userId,omitempty"`
	Items     LineItems  `json:"items"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

// RegisterRequest deliberately has no isAdmin field; with unknown fields
// disallowed a payload carrying one is rejected.
type RegisterRequest struct {
	Username         string  `json:"username" validate:"required,min=3,max=100"`
	Password         string  `json:"password" validate:"required,min=6,max=200"`
	Email            *string `json:"email,omitempty" validate:"omitempty,email"`
	FullName         *string `json:"fullName,omitempty" validate:"omitempty,max=200"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	PreferredAddress *string `json:"preferredAddress,omitempty" validate:"omitempty,max=500"`
	PreferredCity    *string `json:"preferredCity,omitempty" validate:"omitempty,max=100"`
	PreferredState   *string `json:"preferredState,omitempty" validate:"omitempty,max=100"`
	PreferredPincode *string `json:"preferredPincode,omitempty" validate:"omitempty,max=20"`
}

type CreateProductRequest struct {
	Name             string  `json:"name" validate:"required,max=200"`
	Category         string  `json:"category,omitempty" validate:"omitempty,max=100"`
	Price            int64   `json:"price" validate:"required,gt=0"`
	MinOrderQuantity int     `json:"minOrderQuantity" validate:"required,gt=0"`
	ImageURL         *string `json:"imageUrl,omitempty" validate:"omitempty,max=2048"`
	Description      *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	InStock          *bool   `json:"inStock,omitempty"`
}

// UpdateProductRequest is a partial update; nil fields are left unchanged.
type UpdateProductRequest struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category         *string `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Price            *int64  `json:"price,omitempty" validate:"omitempty,gt=0"`
	MinOrderQuantity *int    `json:"minOrderQuantity,omitempty" validate:"omitempty,gt=0"`
	ImageURL         *string `json:"imageUrl,omitempty" validate:"omitempty,max=2048"`
	Description      *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	InStock          *bool   `json:"inStock,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (r UpdateProductRequest) IsEmpty() bool {
	return r.Name == nil && r.Category == nil && r.Price == nil && r.MinOrderQuantity == nil &&
		r.ImageURL == nil && r.Description == nil && r.InStock == nil
}

// OrderItemRequest references a catalog product. Name, Price and Subtotal are
// accepted so a client can echo its cart snapshot, but the server prices the
// order from the catalog.
type OrderItemRequest struct {
	ProductID int64   `json:"productId" validate:"required,gt=0"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	Name      *string `json:"name,omitempty"`
	Price     *int64  `json:"price,omitempty"`
	Subtotal  *int64  `json:"subtotal,omitempty"`
}

type CreateOrderRequest struct {
	BuyerName             string             `json:"buyerName" validate:"required,max=200"`
	BusinessName          *string            `json:"businessName,omitempty" validate:"omitempty,max=200"`
	Email                 string             `json:"email" validate:"required,max=200"`
	Phone                 string             `json:"phone" validate:"required,max=30"`
	DeliveryAddress       string             `json:"deliveryAddress" validate:"required,max=500"`
	City                  string             `json:"city" validate:"required,max=100"`
	State                 string             `json:"state" validate:"required,max=100"`
	Pincode               string             `json:"pincode" validate:"required,max=20"`
	DeliveryInstructions  *string            `json:"deliveryInstructions,omitempty" validate:"omitempty,max=1000"`
	PreferredDeliveryDate string             `json:"preferredDeliveryDate" validate:"required,max=50"`
	Items                 []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalAmount           *int64             `json:"totalAmount,omitempty" validate:"omitempty,gte=0"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateCartRequest replaces the caller's cart. Items is a pointer so a
// missing or null array can be told apart from an empty one.
type UpdateCartRequest struct {
	Items *LineItems `json:"items" validate:"required"`
}
