package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agrofix/agrofix-backend/internal/storage"
	pkgAuth "github.com/agrofix/agrofix-backend/pkg/auth"
	"github.com/agrofix/agrofix-backend/pkg/db/models"
	"github.com/agrofix/agrofix-backend/pkg/enums"
	pkgerrors "github.com/agrofix/agrofix-backend/pkg/errors"
	"github.com/agrofix/agrofix-backend/pkg/types"
)

// Service covers order placement, buyer/admin reads, status changes and
// public tracking.
type Service interface {
	List(ctx context.Context, principal *pkgAuth.Principal) ([]types.Order, error)
	Get(ctx context.Context, principal *pkgAuth.Principal, id int64) (*types.Order, error)
	Create(ctx context.Context, principal *pkgAuth.Principal, req types.CreateOrderRequest) (*types.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*types.Order, error)
	Track(ctx context.Context, orderNumber string) (*types.OrderTracking, error)
}

type catalog interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

type orderRecorder interface {
	OrderCreated(totalAmount int64)
	OrderStatusChanged(status string)
}

type noopRecorder struct{}

func (noopRecorder) OrderCreated(int64)        {}
func (noopRecorder) OrderStatusChanged(string) {}

// ServiceParams bundles the dependencies required to build an order service.
type ServiceParams struct {
	Orders   storage.OrderStore
	Products catalog
	Metrics  orderRecorder
}

type service struct {
	orders   storage.OrderStore
	products catalog
	metrics  orderRecorder
}

func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("order store is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product catalog is required")
	}
	metrics := params.Metrics
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &service{orders: params.Orders, products: params.Products, metrics: metrics}, nil
}

func (s *service) List(ctx context.Context, principal *pkgAuth.Principal) ([]types.Order, error) {
	if principal == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	filter := storage.OrderFilter{}
	if !principal.IsAdmin {
		filter.Email = principal.Username
	}
	rows, err := s.orders.ListOrders(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	out := make([]types.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, principal *pkgAuth.Principal, id int64) (*types.Order, error) {
	if principal == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	row, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "get order")
	}
	if !principal.CanViewOrderOf(row.Email) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another buyer")
	}
	dto := FromModel(*row)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, principal *pkgAuth.Principal, req types.CreateOrderRequest) (*types.Order, error) {
	if len(req.Items) == 0 {
		return nil, validationError("items", "at least one item is required")
	}
	items, total, err := s.priceItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	if req.TotalAmount != nil && *req.TotalAmount != total {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "totalAmount %d does not match computed total %d", *req.TotalAmount, total).
			WithDetails(map[string]string{"totalAmount": fmt.Sprintf("expected %d", total)})
	}

	order := &models.Order{
		BuyerName:             strings.TrimSpace(req.BuyerName),
		BusinessName:          trimmedOrNil(req.BusinessName),
		Email:                 strings.TrimSpace(req.Email),
		Phone:                 strings.TrimSpace(req.Phone),
		DeliveryAddress:       strings.TrimSpace(req.DeliveryAddress),
		City:                  strings.TrimSpace(req.City),
		State:                 strings.TrimSpace(req.State),
		Pincode:               strings.TrimSpace(req.Pincode),
		DeliveryInstructions:  trimmedOrNil(req.DeliveryInstructions),
		PreferredDeliveryDate: strings.TrimSpace(req.PreferredDeliveryDate),
		Items:                 items,
		Status:                enums.OrderStatusPending,
		TotalAmount:           total,
	}
	if principal != nil && principal.UserID > 0 {
		userID := principal.UserID
		order.UserID = &userID
	}
	if err := requireOrderFields(order); err != nil {
		return nil, err
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}
	s.metrics.OrderCreated(order.TotalAmount)
	dto := FromModel(*order)
	return &dto, nil
}

// priceItems snapshots the current catalog name and price for every line and
// returns the priced lines with their total.
func (s *service) priceItems(ctx context.Context, reqItems []types.OrderItemRequest) (types.LineItems, int64, error) {
	items := make(types.LineItems, 0, len(reqItems))
	for i, item := range reqItems {
		field := fmt.Sprintf("items[%d]", i)
		if item.ProductID <= 0 {
			return nil, 0, validationError(field+".productId", "must be a positive integer")
		}
		product, err := s.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, 0, validationError(field+".productId", fmt.Sprintf("product %d does not exist", item.ProductID))
			}
			return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}
		if !product.InStock {
			return nil, 0, validationError(field+".productId", fmt.Sprintf("%s is out of stock", product.Name))
		}
		if item.Quantity < product.MinOrderQuantity {
			return nil, 0, validationError(field+".quantity", fmt.Sprintf("minimum order quantity for %s is %d", product.Name, product.MinOrderQuantity))
		}
		items = append(items, types.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  item.Quantity,
		})
	}
	priced, total, err := items.Priced()
	if err != nil {
		var overflow *types.LineOverflowError
		if errors.As(err, &overflow) {
			return nil, 0, validationError(fmt.Sprintf("items[%d].quantity", overflow.Index), "order amount is too large")
		}
		return nil, 0, validationError("items", err.Error())
	}
	return priced, total, nil
}

func (s *service) UpdateStatus(ctx context.Context, id int64, raw string) (*types.Order, error) {
	status, err := enums.ParseOrderStatus(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status").
			WithDetails(map[string]any{"status": "must be one of " + strings.Join(statusNames(), ", ")})
	}
	row, err := s.orders.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, mapStoreError(err, "update order status")
	}
	s.metrics.OrderStatusChanged(status.String())
	dto := FromModel(*row)
	return &dto, nil
}

func (s *service) Track(ctx context.Context, orderNumber string) (*types.OrderTracking, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, validationError("orderNumber", "is required")
	}
	row, err := s.orders.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return nil, mapStoreError(err, "track order")
	}
	tracking := TrackingFromModel(*row)
	return &tracking, nil
}

func requireOrderFields(o *models.Order) error {
	required := map[string]string{
		"buyerName":             o.BuyerName,
		"email":                 o.Email,
		"phone":                 o.Phone,
		"deliveryAddress":       o.DeliveryAddress,
		"city":                  o.City,
		"state":                 o.State,
		"pincode":               o.Pincode,
		"preferredDeliveryDate": o.PreferredDeliveryDate,
	}
	missing := map[string]string{}
	for field, value := range required {
		if value == "" {
			missing[field] = "is required"
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing delivery details").WithDetails(missing)
	}
	return nil
}

func statusNames() []string {
	statuses := enums.OrderStatuses()
	names := make([]string, 0, len(statuses))
	for _, st := range statuses {
		names = append(names, st.String())
	}
	return names
}

func validationError(field, reason string) error {
	return pkgerrors.Newf(pkgerrors.CodeValidation, "%s: %s", field, reason).
		WithDetails(map[string]string{field: reason})
}

func mapStoreError(err error, action string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
