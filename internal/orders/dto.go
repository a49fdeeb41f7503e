package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omerfarooqdev/shipdesk-backend/pkg/db/models"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/enums"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/types"
)

// Filters describe the inputs supported by the order list.
type Filters struct {
	Status   *enums.OrderStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Query    string
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// CustomerHistory aggregates a customer's track record across a tenant's
// orders, matched by phone suffix.
type CustomerHistory struct {
	OrderCount  int64 `json:"order_count"`
	ReturnCount int64 `json:"return_count"`
}

// ItemInput is one order line as submitted by the storefront.
type ItemInput struct {
	ProductID string          `json:"product_id" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
}

// OrderInput is one order as submitted by the storefront. The id is the
// storefront's own order reference and stays stable across re-imports.
type OrderInput struct {
	ID           string          `json:"id" validate:"required"`
	CustomerName string          `json:"customer_name" validate:"required"`
	Phone        string          `json:"phone" validate:"required"`
	AltPhone     *string         `json:"alt_phone,omitempty"`
	Address      string          `json:"address" validate:"required"`
	City         string          `json:"city" validate:"required"`
	Items        []ItemInput     `json:"items" validate:"required,min=1,dive"`
	TotalAmount  decimal.Decimal `json:"total_amount" validate:"required"`
}

func (in OrderInput) toModel(tenantID string, now time.Time) models.Order {
	items := make([]types.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, types.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return models.Order{
		ID:           in.ID,
		TenantID:     tenantID,
		CustomerName: in.CustomerName,
		Phone:        in.Phone,
		AltPhone:     in.AltPhone,
		Address:      in.Address,
		City:         in.City,
		Items:        items,
		TotalAmount:  in.TotalAmount,
		Status:       enums.OrderStatusPending,
		Logs: []types.OrderLog{{
			ID:        uuid.NewString(),
			Message:   "Order received",
			Timestamp: now,
			User:      "System",
		}},
	}
}
