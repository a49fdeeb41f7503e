package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/omerfarooqdev/shipdesk-backend/pkg/enums"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/types"
)

// Order is the central mutable entity. One row per order in the owning
// tenant's store; keyed by the application-level id, never a store id.
type Order struct {
	ID       string `gorm:"column:id;primaryKey"`
	TenantID string `gorm:"column:tenant_id;primaryKey"`

	CustomerName string  `gorm:"column:customer_name;not null"`
	Phone        string  `gorm:"column:phone;not null"`
	AltPhone     *string `gorm:"column:alt_phone"`
	Address      string  `gorm:"column:address;not null"`
	City         string  `gorm:"column:city;not null"`

	Items       []types.OrderItem `gorm:"column:items;type:jsonb;serializer:json"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`

	Status enums.OrderStatus `gorm:"column:status;not null;default:'PENDING'"`

	// TrackingNumber is set iff the order progressed past CONFIRMED through a
	// successful courier handshake or a manual waybill assignment.
	TrackingNumber *string `gorm:"column:tracking_number"`
	// CourierStatus is the raw last-seen status string from the courier.
	CourierStatus *string `gorm:"column:courier_status"`

	Logs []types.OrderLog `gorm:"column:logs;type:jsonb;serializer:json"`

	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	ConfirmedAt       *time.Time `gorm:"column:confirmed_at"`
	ShippedAt         *time.Time `gorm:"column:shipped_at"`
	DeliveredAt       *time.Time `gorm:"column:delivered_at"`
	ReturnCompletedAt *time.Time `gorm:"column:return_completed_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the collection name stable across stores.
func (Order) TableName() string { return "orders" }

// HasPassedConfirmation reports whether stock was already reserved for this
// order, i.e. it reached CONFIRMED or SHIPPED (or anything downstream).
func (o Order) HasPassedConfirmation() bool {
	switch o.Status {
	case enums.OrderStatusPending,
		enums.OrderStatusOpenLead,
		enums.OrderStatusNoAnswer,
		enums.OrderStatusRejected,
		enums.OrderStatusHold:
		return false
	default:
		return true
	}
}
