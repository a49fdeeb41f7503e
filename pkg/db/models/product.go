package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/omerfarooqdev/shipdesk-backend/pkg/types"
)

// Product is a tenant's sellable item with its FIFO batch list. Batches are
// mutated only by the inventory ledger.
type Product struct {
	ID       string `gorm:"column:id;primaryKey"`
	TenantID string `gorm:"column:tenant_id;primaryKey"`

	SKU   string          `gorm:"column:sku;not null"`
	Name  string          `gorm:"column:name;not null"`
	Price decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`

	Batches []types.StockBatch `gorm:"column:batches;type:jsonb;serializer:json"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the collection name stable across stores.
func (Product) TableName() string { return "products" }

// AvailableQuantity sums the remaining units across all batches.
func (p Product) AvailableQuantity() int {
	total := 0
	for _, batch := range p.Batches {
		total += batch.Quantity
	}
	return total
}
