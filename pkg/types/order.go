package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one sold line on an order, serialized as JSON on the order row
// so the same shape works on every tenant store driver.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// OrderLog is one append-only audit entry on an order. The user may be a
// human username or a synthetic actor such as the courier reconciler.
type OrderLog struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
}

// StockBatch is one stock-intake lot. Batches are consumed oldest-first.
type StockBatch struct {
	ID               string          `json:"id"`
	Quantity         int             `json:"quantity"`
	OriginalQuantity int             `json:"original_quantity"`
	BuyingPrice      decimal.Decimal `json:"buying_price"`
	IsReturn         bool            `json:"is_return,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}
