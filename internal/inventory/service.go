package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	appErr "github.com/omerfarooqdev/shipdesk-backend/pkg/errors"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/types"
)

// Service is the stock ledger for a single tenant store. Deductions consume
// batches oldest first; returns append a fresh batch instead of mutating the
// originals so buying prices stay auditable.
type Service interface {
	DeductFIFO(ctx context.Context, productID string, quantity int) error
	Restock(ctx context.Context, productID string, quantity int, unitValue decimal.Decimal) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory service: repository is required")
	}
	return &service{repo: repo}, nil
}

// DeductFIFO removes quantity units from the product's batches, oldest batch
// first. When stock runs short the available units are still consumed and a
// CodeInsufficientStock error reports the shortfall; callers decide whether
// that blocks their operation.
func (s *service) DeductFIFO(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return nil
	}

	product, err := s.repo.FindProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeProductNotFound, fmt.Sprintf("product %s not found", productID))
		}
		return appErr.Wrap(appErr.CodeDependency, err, "load product for deduction")
	}

	batches, shortfall := consumeFIFO(product.Batches, quantity)
	if err := s.repo.UpdateBatches(ctx, productID, batches); err != nil {
		return appErr.Wrap(appErr.CodeDependency, err, "persist batch deduction")
	}

	if shortfall > 0 {
		return appErr.New(appErr.CodeInsufficientStock,
			fmt.Sprintf("product %s short by %d of %d units", productID, shortfall, quantity))
	}
	return nil
}

// Restock appends a return batch valued at unitValue per unit.
func (s *service) Restock(ctx context.Context, productID string, quantity int, unitValue decimal.Decimal) error {
	if quantity <= 0 {
		return nil
	}

	product, err := s.repo.FindProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeProductNotFound, fmt.Sprintf("product %s not found", productID))
		}
		return appErr.Wrap(appErr.CodeDependency, err, "load product for restock")
	}

	batches := append(product.Batches, types.StockBatch{
		ID:               uuid.NewString(),
		Quantity:         quantity,
		OriginalQuantity: quantity,
		BuyingPrice:      unitValue,
		IsReturn:         true,
		CreatedAt:        time.Now().UTC(),
	})
	if err := s.repo.UpdateBatches(ctx, productID, batches); err != nil {
		return appErr.Wrap(appErr.CodeDependency, err, "persist restock batch")
	}
	return nil
}

// consumeFIFO drains quantity units oldest batch first and reports how many
// units could not be covered. Batches keep their slots at zero quantity so
// the purchase history survives.
func consumeFIFO(batches []types.StockBatch, quantity int) ([]types.StockBatch, int) {
	out := make([]types.StockBatch, len(batches))
	copy(out, batches)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	remaining := quantity
	for i := range out {
		if remaining == 0 {
			break
		}
		take := out[i].Quantity
		if take > remaining {
			take = remaining
		}
		out[i].Quantity -= take
		remaining -= take
	}
	return out, remaining
}
