package inventory

import (
	"context"

	"gorm.io/gorm"

	"github.com/omerfarooqdev/shipdesk-backend/pkg/db/models"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/types"
)

// Repository manages product batch persistence inside one tenant's store.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindProduct(ctx context.Context, productID string) (*models.Product, error)
	UpdateBatches(ctx context.Context, productID string, batches []types.StockBatch) error
}

type repository struct {
	db       *gorm.DB
	tenantID string
}

// NewRepository binds a product repository to a tenant store handle. The
// tenant id scopes every query so shared stores stay isolated per tenant.
func NewRepository(db *gorm.DB, tenantID string) Repository {
	return &repository{db: db, tenantID: tenantID}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx, tenantID: r.tenantID}
}

func (r *repository) FindProduct(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", productID, r.tenantID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) UpdateBatches(ctx context.Context, productID string, batches []types.StockBatch) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND tenant_id = ?", productID, r.tenantID).
		Update("batches", batches).Error
}
