package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/omerfarooqdev/shipdesk-backend/pkg/db/models"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/pagination"
)

// Repository defines persistence operations for one tenant's order table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Upsert(ctx context.Context, order *models.Order) (*models.Order, error)
	UpsertBatch(ctx context.Context, orders []models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	FindByTracking(ctx context.Context, tracking string) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters Filters) (*OrderList, error)
	Save(ctx context.Context, order *models.Order) error
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
	PurgeTenant(ctx context.Context) (int64, error)
	CustomerHistory(ctx context.Context, phoneSuffix string) (*CustomerHistory, error)
}

// RepositoryFactory binds a repository to a tenant store handle. The registry
// hands out handles per tenant, so repositories cannot be wired once at boot.
type RepositoryFactory func(db *gorm.DB, tenantID string) Repository
