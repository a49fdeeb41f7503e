package tenants

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/omerfarooqdev/shipdesk-backend/pkg/db"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/db/models"
	appErr "github.com/omerfarooqdev/shipdesk-backend/pkg/errors"
)

// Registry resolves a tenant id to its row and a live handle on the store
// that tenant's orders and products live in. Tenants without a dedicated
// store location share the central database.
type Registry interface {
	Resolve(ctx context.Context, tenantID string) (*models.Tenant, *gorm.DB, error)
	StoreFor(ctx context.Context, tenant *models.Tenant) (*gorm.DB, error)
	ListActive(ctx context.Context) ([]models.Tenant, error)
}

type registry struct {
	repo    Repository
	pool    *db.Pool
	central *gorm.DB
}

func NewRegistry(repo Repository, pool *db.Pool, central *gorm.DB) (Registry, error) {
	if repo == nil {
		return nil, fmt.Errorf("tenant registry: repository is required")
	}
	if pool == nil {
		return nil, fmt.Errorf("tenant registry: connection pool is required")
	}
	if central == nil {
		return nil, fmt.Errorf("tenant registry: central store handle is required")
	}
	return &registry{repo: repo, pool: pool, central: central}, nil
}

func (r *registry) Resolve(ctx context.Context, tenantID string) (*models.Tenant, *gorm.DB, error) {
	tenant, err := r.repo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, appErr.New(appErr.CodeTenantNotFound, fmt.Sprintf("tenant %s not found", tenantID))
		}
		return nil, nil, appErr.Wrap(appErr.CodeDependency, err, "load tenant")
	}
	if !tenant.IsActive {
		return nil, nil, appErr.New(appErr.CodeTenantNotFound, fmt.Sprintf("tenant %s is inactive", tenantID))
	}

	store, err := r.StoreFor(ctx, tenant)
	if err != nil {
		return nil, nil, err
	}
	return tenant, store, nil
}

// StoreFor returns the tenant's store handle without re-reading the tenant
// row. Failed connections are not cached, so a store that was down gets a
// fresh dial on the next call.
func (r *registry) StoreFor(ctx context.Context, tenant *models.Tenant) (*gorm.DB, error) {
	if tenant.StoreLocation == nil || *tenant.StoreLocation == "" {
		return r.central, nil
	}
	return r.pool.Open(ctx, *tenant.StoreLocation)
}

func (r *registry) ListActive(ctx context.Context) ([]models.Tenant, error) {
	tenants, err := r.repo.ListActive(ctx)
	if err != nil {
		return nil, appErr.Wrap(appErr.CodeDependency, err, "list active tenants")
	}
	return tenants, nil
}
