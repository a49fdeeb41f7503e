package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/omerfarooqdev/shipdesk-backend/internal/tenants"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/db/models"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/enums"
	pkgerrors "github.com/omerfarooqdev/shipdesk-backend/pkg/errors"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/logger"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/pagination"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/types"
)

// Service defines tenant-scoped order operations for the API surface.
type Service interface {
	Import(ctx context.Context, tenantID string, inputs []OrderInput) (int, error)
	List(ctx context.Context, tenantID string, params pagination.Params, filters Filters) (*OrderList, error)
	Get(ctx context.Context, tenantID, orderID, actor string) (*models.Order, error)
	Delete(ctx context.Context, tenantID string, ids []string) (int64, error)
	Purge(ctx context.Context, tenantID string) (int64, error)
}

type service struct {
	registry tenants.Registry
	repos    RepositoryFactory
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the order service. The repository factory binds a
// repository to whichever store the registry resolves for a tenant.
func NewService(registry tenants.Registry, repos RepositoryFactory, logg *logger.Logger) (Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("orders service: tenant registry is required")
	}
	if repos == nil {
		return nil, fmt.Errorf("orders service: repository factory is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("orders service: logger is required")
	}
	return &service{
		registry: registry,
		repos:    repos,
		logg:     logg,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Import upserts a batch of storefront orders. New ids land as PENDING;
// existing ids get their customer details and items refreshed while status,
// logs and lifecycle stamps stay untouched.
func (s *service) Import(ctx context.Context, tenantID string, inputs []OrderInput) (int, error) {
	tenant, store, err := s.registry.Resolve(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	repo := s.repos(store, tenant.ID)

	now := s.now()
	rows := make([]models.Order, 0, len(inputs))
	for _, input := range inputs {
		rows = append(rows, input.toModel(tenant.ID, now))
	}
	if err := repo.UpsertBatch(ctx, rows); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "import orders")
	}

	s.logg.Info(s.logg.WithTenantID(ctx, tenant.ID), fmt.Sprintf("imported %d orders", len(rows)))
	return len(rows), nil
}

func (s *service) List(ctx context.Context, tenantID string, params pagination.Params, filters Filters) (*OrderList, error) {
	tenant, store, err := s.registry.Resolve(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	list, err := s.repos(store, tenant.ID).List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// Get loads one order. A first read of a PENDING order advances it to
// OPEN_LEAD so call-center agents see which leads are already being worked.
func (s *service) Get(ctx context.Context, tenantID, orderID, actor string) (*models.Order, error) {
	tenant, store, err := s.registry.Resolve(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	repo := s.repos(store, tenant.ID)

	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeOrderNotFound, fmt.Sprintf("order %s not found", orderID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if order.Status == enums.OrderStatusPending {
		if actor == "" {
			actor = "System"
		}
		order.Status = enums.OrderStatusOpenLead
		order.Logs = append(order.Logs, types.OrderLog{
			ID:        uuid.NewString(),
			Message:   "Lead opened",
			Timestamp: s.now(),
			User:      actor,
		})
		if err := repo.Save(ctx, order); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open lead")
		}
	}
	return order, nil
}

func (s *service) Delete(ctx context.Context, tenantID string, ids []string) (int64, error) {
	tenant, store, err := s.registry.Resolve(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	deleted, err := s.repos(store, tenant.ID).DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete orders")
	}
	return deleted, nil
}

func (s *service) Purge(ctx context.Context, tenantID string) (int64, error) {
	tenant, store, err := s.registry.Resolve(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	purged, err := s.repos(store, tenant.ID).PurgeTenant(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "purge tenant orders")
	}
	s.logg.Warn(s.logg.WithTenantID(ctx, tenant.ID), fmt.Sprintf("purged %d orders", purged))
	return purged, nil
}
