package reconcile

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"gorm.io/gorm"

	"github.com/omerfarooqdev/shipdesk-backend/internal/lifecycle"
	"github.com/omerfarooqdev/shipdesk-backend/internal/orders"
	"github.com/omerfarooqdev/shipdesk-backend/internal/tenants"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/db/models"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/enums"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/logger"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/metrics"
)

// courierActor is the synthetic user recorded on courier-driven transitions.
const courierActor = "Courier System"

// Result summarizes what one courier callback did.
type Result struct {
	Waybill   string            `json:"waybill"`
	RawStatus string            `json:"raw_status,omitempty"`
	Mapped    enums.OrderStatus `json:"mapped_status,omitempty"`
	Outcome   string            `json:"outcome"`
	TenantID  string            `json:"tenant_id,omitempty"`
	OrderID   string            `json:"order_id,omitempty"`
	Source    Source            `json:"source,omitempty"`
}

// Service reconciles courier status callbacks against the order registry.
// Callbacks carry no tenant hint, so the waybill is looked up across every
// active tenant's store until one claims it.
type Service interface {
	Process(ctx context.Context, contentType string, body []byte, query url.Values) (*Result, error)
}

type service struct {
	registry   tenants.Registry
	orderRepos orders.RepositoryFactory
	engine     lifecycle.Engine
	m          *metrics.ReconcileMetrics
	logg       *logger.Logger
	now        func() time.Time
}

func NewService(registry tenants.Registry, orderRepos orders.RepositoryFactory, engine lifecycle.Engine, m *metrics.ReconcileMetrics, logg *logger.Logger) (Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("reconcile service: tenant registry is required")
	}
	if orderRepos == nil {
		return nil, fmt.Errorf("reconcile service: order repository factory is required")
	}
	if engine == nil {
		return nil, fmt.Errorf("reconcile service: lifecycle engine is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("reconcile service: logger is required")
	}
	return &service{
		registry:   registry,
		orderRepos: orderRepos,
		engine:     engine,
		m:          m,
		logg:       logg,
		now:        time.Now,
	}, nil
}

func (s *service) Process(ctx context.Context, contentType string, body []byte, query url.Values) (*Result, error) {
	started := s.now()

	payload, err := ParsePayload(contentType, body, query)
	if err != nil {
		s.m.Observe(metrics.ReconcileOutcomeBadPayload, s.now().Sub(started))
		return nil, err
	}

	logCtx := s.logg.WithWaybill(ctx, payload.Waybill)

	tenantRows, err := s.registry.ListActive(ctx)
	if err != nil {
		s.m.Observe(metrics.ReconcileOutcomeScanFailed, s.now().Sub(started))
		return nil, err
	}

	for i := range tenantRows {
		tenant := &tenantRows[i]
		result, found := s.applyForTenant(logCtx, tenant, payload)
		if !found {
			continue
		}
		s.m.Observe(result.Outcome, s.now().Sub(started))
		return result, nil
	}

	s.logg.Info(logCtx, "waybill not found in registry")
	s.m.Observe(metrics.ReconcileOutcomeNotFound, s.now().Sub(started))
	return &Result{
		Waybill:   payload.Waybill,
		RawStatus: payload.RawStatus,
		Outcome:   metrics.ReconcileOutcomeNotFound,
		Source:    payload.Source,
	}, nil
}

// applyForTenant looks the waybill up in one tenant's store. An unreachable
// store is skipped rather than failing the whole scan; the courier retries
// and the store may be back by then.
func (s *service) applyForTenant(ctx context.Context, tenant *models.Tenant, payload *Payload) (*Result, bool) {
	store, err := s.registry.StoreFor(ctx, tenant)
	if err != nil {
		s.logg.Warn(s.logg.WithTenantID(ctx, tenant.ID), fmt.Sprintf("skipping unreachable store: %v", err))
		return nil, false
	}

	order, err := s.orderRepos(store, tenant.ID).FindByTracking(ctx, payload.Waybill)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Warn(s.logg.WithTenantID(ctx, tenant.ID), fmt.Sprintf("waybill lookup failed: %v", err))
		}
		return nil, false
	}

	mapped := MapStatus(payload.RawStatus)
	result := &Result{
		Waybill:   payload.Waybill,
		RawStatus: payload.RawStatus,
		Mapped:    mapped,
		TenantID:  tenant.ID,
		OrderID:   order.ID,
		Source:    payload.Source,
	}

	if order.Status == mapped {
		result.Outcome = metrics.ReconcileOutcomeDuplicate
		return result, true
	}

	_, err = s.engine.ApplyResolved(ctx, tenant, store, order, lifecycle.ApplyInput{
		TenantID:      tenant.ID,
		OrderRef:      order.ID,
		Target:        mapped,
		Actor:         courierActor,
		Note:          payload.Note(),
		CourierStatus: &payload.RawStatus,
	})
	if err != nil {
		s.logg.Error(s.logg.WithTenantID(ctx, tenant.ID), "courier status could not be applied", err)
		result.Outcome = metrics.ReconcileOutcomeRejected
		return result, true
	}

	result.Outcome = metrics.ReconcileOutcomeApplied
	return result, true
}
