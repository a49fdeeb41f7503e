package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/omerfarooqdev/shipdesk-backend/internal/inventory"
	"github.com/omerfarooqdev/shipdesk-backend/internal/orders"
	"github.com/omerfarooqdev/shipdesk-backend/internal/tenants"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/courier"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/db"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/db/models"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/enums"
	pkgerrors "github.com/omerfarooqdev/shipdesk-backend/pkg/errors"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/logger"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/types"
)

// StockFactory binds a stock ledger to a tenant store handle.
type StockFactory func(tx *gorm.DB, tenantID string) (inventory.Service, error)

// ApplyInput carries one requested status move.
type ApplyInput struct {
	TenantID string
	// OrderRef is the order id, falling back to waybill lookup when no order
	// carries that id.
	OrderRef string
	Target   enums.OrderStatus
	Actor    string
	// Note is appended to the transition log entry when set.
	Note string
	// CourierStatus records the courier's raw status string on the order.
	CourierStatus *string
}

// Engine moves orders through the lifecycle, running each edge's declared
// side effects atomically with the status write.
type Engine interface {
	Apply(ctx context.Context, input ApplyInput) (*models.Order, error)
	ApplyResolved(ctx context.Context, tenant *models.Tenant, store *gorm.DB, order *models.Order, input ApplyInput) (*models.Order, error)
}

type engine struct {
	registry    tenants.Registry
	dispatcher  courier.Dispatcher
	orderRepos  orders.RepositoryFactory
	stock       StockFactory
	discountPct int
	logg        *logger.Logger
	now         func() time.Time
}

type Params struct {
	Registry   tenants.Registry
	Dispatcher courier.Dispatcher
	OrderRepos orders.RepositoryFactory
	Stock      StockFactory
	// ReturnValueDiscountPct devalues returned stock versus its sale price.
	ReturnValueDiscountPct int
	Logger                 *logger.Logger
}

func NewEngine(params Params) (Engine, error) {
	if params.Registry == nil {
		return nil, fmt.Errorf("lifecycle engine: tenant registry is required")
	}
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("lifecycle engine: courier dispatcher is required")
	}
	if params.OrderRepos == nil {
		return nil, fmt.Errorf("lifecycle engine: order repository factory is required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("lifecycle engine: stock factory is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("lifecycle engine: logger is required")
	}
	if params.ReturnValueDiscountPct < 0 || params.ReturnValueDiscountPct > 100 {
		return nil, fmt.Errorf("lifecycle engine: return discount must be 0-100, got %d", params.ReturnValueDiscountPct)
	}
	return &engine{
		registry:    params.Registry,
		dispatcher:  params.Dispatcher,
		orderRepos:  params.OrderRepos,
		stock:       params.Stock,
		discountPct: params.ReturnValueDiscountPct,
		logg:        params.Logger,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

func (e *engine) Apply(ctx context.Context, input ApplyInput) (*models.Order, error) {
	tenant, store, err := e.registry.Resolve(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	repo := e.orderRepos(store, tenant.ID)
	order, err := repo.FindByID(ctx, input.OrderRef)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		order, err = repo.FindByTracking(ctx, input.OrderRef)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeOrderNotFound, fmt.Sprintf("order %s not found", input.OrderRef))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	return e.ApplyResolved(ctx, tenant, store, order, input)
}

// ApplyResolved runs a transition on an already-loaded order. Re-applying the
// order's current status is a no-op, which makes courier webhook replays safe.
func (e *engine) ApplyResolved(ctx context.Context, tenant *models.Tenant, store *gorm.DB, order *models.Order, input ApplyInput) (*models.Order, error) {
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown status %q", input.Target))
	}
	if order.Status == input.Target {
		return order, nil
	}

	move, ok := findEdge(order.Status, input.Target)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition,
			fmt.Sprintf("cannot move order %s from %s to %s", order.ID, order.Status, input.Target))
	}

	logCtx := e.logg.WithOrderID(e.logg.WithTenantID(ctx, tenant.ID), order.ID)
	now := e.now()
	previous := order.Status

	// the courier handshake happens outside the store transaction; a rejected
	// or unreachable courier aborts the move with the order untouched
	if move.hasEffect(effectDispatchCourier) {
		if err := e.dispatch(ctx, tenant, order); err != nil {
			return nil, err
		}
	}

	err := db.RunTx(ctx, store, func(tx *gorm.DB) error {
		if move.hasEffect(effectDeductStock) && !order.HasPassedConfirmation() {
			if err := e.deductStock(logCtx, tx, tenant.ID, order); err != nil {
				return err
			}
		}
		if move.hasEffect(effectRestock) {
			if err := e.restock(logCtx, tx, tenant.ID, order); err != nil {
				return err
			}
		}

		order.Status = input.Target
		e.stamp(move, order, now)
		if input.CourierStatus != nil {
			order.CourierStatus = input.CourierStatus
		}

		actor := input.Actor
		if actor == "" {
			actor = "System"
		}
		message := fmt.Sprintf("Status changed from %s to %s", previous, input.Target)
		if input.Note != "" {
			message += ": " + input.Note
		}
		order.Logs = append(order.Logs, types.OrderLog{
			ID:        uuid.NewString(),
			Message:   message,
			Timestamp: now,
			User:      actor,
		})

		return e.orderRepos(tx, tenant.ID).Save(ctx, order)
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist transition")
	}

	e.logg.Info(logCtx, fmt.Sprintf("order moved from %s to %s", previous, input.Target))
	return order, nil
}

func (e *engine) dispatch(ctx context.Context, tenant *models.Tenant, order *models.Order) error {
	if tenant.Courier == nil {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("tenant %s has no courier configured", tenant.ID))
	}

	result, err := e.dispatcher.Dispatch(ctx, order, *tenant.Courier)
	if err != nil {
		return err
	}
	if result.TrackingNumber != "" {
		order.TrackingNumber = &result.TrackingNumber
	}
	return nil
}

// deductStock consumes each line's quantity. A shortfall or a missing product
// is logged on the order and does not block the move; store failures do.
func (e *engine) deductStock(ctx context.Context, tx *gorm.DB, tenantID string, order *models.Order) error {
	ledger, err := e.stock(tx, tenantID)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		err := ledger.DeductFIFO(ctx, item.ProductID, item.Quantity)
		if err == nil {
			continue
		}
		if pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) ||
			pkgerrors.HasCode(err, pkgerrors.CodeProductNotFound) {
			e.logg.Warn(ctx, err.Error())
			order.Logs = append(order.Logs, types.OrderLog{
				ID:        uuid.NewString(),
				Message:   "Stock warning: " + pkgerrors.As(err).Message(),
				Timestamp: e.now(),
				User:      "System",
			})
			continue
		}
		return err
	}
	return nil
}

// restock returns each line's quantity at a discounted unit value.
func (e *engine) restock(ctx context.Context, tx *gorm.DB, tenantID string, order *models.Order) error {
	ledger, err := e.stock(tx, tenantID)
	if err != nil {
		return err
	}

	factor := decimal.NewFromInt(int64(100 - e.discountPct)).Div(decimal.NewFromInt(100))
	for _, item := range order.Items {
		unitValue := item.UnitPrice.Mul(factor).Round(2)
		err := ledger.Restock(ctx, item.ProductID, item.Quantity, unitValue)
		if err == nil {
			continue
		}
		if pkgerrors.HasCode(err, pkgerrors.CodeProductNotFound) {
			e.logg.Warn(ctx, err.Error())
			order.Logs = append(order.Logs, types.OrderLog{
				ID:        uuid.NewString(),
				Message:   "Restock warning: " + pkgerrors.As(err).Message(),
				Timestamp: e.now(),
				User:      "System",
			})
			continue
		}
		return err
	}
	return nil
}

func (e *engine) stamp(move edge, order *models.Order, now time.Time) {
	switch {
	case move.hasEffect(effectStampConfirmed):
		order.ConfirmedAt = &now
	case move.hasEffect(effectStampShipped):
		order.ShippedAt = &now
	case move.hasEffect(effectStampDelivered):
		order.DeliveredAt = &now
	case move.hasEffect(effectStampReturnCompleted):
		order.ReturnCompletedAt = &now
	}
}
