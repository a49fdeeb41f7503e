package orders

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/omerfarooqdev/shipdesk-backend/pkg/db/models"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/enums"
	"github.com/omerfarooqdev/shipdesk-backend/pkg/pagination"
)

type repository struct {
	db       *gorm.DB
	tenantID string
}

// NewRepository builds an orders repository bound to one tenant's store
// handle. Every query carries the tenant id so shared stores stay isolated.
func NewRepository(db *gorm.DB, tenantID string) Repository {
	return &repository{db: db, tenantID: tenantID}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx, tenantID: r.tenantID}
}

// upsertColumns are the fields a re-import may change. Status, logs and the
// lifecycle stamps belong to this system, not the storefront, and survive.
var upsertColumns = []string{
	"customer_name", "phone", "alt_phone", "address", "city",
	"items", "total_amount", "updated_at",
}

func (r *repository) Upsert(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.TenantID = r.tenantID
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}, {Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).
		Create(order).Error
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) UpsertBatch(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	for i := range orders {
		orders[i].TenantID = r.tenantID
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}, {Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).
		Create(&orders).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, r.tenantID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByTracking matches the courier waybill exactly, ignoring case. Couriers
// echo waybills back with inconsistent casing.
func (r *repository) FindByTracking(ctx context.Context, tracking string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("LOWER(tracking_number) = LOWER(?) AND tenant_id = ?", tracking, r.tenantID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters Filters) (*OrderList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("tenant_id = ?", r.tenantID)

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where(
			"id LIKE ? OR customer_name LIKE ? OR phone LIKE ? OR tracking_number LIKE ?",
			like, like, like, like,
		)
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Order
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &OrderList{Orders: rows}
	if len(rows) > limit {
		list.Orders = rows[:limit]
		last := list.Orders[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

func (r *repository) Save(ctx context.Context, order *models.Order) error {
	order.TenantID = r.tenantID
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *repository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("id IN ? AND tenant_id = ?", ids, r.tenantID).
		Delete(&models.Order{})
	return result.RowsAffected, result.Error
}

func (r *repository) PurgeTenant(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ?", r.tenantID).
		Delete(&models.Order{})
	return result.RowsAffected, result.Error
}

// CustomerHistory counts a customer's orders and return-flow orders by phone
// suffix. Callers pass the normalized trailing digits so the same customer
// matches across country-code and formatting variants.
func (r *repository) CustomerHistory(ctx context.Context, phoneSuffix string) (*CustomerHistory, error) {
	like := "%" + phoneSuffix

	var history CustomerHistory
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("tenant_id = ? AND phone LIKE ?", r.tenantID, like).
		Count(&history.OrderCount).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("tenant_id = ? AND phone LIKE ? AND status IN ?", r.tenantID, like, returnLikeStatuses()).
		Count(&history.ReturnCount).Error
	if err != nil {
		return nil, err
	}
	return &history, nil
}

func returnLikeStatuses() []enums.OrderStatus {
	return []enums.OrderStatus{
		enums.OrderStatusReturned,
		enums.OrderStatusReturnTransfer,
		enums.OrderStatusReturnAsOnSystem,
		enums.OrderStatusReturnHandover,
		enums.OrderStatusReturnCompleted,
	}
}
