package models

import (
	"time"

	"github.com/omerfarooqdev/shipdesk-backend/pkg/types"
)

// Tenant is one storefront on the shared platform. Lives in the central store
// only; provisioning writes it, the core only reads it.
type Tenant struct {
	ID   string `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;not null"`
	// StoreLocation is the DSN of the tenant's own backing store. Nil means
	// the tenant's collections live in the shared central store.
	StoreLocation *string                `gorm:"column:store_location"`
	IsActive      bool                   `gorm:"column:is_active;not null;default:true"`
	Courier       *types.CourierSettings `gorm:"column:courier_settings;type:jsonb;serializer:json"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the collection name stable across stores.
func (Tenant) TableName() string { return "tenants" }
