package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Courier      CourierConfig
	Inventory    InventoryConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHIPDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"SHIPDESK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SHIPDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHIPDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DBConfig describes the central (shared) store. Tenant stores are opened on
// demand from each tenant's own store location DSN.
type DBConfig struct {
	DSN    string `envconfig:"SHIPDESK_DB_DSN" required:"true"`
	Driver string `envconfig:"SHIPDESK_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"SHIPDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHIPDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHIPDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHIPDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	TenantConnectTimeout time.Duration `envconfig:"SHIPDESK_DB_TENANT_CONNECT_TIMEOUT" default:"10s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHIPDESK_REDIS_URL" required:"true"`
	Password     string        `envconfig:"SHIPDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHIPDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHIPDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHIPDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHIPDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHIPDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHIPDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CourierConfig carries deployment-wide courier client settings. Per-tenant
// credentials (api key, client id, mode, url) live on the tenant record.
type CourierConfig struct {
	RequestTimeout time.Duration `envconfig:"SHIPDESK_COURIER_REQUEST_TIMEOUT" default:"30s"`
	ParcelWeightKG int           `envconfig:"SHIPDESK_COURIER_PARCEL_WEIGHT_KG" default:"1"`
	ReasonMaxLen   int           `envconfig:"SHIPDESK_COURIER_REASON_MAX_LEN" default:"300"`
}

type InventoryConfig struct {
	// ReturnValueDiscountPct discounts the unit price when valuing a return
	// batch, e.g. 20 means the batch is booked at 80% of the sale price.
	ReturnValueDiscountPct int `envconfig:"SHIPDESK_INVENTORY_RETURN_DISCOUNT_PCT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHIPDESK_AUTO_MIGRATE" default:"false"`
}
