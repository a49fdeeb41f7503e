package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// dialectorFor picks the GORM driver from the DSN scheme. Tenant store
// locations are free-form connection strings, so postgres and sqlite
// (file-backed side stores, tests) both have to work.
func dialectorFor(dsn string) (gorm.Dialector, error) {
	trimmed := strings.TrimSpace(dsn)
	switch {
	case trimmed == "":
		return nil, fmt.Errorf("empty DSN")
	case strings.HasPrefix(trimmed, "postgres://"),
		strings.HasPrefix(trimmed, "postgresql://"),
		strings.Contains(trimmed, "host="):
		return postgres.New(postgres.Config{
			DSN:                  trimmed,
			PreferSimpleProtocol: true,
		}), nil
	case strings.HasPrefix(trimmed, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(trimmed, "sqlite://")), nil
	case strings.HasPrefix(trimmed, "file:"), strings.HasSuffix(trimmed, ".db"):
		return sqlite.Open(trimmed), nil
	default:
		return nil, fmt.Errorf("unsupported DSN %q", trimmed)
	}
}
