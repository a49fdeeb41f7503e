package db

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	pkgerrors "github.com/omerfarooqdev/shipdesk-backend/pkg/errors"
)

// Opener creates a store connection for a DSN. Injectable so tests can
// substitute in-memory stores.
type Opener func(ctx context.Context, dsn string) (*gorm.DB, error)

// Pool caches tenant store connections by DSN. Entries are added on first
// use and live for the process lifetime; a failed open is never cached, so a
// transient outage does not poison the pool.
type Pool struct {
	mu             sync.Mutex
	conns          map[string]*gorm.DB
	opener         Opener
	connectTimeout time.Duration
}

// NewPool builds a connection pool. A nil opener uses the default
// DSN-scheme-based opener with a connectivity check.
func NewPool(connectTimeout time.Duration, opener Opener) *Pool {
	if opener == nil {
		opener = defaultOpener
	}
	return &Pool{
		conns:          make(map[string]*gorm.DB),
		opener:         opener,
		connectTimeout: connectTimeout,
	}
}

func defaultOpener(ctx context.Context, dsn string) (*gorm.DB, error) {
	conn, err := open(dsn)
	if err != nil {
		return nil, err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return conn, nil
}

// Open returns the cached handle for dsn, dialing and caching it on first use.
func (p *Pool) Open(ctx context.Context, dsn string) (*gorm.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if conn, ok := p.conns[dsn]; ok {
		return conn, nil
	}

	if p.connectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.connectTimeout)
		defer cancel()
	}

	conn, err := p.opener(ctx, dsn)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "open tenant store")
	}

	p.conns[dsn] = conn
	return conn, nil
}

// Len reports the number of cached connections.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.conns)
}

// CloseAll closes every cached connection and empties the pool.
func (p *Pool) CloseAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for dsn, conn := range p.conns {
		sqlDB, err := conn.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.conns, dsn)
	}
	return firstErr
}
