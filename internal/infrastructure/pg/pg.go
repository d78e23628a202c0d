package pg

import (
	"context"
	"fmt"
	"time"

	infraconfig "phoneprice-gateway/internal/infrastructure/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the pool shared by the quote, catalog and prediction repositories.
type DB struct{ Pool *pgxpool.Pool }

// PoolOptions sizes the pool; zero fields take the package defaults.
type PoolOptions struct {
	MaxConns    int32
	MinConns    int32
	MaxConnIdle time.Duration
}

func (o PoolOptions) withDefaults() PoolOptions {
	if o.MaxConns <= 0 {
		o.MaxConns = infraconfig.DefaultPGMaxConns
	}
	if o.MinConns < 0 || o.MinConns > o.MaxConns {
		o.MinConns = min(infraconfig.DefaultPGMinConns, o.MaxConns)
	}
	if o.MaxConnIdle <= 0 {
		o.MaxConnIdle = infraconfig.DefaultPGConnIdle
	}
	return o
}

func poolConfig(url string, opts PoolOptions) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("pg: parse url: %w", err)
	}
	opts = opts.withDefaults()
	cfg.MaxConns, cfg.MinConns = opts.MaxConns, opts.MinConns
	cfg.MaxConnIdleTime = opts.MaxConnIdle
	return cfg, nil
}

func Connect(ctx context.Context, url string, opts PoolOptions) (*DB, error) {
	cfg, err := poolConfig(url, opts)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg: connect: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (d *DB) Close() { d.Pool.Close() }

// Ping backs /readyz.
func (d *DB) Ping(ctx context.Context) error { return d.Pool.Ping(ctx) }
