package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// Conn is a database/sql handle plus the driver resources behind it.
// It satisfies record.DB through the embedded *sql.DB.
type Conn struct {
	*sql.DB

	// Driver is DriverPostgres or DriverSQLite.
	Driver string

	pool *pgxpool.Pool
}

// Pool returns the pgx pool backing a postgres connection, nil for sqlite.
func (c *Conn) Pool() *pgxpool.Pool {
	return c.pool
}

// Dialect returns the goose dialect name for the connection's driver.
func (c *Conn) Dialect() string {
	if c.Driver == DriverSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// Close closes the database/sql handle and, for postgres, the pool.
func (c *Conn) Close() error {
	err := c.DB.Close()
	if c.pool != nil {
		c.pool.Close()
	}
	return err
}

// Open connects to the database selected by cfg.Driver.
func Open(ctx context.Context, cfg Config) (*Conn, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		pool, err := Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Conn{DB: stdlib.OpenDBFromPool(pool), Driver: DriverPostgres, pool: pool}, nil
	case DriverSQLite:
		sqlDB, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Conn{DB: sqlDB, Driver: DriverSQLite}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}

// Connect establishes a PostgreSQL connection pool, retrying with linear
// backoff while the database comes up.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	if cfg.ConnectionString == "" {
		return nil, ErrMissingConnectionString
	}
	connConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	if cfg.MaxOpenConns > 0 {
		connConfig.MaxConns = cfg.MaxOpenConns
	}
	connConfig.MinConns = cfg.MinConns
	if cfg.HealthCheckPeriod > 0 {
		connConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	}
	if cfg.MaxConnIdleTime > 0 {
		connConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.MaxConnLifetime > 0 {
		connConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}

	// Attempt i waits (i+1) * RetryInterval before the next try.
	var lastErr error
	attempts := max(cfg.RetryAttempts, 1)
	for i := range attempts {
		pool, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToOpenDBConnection, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrFailedToOpenDBConnection, lastErr)
}
