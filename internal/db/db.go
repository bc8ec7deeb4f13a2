// Package db opens the registration database and keeps its schema current.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"  // registers "postgres"
	_ "modernc.org/sqlite" // registers "sqlite"

	"EventRegistration/internal/log"
)

// DB bundles the connection pool with the dialect it speaks.
type DB struct {
	SQL    *sql.DB
	Driver Driver

	pool *pgxpool.Pool // set for DriverPgx only
}

// Connect opens the database named by DATABASE_URL and verifies it answers.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	driver, dsn := ParseDSN(databaseURL)

	if driver == DriverPgx {
		return connectPool(ctx, dsn)
	}

	conn, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}

	if driver == DriverPostgres {
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxLifetime(30 * time.Minute)
		conn.SetConnMaxIdleTime(5 * time.Minute)
	} else {
		// one writer at a time; avoids SQLITE_BUSY under concurrent submissions
		conn.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	// never log the DSN, it may carry a password
	log.Info(log.CatDB, "connected", "driver", driver)
	return &DB{SQL: conn, Driver: driver}, nil
}

// connectPool opens a pgxpool and exposes it through database/sql so the
// store layer stays driver-agnostic.
func connectPool(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("db: parse pgx config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db: open pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	log.Info(log.CatDB, "connected", "driver", DriverPgx, "maxConns", cfg.MaxConns)
	return &DB{SQL: stdlib.OpenDBFromPool(pool), Driver: DriverPgx, pool: pool}, nil
}

// Ping reports whether the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return d.SQL.PingContext(ctx)
}

// Close releases the pool.
func (d *DB) Close() error {
	err := d.SQL.Close()
	if d.pool != nil {
		d.pool.Close()
	}
	return err
}
