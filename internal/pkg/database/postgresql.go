package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	*pgxpool.Pool
}

// PoolSettings tunes the connection pool. Zero fields keep the pgxpool
// defaults. Timezone becomes the session TimeZone so CURRENT_DATE and
// NOW()::date agree with the school's calendar.
type PoolSettings struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	Timezone        string
	ApplicationName string
}

// PoolConfig parses dsn and applies settings without connecting.
func PoolConfig(dsn string, settings PoolSettings) (*pgxpool.Config, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if settings.MinConns > settings.MaxConns && settings.MaxConns > 0 {
		return nil, fmt.Errorf("min conns %d exceeds max conns %d", settings.MinConns, settings.MaxConns)
	}

	if settings.MaxConns > 0 {
		config.MaxConns = settings.MaxConns
	}
	if settings.MinConns > 0 {
		config.MinConns = settings.MinConns
	}
	if settings.MaxConnLifetime > 0 {
		config.MaxConnLifetime = settings.MaxConnLifetime
	}
	if settings.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = settings.MaxConnIdleTime
	}
	if settings.Timezone != "" {
		config.ConnConfig.RuntimeParams["timezone"] = settings.Timezone
	}
	if settings.ApplicationName != "" {
		config.ConnConfig.RuntimeParams["application_name"] = settings.ApplicationName
	}
	return config, nil
}

func NewPostgreSQLDB(ctx context.Context, dsn string, settings PoolSettings) (*DB, error) {
	config, err := PoolConfig(dsn, settings)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &DB{Pool: pool}, nil
}

func (db *DB) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return db.Pool.Begin(ctx)
}

type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Transactor runs fn inside a single database transaction. Repositories called
// with the ctx handed to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
