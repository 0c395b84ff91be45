package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// DB holds the database connection; nil when DATABASE_URL is not configured
var DB *sql.DB

// Options tunes the connection pool
type Options struct {
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	// ConnectTimeout bounds the whole retry loop
	ConnectTimeout time.Duration
}

// InitDB opens the pgx connection and pings it, retrying with exponential backoff
// so the service survives a database that starts after it.
func InitDB(ctx context.Context, connStr string, opts Options, logger *zap.Logger) error {
	if connStr == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	conn, err := sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = opts.ConnectTimeout
	if policy.MaxElapsedTime <= 0 {
		policy.MaxElapsedTime = time.Minute
	}
	policy.MaxInterval = 10 * time.Second

	err = backoff.RetryNotify(
		func() error {
			return conn.PingContext(ctx)
		},
		backoff.WithContext(policy, ctx),
		func(err error, next time.Duration) {
			logger.Warn("⏳ database not reachable, retrying",
				zap.Error(err),
				zap.Duration("next_attempt_in", next))
		},
	)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(opts.MaxOpenConns)
		conn.SetMaxIdleConns(opts.MaxOpenConns / 2)
	}
	if opts.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	DB = conn
	logger.Info("✓ Database connection established")
	return nil
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
