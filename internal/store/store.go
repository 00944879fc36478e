// Package store owns the PostgreSQL connection pool, the schema, and the
// translation of driver errors into the apperr taxonomy.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/vendor-dashboard/internal/apperr"
	"github.com/MikeMC777/vendor-dashboard/internal/config"
)

// QueryTimeout bounds every repository call.
const QueryTimeout = 5 * time.Second

const (
	codeUniqueViolation = "23505"
	codeInvalidText     = "22P02"
	codeCheckViolation  = "23514"
	codeNumericRange    = "22003"
	codeStringTooLong   = "22001"
)

// maxAmount is the smallest value a NUMERIC(12,2) money column cannot hold.
var maxAmount = decimal.New(1, 10)

// AmountFits reports whether d can be stored in a money column once rounded
// to cents.
func AmountFits(d decimal.Decimal) bool {
	return d.Round(2).Abs().LessThan(maxAmount)
}

func NewPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("opening postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return pool, nil
}

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}

// Wrap classifies a driver error. Missing rows become ErrNotFound, unique
// violations ErrConflict, and values the schema refuses ErrInvalidInput;
// anything else is reported as ErrStoreUnavailable.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", apperr.ErrConflict, pgErr.ConstraintName)
		case codeInvalidText, codeCheckViolation, codeNumericRange, codeStringTooLong:
			return fmt.Errorf("%w: %s", apperr.ErrInvalidInput, pgErr.Message)
		}
	}
	return fmt.Errorf("%w: %v", apperr.ErrStoreUnavailable, err)
}
