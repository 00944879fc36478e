package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MikeMC777/vendor-dashboard/internal/apperr"
)

func TestWrap(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, apperr.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "vendors_caller_id_key"}, apperr.ErrConflict},
		{"invalid text", &pgconn.PgError{Code: "22P02"}, apperr.ErrInvalidInput},
		{"check violation", &pgconn.PgError{Code: "23514"}, apperr.ErrInvalidInput},
		{"numeric overflow", &pgconn.PgError{Code: "22003", Message: "numeric field overflow"}, apperr.ErrInvalidInput},
		{"string too long", &pgconn.PgError{Code: "22001"}, apperr.ErrInvalidInput},
		{"wrapped numeric overflow", fmt.Errorf("insert order: %w", &pgconn.PgError{Code: "22003"}), apperr.ErrInvalidInput},
		{"connection lost", &pgconn.PgError{Code: "08006"}, apperr.ErrStoreUnavailable},
		{"dial failure", errors.New("dial tcp 10.0.0.5:5432: connection refused"), apperr.ErrStoreUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, Wrap(tc.err), tc.want)
		})
	}
	assert.NoError(t, Wrap(nil))
}

func TestWrap_OverflowIsClientError(t *testing.T) {
	err := Wrap(&pgconn.PgError{Code: "22003", Message: "numeric field overflow"})
	assert.Equal(t, 400, apperr.HTTPStatusCode(err))
	assert.NotErrorIs(t, err, apperr.ErrStoreUnavailable)
}

func TestAmountFits(t *testing.T) {
	assert.True(t, AmountFits(decimal.Zero))
	assert.True(t, AmountFits(decimal.RequireFromString("9999999999.99")))
	assert.True(t, AmountFits(decimal.RequireFromString("9999999999.994")))
	assert.False(t, AmountFits(decimal.RequireFromString("9999999999.995")))
	assert.False(t, AmountFits(decimal.New(1, 10)))
	assert.False(t, AmountFits(decimal.New(1, 12)))
	assert.False(t, AmountFits(decimal.New(-1, 12)))
}
