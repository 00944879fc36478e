package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/vendor-dashboard/internal/apperr"
	"github.com/MikeMC777/vendor-dashboard/internal/store"
)

// Query narrows ListByVendor. Zero values mean no filter.
type Query struct {
	Status      string
	CreatedFrom time.Time
	Limit       int
}

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, vendorID, id string) (*Order, error)
	ListByVendor(ctx context.Context, vendorID string, q Query) ([]Order, error)
	// UpdateStatus fails with ErrConflict when the order is already terminal.
	UpdateStatus(ctx context.Context, vendorID, id, status string, at time.Time) error
	AssignStaff(ctx context.Context, vendorID, id, staffID string, at time.Time) error
	ListByStaff(ctx context.Context, staffID string, limit int) ([]Order, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const orderColumns = `id, vendor_id, customer_name, customer_phone, customer_email, items,
	total_amount::text, status, delivery_address, delivery_staff_id::text, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o     Order
		items []byte
		total string
	)
	if err := row.Scan(&o.ID, &o.VendorID, &o.CustomerName, &o.CustomerPhone, &o.CustomerEmail,
		&items, &total, &o.Status, &o.DeliveryAddress, &o.DeliveryStaffID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decoding items of order %s: %w", o.ID, err)
	}
	amount, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("decoding total of order %s: %w", o.ID, err)
	}
	o.TotalAmount = amount
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	defer rows.Close()
	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, store.Wrap(err)
		}
		out = append(out, *o)
	}
	return out, store.Wrap(rows.Err())
}

func (r *PGRepo) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encoding items: %w", err)
	}
	if _, err := r.db.Exec(ctx, `
    INSERT INTO orders (id, vendor_id, customer_name, customer_phone, customer_email, items,
      total_amount, status, delivery_address, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7::text::numeric,$8,$9,$10,$10)
  `, o.ID, o.VendorID, o.CustomerName, o.CustomerPhone, o.CustomerEmail, items,
		o.TotalAmount.StringFixed(2), o.Status, o.DeliveryAddress, o.CreatedAt); err != nil {
		return store.Wrap(err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, vendorID, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `
    SELECT `+orderColumns+`
    FROM orders WHERE id=$1 AND vendor_id=$2
  `, id, vendorID))
	if err != nil {
		return nil, store.Wrap(err)
	}
	return o, nil
}

func (r *PGRepo) ListByVendor(ctx context.Context, vendorID string, q Query) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	if q.Limit <= 0 || q.Limit > 500 {
		q.Limit = 500
	}
	var from *time.Time
	if !q.CreatedFrom.IsZero() {
		from = &q.CreatedFrom
	}
	rows, err := r.db.Query(ctx, `
    SELECT `+orderColumns+`
    FROM orders
    WHERE vendor_id=$1
      AND ($2::text = '' OR status = $2)
      AND ($3::timestamptz IS NULL OR created_at >= $3)
    ORDER BY created_at DESC, id DESC
    LIMIT $4
  `, vendorID, q.Status, from, q.Limit)
	if err != nil {
		return nil, store.Wrap(err)
	}
	return collectOrders(rows)
}

func (r *PGRepo) UpdateStatus(ctx context.Context, vendorID, id, status string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
    UPDATE orders
    SET status = $3, updated_at = $4
    WHERE id = $1 AND vendor_id = $2
      AND status NOT IN ('delivered', 'cancelled')
  `, id, vendorID, status, at)
	if err != nil {
		return store.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrTerminal(ctx, vendorID, id)
	}
	return nil
}

// AssignStaff points the order at staffID and keeps the per-staff assignment
// counters in step, all in one transaction.
func (r *PGRepo) AssignStaff(ctx context.Context, vendorID, id, staffID string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return store.Wrap(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var previous *string
	if err := tx.QueryRow(ctx, `
    SELECT delivery_staff_id::text FROM orders
    WHERE id=$1 AND vendor_id=$2 AND status NOT IN ('delivered', 'cancelled')
    FOR UPDATE
  `, id, vendorID).Scan(&previous); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.missingOrTerminal(ctx, vendorID, id)
		}
		return store.Wrap(err)
	}
	if previous != nil && *previous == staffID {
		return tx.Commit(ctx)
	}

	tag, err := tx.Exec(ctx, `
    UPDATE delivery_staff SET assigned_orders = assigned_orders + 1, updated_at = $3
    WHERE id=$1 AND vendor_id=$2
  `, staffID, vendorID, at)
	if err != nil {
		return store.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.ErrNotFound, http.StatusNotFound, "delivery staff not found")
	}
	if previous != nil {
		if _, err := tx.Exec(ctx, `
      UPDATE delivery_staff SET assigned_orders = GREATEST(assigned_orders - 1, 0), updated_at = $2
      WHERE id=$1
    `, *previous, at); err != nil {
			return store.Wrap(err)
		}
	}
	if _, err := tx.Exec(ctx, `
    UPDATE orders SET delivery_staff_id=$3, updated_at=$4
    WHERE id=$1 AND vendor_id=$2
  `, id, vendorID, staffID, at); err != nil {
		return store.Wrap(err)
	}
	return store.Wrap(tx.Commit(ctx))
}

func (r *PGRepo) ListByStaff(ctx context.Context, staffID string, limit int) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.db.Query(ctx, `
    SELECT `+orderColumns+`
    FROM orders WHERE delivery_staff_id=$1
    ORDER BY created_at DESC
    LIMIT $2
  `, staffID, limit)
	if err != nil {
		return nil, store.Wrap(err)
	}
	return collectOrders(rows)
}

func (r *PGRepo) missingOrTerminal(ctx context.Context, vendorID, id string) error {
	var status string
	err := r.db.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 AND vendor_id=$2`, id, vendorID).Scan(&status)
	if err != nil {
		return store.Wrap(err)
	}
	return apperr.Newf(apperr.ErrConflict, http.StatusConflict, "order is already %s", status)
}
