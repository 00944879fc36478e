package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/vendor-dashboard/internal/store"
)

// PGSource answers the aggregator's queries from PostgreSQL.
type PGSource struct{ db *pgxpool.Pool }

func NewPGSource(db *pgxpool.Pool) *PGSource { return &PGSource{db: db} }

// orderWhere is shared by the filtered count and sum. The optional bounds are
// passed as NULL when unset.
const orderWhere = `
    WHERE vendor_id = $1
      AND ($2::timestamptz IS NULL OR created_at >= $2)
      AND ($3::timestamptz IS NULL OR created_at < $3)
      AND (COALESCE(cardinality($4::text[]), 0) = 0 OR status = ANY($4))`

func filterArgs(f OrderFilter) []any {
	var from, before *time.Time
	if !f.CreatedFrom.IsZero() {
		from = &f.CreatedFrom
	}
	if !f.CreatedBefore.IsZero() {
		before = &f.CreatedBefore
	}
	return []any{f.VendorID, from, before, f.Statuses}
}

func (s *PGSource) count(ctx context.Context, sql string, args ...any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	var n int64
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, store.Wrap(err)
	}
	return int(n), nil
}

func (s *PGSource) CountOrders(ctx context.Context, f OrderFilter) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM orders`+orderWhere, filterArgs(f)...)
}

func (s *PGSource) SumOrderTotals(ctx context.Context, f OrderFilter) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	var total string
	if err := s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_amount), 0)::text FROM orders`+orderWhere,
		filterArgs(f)...,
	).Scan(&total); err != nil {
		return decimal.Zero, store.Wrap(err)
	}
	d, err := decimal.NewFromString(total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing revenue sum %q: %w", total, err)
	}
	return d, nil
}

func (s *PGSource) CountDistinctCustomers(ctx context.Context, vendorID string) (int, error) {
	// COUNT(DISTINCT) skips NULL emails
	return s.count(ctx, `SELECT COUNT(DISTINCT customer_email) FROM orders WHERE vendor_id = $1`, vendorID)
}

func (s *PGSource) CountMenus(ctx context.Context, vendorID string) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM menus WHERE vendor_id = $1`, vendorID)
}

func (s *PGSource) SumSubscribers(ctx context.Context, vendorID string) (int, error) {
	return s.count(ctx, `SELECT COALESCE(SUM(subscriber_count), 0) FROM subscriptions WHERE vendor_id = $1`, vendorID)
}

func (s *PGSource) CountDeliveryStaff(ctx context.Context, vendorID string) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM delivery_staff WHERE vendor_id = $1`, vendorID)
}

func (s *PGSource) OrderPoints(ctx context.Context, vendorID string, from, to time.Time) ([]OrderPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	rows, err := s.db.Query(ctx, `
    SELECT created_at, total_amount::text
    FROM orders
    WHERE vendor_id = $1 AND created_at >= $2 AND created_at <= $3
    ORDER BY created_at
  `, vendorID, from, to)
	if err != nil {
		return nil, store.Wrap(err)
	}
	defer rows.Close()

	var out []OrderPoint
	for rows.Next() {
		var (
			p     OrderPoint
			total string
		)
		if err := rows.Scan(&p.CreatedAt, &total); err != nil {
			return nil, store.Wrap(err)
		}
		if p.TotalAmount, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("parsing order total %q: %w", total, err)
		}
		out = append(out, p)
	}
	return out, store.Wrap(rows.Err())
}

func (s *PGSource) LineItems(ctx context.Context, vendorID string) ([]LineItemFact, error) {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	rows, err := s.db.Query(ctx, `
    SELECT o.id::text,
           COALESCE(item->>'name', ''),
           COALESCE(NULLIF(item->>'price', ''), '0'),
           COALESCE((item->>'quantity')::int, 0),
           o.created_at
    FROM orders o
    CROSS JOIN LATERAL jsonb_array_elements(o.items) AS item
    WHERE o.vendor_id = $1
    ORDER BY o.created_at DESC, o.id DESC
  `, vendorID)
	if err != nil {
		return nil, store.Wrap(err)
	}
	defer rows.Close()

	var out []LineItemFact
	for rows.Next() {
		var (
			f     LineItemFact
			price string
		)
		if err := rows.Scan(&f.OrderID, &f.Name, &price, &f.Quantity, &f.OrderedAt); err != nil {
			return nil, store.Wrap(err)
		}
		if f.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parsing price %q of order %s: %w", price, f.OrderID, err)
		}
		out = append(out, f)
	}
	return out, store.Wrap(rows.Err())
}
