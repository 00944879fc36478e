// Package subscription stores a vendor's subscription plans.
package subscription

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/vendor-dashboard/internal/store"
)

type Repository interface {
	Create(ctx context.Context, s *Subscription) error
	GetByID(ctx context.Context, vendorID, id string) (*Subscription, error)
	ListByVendor(ctx context.Context, vendorID string) ([]Subscription, error)
	Update(ctx context.Context, s *Subscription) error
	Delete(ctx context.Context, vendorID, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const subscriptionColumns = `id, vendor_id, plan_name, description, price::text, duration,
	features, is_active, subscriber_count, created_at, updated_at`

func scanSubscription(row pgx.Row) (*Subscription, error) {
	var (
		s        Subscription
		price    string
		features []byte
	)
	if err := row.Scan(&s.ID, &s.VendorID, &s.PlanName, &s.Description, &price, &s.Duration,
		&features, &s.IsActive, &s.SubscriberCount, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, store.Wrap(err)
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("decoding price of subscription %s: %w", s.ID, err)
	}
	s.Price = p
	if err := json.Unmarshal(features, &s.Features); err != nil {
		return nil, fmt.Errorf("decoding features of subscription %s: %w", s.ID, err)
	}
	if s.Features == nil {
		s.Features = []string{}
	}
	return &s, nil
}

func (r *PGRepo) Create(ctx context.Context, s *Subscription) error {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	features, err := json.Marshal(s.Features)
	if err != nil {
		return fmt.Errorf("encoding features: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO subscriptions (id, vendor_id, plan_name, description, price, duration,
		  features, is_active, subscriber_count, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5::text::numeric,$6,$7,$8,$9,$10,$10)
	`, s.ID, s.VendorID, s.PlanName, s.Description, s.Price.StringFixed(2), s.Duration,
		features, s.IsActive, s.SubscriberCount, s.CreatedAt)
	return store.Wrap(err)
}

func (r *PGRepo) GetByID(ctx context.Context, vendorID, id string) (*Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	return scanSubscription(r.db.QueryRow(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions WHERE id=$1 AND vendor_id=$2
	`, id, vendorID))
}

func (r *PGRepo) ListByVendor(ctx context.Context, vendorID string) ([]Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions WHERE vendor_id=$1
		ORDER BY created_at DESC
	`, vendorID)
	if err != nil {
		return nil, store.Wrap(err)
	}
	defer rows.Close()

	out := []Subscription{}
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, store.Wrap(rows.Err())
}

// Update writes the client-editable fields; subscriber_count is left alone.
func (r *PGRepo) Update(ctx context.Context, s *Subscription) error {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	features, err := json.Marshal(s.Features)
	if err != nil {
		return fmt.Errorf("encoding features: %w", err)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE subscriptions
		SET plan_name=$3, description=$4, price=$5::text::numeric, duration=$6,
		    features=$7, is_active=$8, updated_at=$9
		WHERE id=$1 AND vendor_id=$2
	`, s.ID, s.VendorID, s.PlanName, s.Description, s.Price.StringFixed(2), s.Duration,
		features, s.IsActive, s.UpdatedAt)
	if err != nil {
		return store.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return store.Wrap(pgx.ErrNoRows)
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, vendorID, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM subscriptions WHERE id=$1 AND vendor_id=$2`, id, vendorID)
	if err != nil {
		return false, store.Wrap(err)
	}
	return cmd.RowsAffected() > 0, nil
}
