// Package menu provides the repository interface and PostgreSQL
// implementation for a vendor's menu entries.
package menu

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/vendor-dashboard/internal/store"
)

type Repository interface {
	Create(ctx context.Context, m *Menu) error
	GetByID(ctx context.Context, vendorID, id string) (*Menu, error)
	ListByVendor(ctx context.Context, vendorID string) ([]Menu, error)
	Update(ctx context.Context, m *Menu) error
	Delete(ctx context.Context, vendorID, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const menuColumns = `id, vendor_id, name, description, price::text, category, meal_type,
	availability, start_date, end_date, is_published, created_at, updated_at`

func scanMenu(row pgx.Row) (*Menu, error) {
	var (
		m     Menu
		price string
	)
	if err := row.Scan(&m.ID, &m.VendorID, &m.Name, &m.Description, &price, &m.Category, &m.MealType,
		&m.Availability, &m.StartDate, &m.EndDate, &m.IsPublished, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, store.Wrap(err)
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("decoding price of menu %s: %w", m.ID, err)
	}
	m.Price = p
	return &m, nil
}

func (r *PGRepo) Create(ctx context.Context, m *Menu) error {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO menus (id, vendor_id, name, description, price, category, meal_type,
		  availability, start_date, end_date, is_published, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5::text::numeric,$6,$7,$8,$9,$10,$11,$12,$12)
	`, m.ID, m.VendorID, m.Name, m.Description, m.Price.StringFixed(2), m.Category, m.MealType,
		m.Availability, m.StartDate, m.EndDate, m.IsPublished, m.CreatedAt)
	return store.Wrap(err)
}

func (r *PGRepo) GetByID(ctx context.Context, vendorID, id string) (*Menu, error) {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	return scanMenu(r.db.QueryRow(ctx, `
		SELECT `+menuColumns+`
		FROM menus WHERE id=$1 AND vendor_id=$2
	`, id, vendorID))
}

func (r *PGRepo) ListByVendor(ctx context.Context, vendorID string) ([]Menu, error) {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+menuColumns+`
		FROM menus WHERE vendor_id=$1
		ORDER BY created_at DESC
	`, vendorID)
	if err != nil {
		return nil, store.Wrap(err)
	}
	defer rows.Close()

	out := []Menu{}
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, store.Wrap(rows.Err())
}

func (r *PGRepo) Update(ctx context.Context, m *Menu) error {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE menus
		SET name=$3, description=$4, price=$5::text::numeric, category=$6, meal_type=$7,
		    availability=$8, start_date=$9, end_date=$10, is_published=$11, updated_at=$12
		WHERE id=$1 AND vendor_id=$2
	`, m.ID, m.VendorID, m.Name, m.Description, m.Price.StringFixed(2), m.Category, m.MealType,
		m.Availability, m.StartDate, m.EndDate, m.IsPublished, m.UpdatedAt)
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

	cmd, err := r.db.Exec(ctx, `DELETE FROM menus WHERE id=$1 AND vendor_id=$2`, id, vendorID)
	if err != nil {
		return false, store.Wrap(err)
	}
	return cmd.RowsAffected() > 0, nil
}
