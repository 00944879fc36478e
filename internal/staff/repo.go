package staff

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/vendor-dashboard/internal/store"
)

type Repository interface {
	Create(ctx context.Context, s *Staff) error
	// Get loads a staff member by id alone, for the delivery portal.
	Get(ctx context.Context, id string) (*Staff, error)
	GetByID(ctx context.Context, vendorID, id string) (*Staff, error)
	ListByVendor(ctx context.Context, vendorID string) ([]Staff, error)
	ListByPhone(ctx context.Context, phone string) ([]Staff, error)
	Update(ctx context.Context, s *Staff) error
	UpdateLocation(ctx context.Context, id string, lat, lng float64, at time.Time) error
	Delete(ctx context.Context, vendorID, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const staffColumns = `id, vendor_id, name, phone, email, address, vehicle_type, license_number,
	assigned_zone, password_hash, temporary_password, is_active, assigned_orders,
	location_lat, location_lng, location_updated_at, created_at, updated_at`

func scanStaff(row pgx.Row) (*Staff, error) {
	var s Staff
	if err := row.Scan(&s.ID, &s.VendorID, &s.Name, &s.Phone, &s.Email, &s.Address, &s.VehicleType,
		&s.LicenseNumber, &s.AssignedZone, &s.PasswordHash, &s.TemporaryPassword, &s.IsActive,
		&s.AssignedOrders, &s.Location.Lat, &s.Location.Lng, &s.Location.UpdatedAt,
		&s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, store.Wrap(err)
	}
	return &s, nil
}

func (r *PGRepo) list(ctx context.Context, sql string, args ...any) ([]Staff, error) {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, store.Wrap(err)
	}
	defer rows.Close()

	out := []Staff{}
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, store.Wrap(rows.Err())
}

func (r *PGRepo) Create(ctx context.Context, s *Staff) error {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO delivery_staff (id, vendor_id, name, phone, email, address, vehicle_type,
		  license_number, assigned_zone, password_hash, temporary_password, is_active,
		  assigned_orders, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,0,$13,$13)
	`, s.ID, s.VendorID, s.Name, s.Phone, s.Email, s.Address, s.VehicleType,
		s.LicenseNumber, s.AssignedZone, s.PasswordHash, s.TemporaryPassword, s.IsActive, s.CreatedAt)
	return store.Wrap(err)
}

func (r *PGRepo) Get(ctx context.Context, id string) (*Staff, error) {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	return scanStaff(r.db.QueryRow(ctx, `SELECT `+staffColumns+` FROM delivery_staff WHERE id=$1`, id))
}

func (r *PGRepo) GetByID(ctx context.Context, vendorID, id string) (*Staff, error) {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	return scanStaff(r.db.QueryRow(ctx, `
		SELECT `+staffColumns+`
		FROM delivery_staff WHERE id=$1 AND vendor_id=$2
	`, id, vendorID))
}

func (r *PGRepo) ListByVendor(ctx context.Context, vendorID string) ([]Staff, error) {
	return r.list(ctx, `
		SELECT `+staffColumns+`
		FROM delivery_staff WHERE vendor_id=$1
		ORDER BY created_at DESC
	`, vendorID)
}

// ListByPhone returns every staff record using phone; the number is only
// unique within one vendor.
func (r *PGRepo) ListByPhone(ctx context.Context, phone string) ([]Staff, error) {
	return r.list(ctx, `
		SELECT `+staffColumns+`
		FROM delivery_staff WHERE phone=$1
		ORDER BY created_at
	`, phone)
}

func (r *PGRepo) Update(ctx context.Context, s *Staff) error {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE delivery_staff
		SET name=$3, phone=$4, email=$5, address=$6, vehicle_type=$7, license_number=$8,
		    assigned_zone=$9, is_active=$10, temporary_password=$11, updated_at=$12
		WHERE id=$1 AND vendor_id=$2
	`, s.ID, s.VendorID, s.Name, s.Phone, s.Email, s.Address, s.VehicleType, s.LicenseNumber,
		s.AssignedZone, s.IsActive, s.TemporaryPassword, s.UpdatedAt)
	if err != nil {
		return store.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return store.Wrap(pgx.ErrNoRows)
	}
	return nil
}

func (r *PGRepo) UpdateLocation(ctx context.Context, id string, lat, lng float64, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, store.QueryTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE delivery_staff
		SET location_lat=$2, location_lng=$3, location_updated_at=$4, updated_at=$4
		WHERE id=$1
	`, id, lat, lng, at)
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

	cmd, err := r.db.Exec(ctx, `DELETE FROM delivery_staff WHERE id=$1 AND vendor_id=$2`, id, vendorID)
	if err != nil {
		return false, store.Wrap(err)
	}
	return cmd.RowsAffected() > 0, nil
}
