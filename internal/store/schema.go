package store

var schema = []string{
	`CREATE TABLE IF NOT EXISTS vendors (
		id                  UUID PRIMARY KEY,
		caller_id           TEXT NOT NULL,
		business_name       TEXT NOT NULL DEFAULT '',
		email               TEXT NOT NULL DEFAULT '',
		phone               TEXT NOT NULL DEFAULT '',
		address             TEXT NOT NULL DEFAULT '',
		upi_id              TEXT NOT NULL DEFAULT '',
		qr_code_url         TEXT NOT NULL DEFAULT '',
		profile_picture_url TEXT NOT NULL DEFAULT '',
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// one vendor per caller identity; get-or-create relies on it
	`CREATE UNIQUE INDEX IF NOT EXISTS vendors_caller_id_key ON vendors (caller_id)`,

	`CREATE TABLE IF NOT EXISTS menus (
		id           UUID PRIMARY KEY,
		vendor_id    UUID NOT NULL REFERENCES vendors(id) ON DELETE CASCADE,
		name         TEXT NOT NULL DEFAULT '',
		description  TEXT NOT NULL DEFAULT '',
		price        NUMERIC(12,2) NOT NULL DEFAULT 0,
		category     TEXT NOT NULL DEFAULT '',
		meal_type    TEXT NOT NULL DEFAULT 'breakfast',
		availability TEXT NOT NULL DEFAULT 'daily',
		start_date   TEXT NOT NULL DEFAULT '',
		end_date     TEXT NOT NULL DEFAULT '',
		is_published BOOLEAN NOT NULL DEFAULT FALSE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS menus_vendor_id_idx ON menus (vendor_id)`,

	`CREATE TABLE IF NOT EXISTS delivery_staff (
		id                  UUID PRIMARY KEY,
		vendor_id           UUID NOT NULL REFERENCES vendors(id) ON DELETE CASCADE,
		name                TEXT NOT NULL DEFAULT '',
		phone               TEXT NOT NULL DEFAULT '',
		email               TEXT NOT NULL DEFAULT '',
		address             TEXT NOT NULL DEFAULT '',
		vehicle_type        TEXT NOT NULL DEFAULT 'bike',
		license_number      TEXT NOT NULL DEFAULT '',
		assigned_zone       TEXT NOT NULL DEFAULT '',
		password_hash       TEXT NOT NULL,
		temporary_password  TEXT,
		is_active           BOOLEAN NOT NULL DEFAULT TRUE,
		assigned_orders     INTEGER NOT NULL DEFAULT 0,
		location_lat        DOUBLE PRECISION,
		location_lng        DOUBLE PRECISION,
		location_updated_at TIMESTAMPTZ,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (vendor_id, phone)
	)`,
	`CREATE INDEX IF NOT EXISTS delivery_staff_phone_idx ON delivery_staff (phone)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id                UUID PRIMARY KEY,
		vendor_id         UUID NOT NULL REFERENCES vendors(id) ON DELETE CASCADE,
		customer_name     TEXT NOT NULL DEFAULT '',
		customer_phone    TEXT NOT NULL DEFAULT '',
		customer_email    TEXT,
		items             JSONB NOT NULL DEFAULT '[]'::jsonb,
		total_amount      NUMERIC(12,2) NOT NULL DEFAULT 0,
		status            TEXT NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending','confirmed','preparing','ready','out_for_delivery','delivered','cancelled')),
		delivery_address  TEXT NOT NULL DEFAULT '',
		delivery_staff_id UUID REFERENCES delivery_staff(id) ON DELETE SET NULL,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS orders_vendor_created_idx ON orders (vendor_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS orders_staff_idx ON orders (delivery_staff_id)`,

	`CREATE TABLE IF NOT EXISTS subscriptions (
		id               UUID PRIMARY KEY,
		vendor_id        UUID NOT NULL REFERENCES vendors(id) ON DELETE CASCADE,
		plan_name        TEXT NOT NULL DEFAULT '',
		description      TEXT NOT NULL DEFAULT '',
		price            NUMERIC(12,2) NOT NULL DEFAULT 0,
		duration         TEXT NOT NULL DEFAULT 'monthly',
		features         JSONB NOT NULL DEFAULT '[]'::jsonb,
		is_active        BOOLEAN NOT NULL DEFAULT TRUE,
		subscriber_count INTEGER NOT NULL DEFAULT 0 CHECK (subscriber_count >= 0),
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS subscriptions_vendor_id_idx ON subscriptions (vendor_id)`,
}
