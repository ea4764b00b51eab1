package db

import (
	"context"
	"log"
)

// Migrate creates all tables if they don't exist, adds indexes, and seeds default data.
// Safe to run multiple times — all operations are idempotent (IF NOT EXISTS / ON CONFLICT).
func Migrate() {
	sql := `
	CREATE EXTENSION IF NOT EXISTS pgcrypto;

	-- ═══════════════════════════════════════════
	-- USERS TABLE — customers and driver accounts
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		full_name TEXT,
		phone_number TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE,
		notification_token TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	ALTER TABLE users ADD COLUMN IF NOT EXISTS notification_token TEXT;

	-- ═══════════════════════════════════════════
	-- DRIVERS TABLE — vehicle and verification state
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS drivers (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		user_id TEXT UNIQUE NOT NULL REFERENCES users(id),
		full_name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'offline',
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		vehicle_type TEXT,
		vehicle_make TEXT,
		vehicle_model TEXT,
		vehicle_color TEXT,
		registration_number TEXT UNIQUE,
		license_number TEXT,
		upi_id TEXT,
		rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_rides INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	ALTER TABLE drivers ADD COLUMN IF NOT EXISTS upi_id TEXT;

	-- ═══════════════════════════════════════════
	-- LIVE LOCATIONS TABLE — latest GPS reading per account
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS live_locations (
		user_id TEXT PRIMARY KEY REFERENCES users(id),
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		heading DOUBLE PRECISION,
		speed DOUBLE PRECISION,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	ALTER TABLE live_locations ADD COLUMN IF NOT EXISTS speed DOUBLE PRECISION;

	-- ═══════════════════════════════════════════
	-- ZONES TABLE — concentric service rings
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS zones (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		name TEXT UNIQUE NOT NULL,
		center_latitude DOUBLE PRECISION NOT NULL,
		center_longitude DOUBLE PRECISION NOT NULL,
		radius_km DOUBLE PRECISION NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	-- Seed the two rings around Hosur Bus Stand (only inserts if absent)
	INSERT INTO zones (id, name, center_latitude, center_longitude, radius_km) VALUES
		(gen_random_uuid()::text, 'Inner Ring', 12.7402, 77.8240, 10.0),
		(gen_random_uuid()::text, 'Outer Ring', 12.7402, 77.8240, 30.0)
	ON CONFLICT (name) DO NOTHING;

	-- ═══════════════════════════════════════════
	-- FARE MATRIX TABLE — one row per (vehicle, booking) pair
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS fare_matrix (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		vehicle_type TEXT NOT NULL,
		booking_type TEXT NOT NULL DEFAULT 'regular',
		base_fare DOUBLE PRECISION NOT NULL DEFAULT 0,
		per_km_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		minimum_fare DOUBLE PRECISION NOT NULL DEFAULT 0,
		surge_multiplier DOUBLE PRECISION NOT NULL DEFAULT 1.0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (vehicle_type, booking_type)
	);

	-- Seed default regular pricing (only inserts if not already present)
	INSERT INTO fare_matrix (id, vehicle_type, booking_type, base_fare, per_km_rate, minimum_fare, surge_multiplier) VALUES
		(gen_random_uuid()::text, 'bike', 'regular', 25.0, 7.0, 30.0, 1.0),
		(gen_random_uuid()::text, 'auto', 'regular', 40.0, 10.0, 50.0, 1.0),
		(gen_random_uuid()::text, 'hatchback', 'regular', 45.0, 11.0, 55.0, 1.0),
		(gen_random_uuid()::text, 'hatchback_ac', 'regular', 50.0, 12.0, 60.0, 1.0),
		(gen_random_uuid()::text, 'sedan', 'regular', 50.0, 12.0, 60.0, 1.0),
		(gen_random_uuid()::text, 'sedan_ac', 'regular', 60.0, 14.0, 70.0, 1.0),
		(gen_random_uuid()::text, 'suv', 'regular', 70.0, 16.0, 80.0, 1.0),
		(gen_random_uuid()::text, 'suv_ac', 'regular', 80.0, 18.0, 90.0, 1.0)
	ON CONFLICT (vehicle_type, booking_type) DO NOTHING;

	-- ═══════════════════════════════════════════
	-- RIDES TABLE — full ride lifecycle
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS rides (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		ride_code TEXT UNIQUE NOT NULL,
		customer_id TEXT NOT NULL REFERENCES users(id),
		driver_id TEXT REFERENCES drivers(id),
		pickup_address TEXT NOT NULL,
		pickup_latitude DOUBLE PRECISION NOT NULL,
		pickup_longitude DOUBLE PRECISION NOT NULL,
		destination_address TEXT NOT NULL,
		destination_latitude DOUBLE PRECISION NOT NULL,
		destination_longitude DOUBLE PRECISION NOT NULL,
		vehicle_type TEXT NOT NULL,
		booking_type TEXT NOT NULL DEFAULT 'regular',
		fare_amount DOUBLE PRECISION NOT NULL,
		distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
		duration_minutes DOUBLE PRECISION NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'requested',
		otp TEXT,
		cancel_reason TEXT,
		payment_mode TEXT,
		payment_status TEXT NOT NULL DEFAULT 'pending',
		accepted_at TIMESTAMPTZ,
		started_at TIMESTAMPTZ,
		completed_at TIMESTAMPTZ,
		cancelled_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	-- Safe column additions for existing databases
	ALTER TABLE rides ADD COLUMN IF NOT EXISTS otp TEXT;
	ALTER TABLE rides ADD COLUMN IF NOT EXISTS cancel_reason TEXT;
	ALTER TABLE rides ADD COLUMN IF NOT EXISTS payment_mode TEXT;
	ALTER TABLE rides ADD COLUMN IF NOT EXISTS payment_status TEXT NOT NULL DEFAULT 'pending';
	ALTER TABLE rides ALTER COLUMN driver_id DROP NOT NULL;

	-- ═══════════════════════════════════════════
	-- NOTIFICATIONS TABLE — driver ride-request inbox
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		user_id TEXT NOT NULL REFERENCES users(id),
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		data JSONB,
		status TEXT NOT NULL DEFAULT 'unread',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	-- ═══════════════════════════════════════════
	-- OTP VERIFICATIONS TABLE — login fallback when SMS delivery fails
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS otp_verifications (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		phone_number TEXT NOT NULL,
		otp_code TEXT NOT NULL,
		full_name TEXT,
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	-- ═══════════════════════════════════════════
	-- ADMINS TABLE — dashboard credentials (Argon2id hashes)
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS admins (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		last_login_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	-- ═══════════════════════════════════════════
	-- FARE QUOTE LOGS TABLE — pricing audit trail
	-- ═══════════════════════════════════════════
	CREATE TABLE IF NOT EXISTS fare_quote_logs (
		id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
		quote_id TEXT UNIQUE,
		request JSONB,
		breakdown JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	-- ═══════════════════════════════════════════
	-- INDEXES — optimized for all API queries
	-- ═══════════════════════════════════════════
	-- Core lookups
	CREATE INDEX IF NOT EXISTS idx_rides_customer ON rides(customer_id);
	CREATE INDEX IF NOT EXISTS idx_rides_driver ON rides(driver_id);
	CREATE INDEX IF NOT EXISTS idx_rides_status ON rides(status);
	CREATE INDEX IF NOT EXISTS idx_users_phone ON users(phone_number);
	CREATE INDEX IF NOT EXISTS idx_drivers_user ON drivers(user_id);

	-- Admin dashboard & filtered queries
	CREATE INDEX IF NOT EXISTS idx_rides_created ON rides(created_at);
	CREATE INDEX IF NOT EXISTS idx_rides_status_created ON rides(status, created_at);
	CREATE INDEX IF NOT EXISTS idx_fare_matrix_lookup ON fare_matrix(vehicle_type, booking_type) WHERE is_active=TRUE;

	-- Driver earnings queries (compound index)
	CREATE INDEX IF NOT EXISTS idx_rides_driver_status_created ON rides(driver_id, status, created_at);

	-- Customer ride history
	CREATE INDEX IF NOT EXISTS idx_rides_customer_created ON rides(customer_id, created_at);

	-- Notification inbox & OTP lookups
	CREATE INDEX IF NOT EXISTS idx_notifications_user_status ON notifications(user_id, status);
	CREATE INDEX IF NOT EXISTS idx_otp_phone ON otp_verifications(phone_number, expires_at);
	CREATE INDEX IF NOT EXISTS idx_quote_logs_created ON fare_quote_logs(created_at);

	-- Dispatch hot path: online verified drivers with a vehicle
	CREATE INDEX IF NOT EXISTS idx_drivers_dispatch ON drivers(status, is_verified) WHERE status='online' AND is_verified=TRUE;
	`

	_, err := Pool.Exec(context.Background(), sql)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Database migration completed successfully")
}
