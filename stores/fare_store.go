package stores

import (
	"context"
	"errors"

	"a1taxi/db"
	"a1taxi/fare"
	"a1taxi/models"

	"github.com/jackc/pgx/v5"
)

// GetFareConfig loads the active pricing row for a (vehicle, booking) pair.
// Absence is a hard error — quoting without a configured rate is never allowed.
func GetFareConfig(ctx context.Context, vehicleType string, bookingType fare.BookingType) (fare.Config, error) {
	var cfg fare.Config
	err := db.Pool.QueryRow(ctx, `
		SELECT vehicle_type, booking_type, base_fare, per_km_rate, minimum_fare, surge_multiplier
		FROM fare_matrix
		WHERE vehicle_type = $1 AND booking_type = $2 AND is_active = TRUE`,
		vehicleType, string(bookingType)).
		Scan(&cfg.VehicleType, &cfg.BookingType, &cfg.BaseFare, &cfg.PerKmRate, &cfg.MinimumFare, &cfg.SurgeMultiplier)
	if errors.Is(err, pgx.ErrNoRows) {
		return fare.Config{}, fare.ErrMissingFareConfig
	}
	if err != nil {
		return fare.Config{}, err
	}
	return cfg, nil
}

// ListFareMatrix returns all pricing rows for the admin dashboard.
func ListFareMatrix(ctx context.Context) ([]models.FareMatrixRow, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, vehicle_type, booking_type, base_fare, per_km_rate, minimum_fare, surge_multiplier, is_active, created_at, updated_at
		FROM fare_matrix ORDER BY vehicle_type, booking_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.FareMatrixRow
	for rows.Next() {
		var r models.FareMatrixRow
		if err := rows.Scan(&r.ID, &r.VehicleType, &r.BookingType, &r.BaseFare, &r.PerKmRate, &r.MinimumFare, &r.SurgeMultiplier, &r.IsActive, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpsertFareConfig creates or replaces the pricing row for a (vehicle, booking) pair.
func UpsertFareConfig(ctx context.Context, cfg fare.Config, isActive bool) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO fare_matrix (vehicle_type, booking_type, base_fare, per_km_rate, minimum_fare, surge_multiplier, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (vehicle_type, booking_type) DO UPDATE SET
			base_fare = EXCLUDED.base_fare,
			per_km_rate = EXCLUDED.per_km_rate,
			minimum_fare = EXCLUDED.minimum_fare,
			surge_multiplier = EXCLUDED.surge_multiplier,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()`,
		cfg.VehicleType, string(cfg.BookingType), cfg.BaseFare, cfg.PerKmRate, cfg.MinimumFare, cfg.SurgeMultiplier, isActive)
	return err
}
