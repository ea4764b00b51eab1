package stores

import (
	"context"
	"time"

	"a1taxi/db"
	"a1taxi/dispatch"
)

// ListAvailableDrivers returns snapshots of every online verified driver
// together with their latest location reading. Freshness filtering happens
// in the dispatch core, so this query never applies a time cutoff itself.
func ListAvailableDrivers(ctx context.Context) ([]dispatch.Driver, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT d.id, d.user_id, d.full_name, u.phone_number, d.status, d.is_verified,
		       COALESCE(d.vehicle_type, ''), COALESCE(u.notification_token, ''),
		       l.latitude, l.longitude, l.updated_at
		FROM drivers d
		JOIN users u ON u.id = d.user_id
		LEFT JOIN live_locations l ON l.user_id = d.user_id
		WHERE d.status = 'online' AND d.is_verified = TRUE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dispatch.Driver
	for rows.Next() {
		var d dispatch.Driver
		var status string
		var lat, lon *float64
		var updatedAt *time.Time
		if err := rows.Scan(&d.ID, &d.UserID, &d.FullName, &d.Phone, &status, &d.IsVerified,
			&d.VehicleType, &d.NotificationToken, &lat, &lon, &updatedAt); err != nil {
			return nil, err
		}
		d.Status = dispatch.DriverStatus(status)
		if lat != nil && lon != nil && updatedAt != nil {
			d.LastLocation = &dispatch.Location{UpdatedAt: *updatedAt}
			d.LastLocation.Coord.Latitude = *lat
			d.LastLocation.Coord.Longitude = *lon
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpsertLiveLocation writes the latest GPS reading for an account.
func UpsertLiveLocation(ctx context.Context, userID string, lat, lon float64, heading, speed *float64) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO live_locations (user_id, latitude, longitude, heading, speed, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			heading = EXCLUDED.heading,
			speed = EXCLUDED.speed,
			updated_at = NOW()`,
		userID, lat, lon, heading, speed)
	return err
}
