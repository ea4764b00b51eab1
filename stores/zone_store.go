package stores

import (
	"context"

	"a1taxi/db"
	"a1taxi/fare"
	"a1taxi/geo"
	"a1taxi/zones"
)

// GetActiveRings loads the two service rings by name. A missing or inactive
// ring comes back nil so pricing can fall back to zones-unavailable mode
// instead of failing the quote.
func GetActiveRings(ctx context.Context) (fare.Rings, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, center_latitude, center_longitude, radius_km, is_active
		FROM zones
		WHERE name IN ($1, $2) AND is_active = TRUE`,
		zones.InnerRingName, zones.OuterRingName)
	if err != nil {
		return fare.Rings{}, err
	}
	defer rows.Close()

	var rings fare.Rings
	for rows.Next() {
		var z zones.Zone
		if err := rows.Scan(&z.ID, &z.Name, &z.Center.Latitude, &z.Center.Longitude, &z.RadiusKm, &z.IsActive); err != nil {
			return fare.Rings{}, err
		}
		switch z.Name {
		case zones.InnerRingName:
			inner := z
			rings.Inner = &inner
		case zones.OuterRingName:
			outer := z
			rings.Outer = &outer
		}
	}
	return rings, rows.Err()
}

// ListZones returns every zone row for the admin dashboard, active or not.
func ListZones(ctx context.Context) ([]zones.Zone, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, center_latitude, center_longitude, radius_km, is_active
		FROM zones ORDER BY radius_km ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []zones.Zone
	for rows.Next() {
		var z zones.Zone
		if err := rows.Scan(&z.ID, &z.Name, &z.Center.Latitude, &z.Center.Longitude, &z.RadiusKm, &z.IsActive); err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}

// UpsertZone creates or replaces a zone by name.
func UpsertZone(ctx context.Context, name string, center geo.Coordinate, radiusKm float64, isActive bool) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO zones (name, center_latitude, center_longitude, radius_km, is_active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			center_latitude = EXCLUDED.center_latitude,
			center_longitude = EXCLUDED.center_longitude,
			radius_km = EXCLUDED.radius_km,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()`,
		name, center.Latitude, center.Longitude, radiusKm, isActive)
	return err
}
