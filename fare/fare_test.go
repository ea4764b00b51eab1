package fare

import (
	"errors"
	"math"
	"testing"

	"a1taxi/geo"
	"a1taxi/zones"
)

var (
	hub    = geo.Coordinate{Latitude: 12.7402, Longitude: 77.8240}
	sedan  = Config{VehicleType: "sedan", BookingType: BookingRegular, BaseFare: 50, PerKmRate: 12, MinimumFare: 60, SurgeMultiplier: 1.0}
	engine = NewEngine(DefaultPolicy())
)

func activeRings(innerKm, outerKm float64) Rings {
	return Rings{
		Inner: &zones.Zone{Name: zones.InnerRingName, Center: hub, RadiusKm: innerKm, IsActive: true},
		Outer: &zones.Zone{Name: zones.OuterRingName, Center: hub, RadiusKm: outerKm, IsActive: true},
	}
}

func regularRequest(distanceKm float64) Request {
	return Request{
		Pickup:      geo.Coordinate{Latitude: 12.70, Longitude: 77.80},
		Destination: geo.Coordinate{Latitude: 12.75, Longitude: 77.85},
		VehicleType: "sedan",
		BookingType: BookingRegular,
		DistanceKm:  distanceKm,
	}
}

func TestQuote_ZonesUnavailableScenario(t *testing.T) {
	// Spec scenario: zones missing, sedan, regular booking.
	req := regularRequest(0)
	b, err := engine.Quote(req, sedan, Rings{})
	if err != nil {
		t.Fatal(err)
	}

	if b.DeadheadCharge != 0 {
		t.Errorf("deadheadCharge = %v, want 0 when zones unavailable", b.DeadheadCharge)
	}
	if b.ZoneClass != zones.ZonesUnavailable {
		t.Errorf("zone class = %q, want %q", b.ZoneClass, zones.ZonesUnavailable)
	}

	distance, err := geo.DistanceKm(req.Pickup, req.Destination)
	if err != nil {
		t.Fatal(err)
	}
	wantDistanceFare := math.Round(math.Max(0, distance-4) * 12)
	if b.DistanceFare != wantDistanceFare {
		t.Errorf("distanceFare = %v, want %v", b.DistanceFare, wantDistanceFare)
	}
	wantTotal := math.Round(math.Max(50+math.Max(0, distance-4)*12, 60))
	if b.TotalFare != wantTotal {
		t.Errorf("totalFare = %v, want %v", b.TotalFare, wantTotal)
	}
}

func TestQuote_FirstFourKmIncluded(t *testing.T) {
	for _, d := range []float64{0.5, 1, 3.99, 4} {
		b, err := engine.Quote(regularRequest(d), sedan, Rings{})
		if err != nil {
			t.Fatal(err)
		}
		if b.DistanceFare != 0 {
			t.Errorf("distance %v km: distanceFare = %v, want 0", d, b.DistanceFare)
		}
	}

	b, err := engine.Quote(regularRequest(6), sedan, Rings{})
	if err != nil {
		t.Fatal(err)
	}
	if b.DistanceFare != 24 { // (6-4) * 12
		t.Errorf("distanceFare = %v, want 24", b.DistanceFare)
	}
}

func TestQuote_MinimumFareFloor(t *testing.T) {
	b, err := engine.Quote(regularRequest(1), sedan, Rings{})
	if err != nil {
		t.Fatal(err)
	}
	// base 50 < minimum 60, so the floor applies.
	if b.TotalFare != 60 {
		t.Errorf("totalFare = %v, want minimum fare 60", b.TotalFare)
	}
}

func TestQuote_SurgeMultiplier(t *testing.T) {
	surged := sedan
	surged.SurgeMultiplier = 1.5

	b, err := engine.Quote(regularRequest(10), surged, Rings{})
	if err != nil {
		t.Fatal(err)
	}
	// base 50 + distance (10-4)*12=72 => surge (50+72)*0.5 = 61
	if b.SurgeFare != 61 {
		t.Errorf("surgeFare = %v, want 61", b.SurgeFare)
	}
	if b.TotalFare != 183 { // 50+72+61
		t.Errorf("totalFare = %v, want 183", b.TotalFare)
	}
}

func TestQuote_DeadheadBetweenRings(t *testing.T) {
	rings := activeRings(2, 50)
	req := regularRequest(0)
	// Destination ~3 km from the hub: outside the 2 km inner ring,
	// inside the 50 km outer ring.
	b, err := engine.Quote(req, sedan, rings)
	if err != nil {
		t.Fatal(err)
	}

	if b.ZoneClass != zones.BetweenInnerAndOuter {
		t.Fatalf("zone class = %q, want %q", b.ZoneClass, zones.BetweenInnerAndOuter)
	}
	if !b.DeadheadApplied {
		t.Fatal("deadhead not applied between rings")
	}

	dd := geo.DistanceOrSentinel(req.Destination, hub)
	wantCharge := math.Round(dd / 2 * 12)
	if b.DeadheadCharge != wantCharge {
		t.Errorf("deadheadCharge = %v, want %v", b.DeadheadCharge, wantCharge)
	}
	if math.Abs(b.DeadheadDistance-math.Round(dd*100)/100) > 1e-9 {
		t.Errorf("deadheadDistance = %v, want %v", b.DeadheadDistance, dd)
	}
}

func TestQuote_NoDeadheadOutsideWindow(t *testing.T) {
	req := regularRequest(0)

	cases := []struct {
		name  string
		rings Rings
		class zones.Class
	}{
		{"within inner", activeRings(20, 50), zones.WithinInner},
		{"outside outer", activeRings(1, 2), zones.OutsideOuter},
	}
	for _, tc := range cases {
		b, err := engine.Quote(req, sedan, tc.rings)
		if err != nil {
			t.Fatal(err)
		}
		if b.ZoneClass != tc.class {
			t.Errorf("%s: zone class = %q, want %q", tc.name, b.ZoneClass, tc.class)
		}
		if b.DeadheadCharge != 0 || b.DeadheadApplied {
			t.Errorf("%s: unexpected deadhead charge %v", tc.name, b.DeadheadCharge)
		}
	}
}

func TestQuote_NoDeadheadForSpecialBookings(t *testing.T) {
	rings := activeRings(2, 50) // destination would qualify if regular
	for _, bt := range []BookingType{BookingRental, BookingOutstation, BookingAirport} {
		req := regularRequest(0)
		req.BookingType = bt
		cfg := sedan
		cfg.BookingType = bt

		b, err := engine.Quote(req, cfg, rings)
		if err != nil {
			t.Fatal(err)
		}
		if b.DeadheadCharge != 0 || b.DeadheadApplied {
			t.Errorf("%s: unexpected deadhead charge %v", bt, b.DeadheadCharge)
		}
	}
}

func TestQuote_TotalMonotonicInDistance(t *testing.T) {
	prev := -1.0
	for d := 0.5; d <= 60; d += 0.5 {
		b, err := engine.Quote(regularRequest(d), sedan, Rings{})
		if err != nil {
			t.Fatal(err)
		}
		if b.TotalFare < prev {
			t.Fatalf("total fare decreased from %v to %v at distance %v", prev, b.TotalFare, d)
		}
		prev = b.TotalFare
	}
}

func TestQuote_DurationFromAverageSpeed(t *testing.T) {
	b, err := engine.Quote(regularRequest(15), sedan, Rings{})
	if err != nil {
		t.Fatal(err)
	}
	if b.DurationMin != 30 { // 15 km at 30 km/h
		t.Errorf("duration = %v min, want 30", b.DurationMin)
	}

	req := regularRequest(15)
	req.DurationMin = 42
	b, err = engine.Quote(req, sedan, Rings{})
	if err != nil {
		t.Fatal(err)
	}
	if b.DurationMin != 42 {
		t.Errorf("override duration = %v min, want 42", b.DurationMin)
	}
}

func TestQuote_RejectsMalformedRequests(t *testing.T) {
	bad := []Request{
		{Pickup: geo.Coordinate{Latitude: 91}, Destination: hub, VehicleType: "sedan", BookingType: BookingRegular},
		{Pickup: hub, Destination: geo.Coordinate{Longitude: 999}, VehicleType: "sedan", BookingType: BookingRegular},
		{Pickup: hub, Destination: hub, VehicleType: "", BookingType: BookingRegular},
		{Pickup: hub, Destination: hub, VehicleType: "sedan", BookingType: "charter"},
		{Pickup: hub, Destination: hub, VehicleType: "sedan", BookingType: BookingRegular, DistanceKm: -1},
	}
	for i, req := range bad {
		if _, err := engine.Quote(req, sedan, Rings{}); err == nil {
			t.Errorf("case %d: malformed request accepted", i)
		}
	}

	if _, err := engine.Quote(Request{Pickup: geo.Coordinate{Latitude: math.NaN()}, Destination: hub, VehicleType: "sedan", BookingType: BookingRegular}, sedan, Rings{}); !errors.Is(err, geo.ErrInvalidCoordinate) {
		t.Errorf("NaN pickup err = %v, want ErrInvalidCoordinate", err)
	}
}
