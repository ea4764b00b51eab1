package zones

import (
	"testing"

	"a1taxi/geo"
)

var hosur = geo.Coordinate{Latitude: 12.7402, Longitude: 77.8240}

func ring(name string, radiusKm float64, active bool) *Zone {
	return &Zone{Name: name, Center: hosur, RadiusKm: radiusKm, IsActive: active}
}

func TestClassify_WithinInner(t *testing.T) {
	inner := ring(InnerRingName, 10, true)
	outer := ring(OuterRingName, 25, true)

	if got := Classify(hosur, inner, outer); got != WithinInner {
		t.Errorf("centre point classified %q, want %q", got, WithinInner)
	}
}

func TestClassify_BetweenRings(t *testing.T) {
	inner := ring(InnerRingName, 10, true)
	outer := ring(OuterRingName, 25, true)

	// Bagalur side, ~15 km out from the hub.
	point := geo.Coordinate{Latitude: 12.87, Longitude: 77.87}
	if got := Classify(point, inner, outer); got != BetweenInnerAndOuter {
		t.Errorf("mid-ring point classified %q, want %q", got, BetweenInnerAndOuter)
	}
}

func TestClassify_OutsideOuter(t *testing.T) {
	inner := ring(InnerRingName, 10, true)
	outer := ring(OuterRingName, 25, true)

	chennai := geo.Coordinate{Latitude: 13.0827, Longitude: 80.2707}
	if got := Classify(chennai, inner, outer); got != OutsideOuter {
		t.Errorf("outstation point classified %q, want %q", got, OutsideOuter)
	}
}

func TestClassify_BoundaryIsInclusive(t *testing.T) {
	inner := ring(InnerRingName, 0, true)
	outer := ring(OuterRingName, 25, true)

	// Zero radius still contains its own centre (distance 0 <= 0).
	if got := Classify(hosur, inner, outer); got != WithinInner {
		t.Errorf("centre of zero-radius ring classified %q, want %q", got, WithinInner)
	}
}

func TestClassify_ZonesUnavailable(t *testing.T) {
	inner := ring(InnerRingName, 10, true)
	outer := ring(OuterRingName, 25, true)
	inactive := ring(OuterRingName, 25, false)

	cases := []struct {
		name         string
		inner, outer *Zone
	}{
		{"no inner", nil, outer},
		{"no outer", inner, nil},
		{"both missing", nil, nil},
		{"inactive outer", inner, inactive},
	}
	for _, tc := range cases {
		if got := Classify(hosur, tc.inner, tc.outer); got != ZonesUnavailable {
			t.Errorf("%s: classified %q, want %q", tc.name, got, ZonesUnavailable)
		}
	}
}

// Growing a ring can only move a point from outside to inside, never back.
func TestClassify_MonotonicInRadius(t *testing.T) {
	point := geo.Coordinate{Latitude: 12.87, Longitude: 77.87}
	outer := ring(OuterRingName, 200, true)

	inside := false
	for radius := 1.0; radius <= 50; radius += 1 {
		inner := ring(InnerRingName, radius, true)
		got := Classify(point, inner, outer)
		if got == WithinInner {
			inside = true
		} else if inside {
			t.Fatalf("point left the inner ring when radius grew to %.0f km", radius)
		}
	}
	if !inside {
		t.Fatal("point never entered the inner ring up to 50 km")
	}
}

func TestContains_InvalidPointIsOutside(t *testing.T) {
	z := ring(InnerRingName, 50, true)
	if z.Contains(geo.Coordinate{Latitude: 200, Longitude: 0}) {
		t.Error("invalid point reported inside zone")
	}
}
