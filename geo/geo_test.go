package geo

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestDistanceKm_SamePointIsZero(t *testing.T) {
	points := []Coordinate{
		{0, 0},
		{12.7402, 77.8240},
		{-33.8688, 151.2093},
		{90, 0},
		{-90, 180},
	}
	for _, p := range points {
		d, err := DistanceKm(p, p)
		if err != nil {
			t.Fatalf("DistanceKm(%v, %v) returned error: %v", p, p, err)
		}
		if math.Abs(d) > epsilon {
			t.Errorf("DistanceKm(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := Coordinate{12.70, 77.80}
	b := Coordinate{13.0827, 80.2707}
	ab, err := DistanceKm(a, b)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := DistanceKm(b, a)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(ab-ba) > epsilon {
		t.Errorf("asymmetric distance: %v vs %v", ab, ba)
	}
}

func TestDistanceKm_KnownDistance(t *testing.T) {
	// Hosur Bus Stand to Bengaluru centre, roughly 35-40 km.
	hosur := Coordinate{12.7402, 77.8240}
	bengaluru := Coordinate{12.9716, 77.5946}
	d, err := DistanceKm(hosur, bengaluru)
	if err != nil {
		t.Fatal(err)
	}
	if d < 30 || d > 45 {
		t.Errorf("Hosur-Bengaluru distance = %.2f km, want ~36 km", d)
	}
}

func TestDistanceKm_InvalidInput(t *testing.T) {
	good := Coordinate{12.7, 77.8}
	bad := []Coordinate{
		{math.NaN(), 77.8},
		{12.7, math.NaN()},
		{91, 0},
		{-91, 0},
		{0, 181},
		{0, -181},
	}
	for _, b := range bad {
		if _, err := DistanceKm(good, b); !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("DistanceKm(good, %v) err = %v, want ErrInvalidCoordinate", b, err)
		}
		if _, err := DistanceKm(b, good); !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("DistanceKm(%v, good) err = %v, want ErrInvalidCoordinate", b, err)
		}
	}
}

func TestDistanceOrSentinel(t *testing.T) {
	good := Coordinate{12.7, 77.8}
	if d := DistanceOrSentinel(good, Coordinate{math.NaN(), 0}); d != SentinelKm {
		t.Errorf("sentinel distance = %v, want %v", d, float64(SentinelKm))
	}
	if d := DistanceOrSentinel(good, good); d != 0 {
		t.Errorf("same-point distance = %v, want 0", d)
	}
}
