package dispatch

import (
	"strings"
	"testing"
	"time"

	"a1taxi/fare"
	"a1taxi/geo"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func onlineDriver(id, vehicleType string, locAge time.Duration) Driver {
	return Driver{
		ID:          id,
		UserID:      "user-" + id,
		FullName:    "Driver " + id,
		Status:      DriverOnline,
		IsVerified:  true,
		VehicleType: vehicleType,
		LastLocation: &Location{
			Coord:     geo.Coordinate{Latitude: 12.71, Longitude: 77.81},
			UpdatedAt: now.Add(-locAge),
		},
	}
}

func TestIsCompatible_AcUpgradeIsOneWay(t *testing.T) {
	// A sedan request can be served by a sedan_ac driver...
	if !IsCompatible("sedan", "sedan_ac") {
		t.Error("sedan request should match sedan_ac driver")
	}
	// ...but a sedan_ac request is never downgraded to a plain sedan.
	if IsCompatible("sedan_ac", "sedan") {
		t.Error("sedan_ac request must not match plain sedan driver")
	}
}

func TestIsCompatible_Table(t *testing.T) {
	cases := []struct {
		requested, offered string
		want               bool
	}{
		{"hatchback", "hatchback", true},
		{"hatchback", "hatchback_ac", true},
		{"hatchback_ac", "hatchback", false},
		{"suv", "suv_ac", true},
		{"suv_ac", "suv_ac", true},
		{"auto", "auto", true},
		{"auto", "auto_ac", false},
		{"bike", "bike", true},
		{"bike", "auto", false},
		{"sedan", "suv", false},
		{"tempo", "tempo", true}, // unknown types match only themselves
		{"tempo", "sedan", false},
		{"sedan", "", false},
	}
	for _, tc := range cases {
		if got := IsCompatible(tc.requested, tc.offered); got != tc.want {
			t.Errorf("IsCompatible(%q, %q) = %v, want %v", tc.requested, tc.offered, got, tc.want)
		}
	}
}

func TestIsCompatible_NormalizesCaseAndWhitespace(t *testing.T) {
	if !IsCompatible("  Sedan ", "SEDAN_AC") {
		t.Error("matching should trim whitespace and ignore case")
	}
}

func TestFilterCompatible_Basics(t *testing.T) {
	pool := []Driver{
		onlineDriver("a", "sedan", time.Minute),
		onlineDriver("b", "sedan_ac", time.Minute),
		onlineDriver("c", "suv", time.Minute),
	}
	got := FilterCompatible("sedan", pool, now, 5*time.Minute)
	if len(got) != 2 {
		t.Fatalf("eligible = %d drivers, want 2", len(got))
	}
}

func TestFilterCompatible_ExcludesStaleLocations(t *testing.T) {
	pool := []Driver{
		onlineDriver("fresh", "sedan", 4*time.Minute),
		onlineDriver("stale", "sedan", 6*time.Minute),
	}
	got := FilterCompatible("sedan", pool, now, 5*time.Minute)
	if len(got) != 1 || got[0].ID != "fresh" {
		t.Fatalf("eligible = %v, want only the fresh driver", got)
	}
}

func TestFilterCompatible_ExcludesOfflineUnverifiedAndNoLocation(t *testing.T) {
	offline := onlineDriver("off", "sedan", time.Minute)
	offline.Status = DriverOffline

	busy := onlineDriver("busy", "sedan", time.Minute)
	busy.Status = DriverBusy

	unverified := onlineDriver("unv", "sedan", time.Minute)
	unverified.IsVerified = false

	noLoc := onlineDriver("noloc", "sedan", time.Minute)
	noLoc.LastLocation = nil

	noVehicle := onlineDriver("noveh", "", time.Minute)

	pool := []Driver{offline, busy, unverified, noLoc, noVehicle}
	if got := FilterCompatible("sedan", pool, now, 5*time.Minute); len(got) != 0 {
		t.Fatalf("eligible = %v, want none", got)
	}
}

func TestFilterCompatible_AcRequestIgnoresPlainDriver(t *testing.T) {
	// Spec scenario: one online, verified sedan driver with a fresh
	// location does not satisfy a sedan_ac request.
	pool := []Driver{onlineDriver("a", "sedan", time.Minute)}
	if got := FilterCompatible("sedan_ac", pool, now, 5*time.Minute); len(got) != 0 {
		t.Fatalf("eligible = %v, want empty", got)
	}
}

func testRide(bookingType fare.BookingType) Ride {
	return Ride{
		ID:                 "ride-1",
		CustomerID:         "cust-1",
		CustomerName:       "Asha",
		Pickup:             geo.Coordinate{Latitude: 12.70, Longitude: 77.80},
		PickupAddress:      "Hosur Bus Stand",
		Destination:        geo.Coordinate{Latitude: 12.75, Longitude: 77.85},
		DestinationAddress: "Bagalur Road",
		VehicleType:        "sedan",
		BookingType:        bookingType,
		FareAmount:         182,
		CreatedAt:          now,
	}
}

func TestDispatch_SpecialBookingsBypassMatching(t *testing.T) {
	n := NewNotifier(DefaultPolicy())
	pool := []Driver{onlineDriver("a", "sedan", time.Minute)}

	for _, bt := range []fare.BookingType{fare.BookingRental, fare.BookingOutstation, fare.BookingAirport} {
		res := n.Dispatch(testRide(bt), pool)
		if res.Outcome != OutcomeManualAllocation {
			t.Errorf("%s: outcome = %q, want %q", bt, res.Outcome, OutcomeManualAllocation)
		}
		if res.NotifiedDrivers() != 0 {
			t.Errorf("%s: notified %d drivers, want 0", bt, res.NotifiedDrivers())
		}
		if res.Reason == "" {
			t.Errorf("%s: missing reason code", bt)
		}
	}
}

func TestDispatch_EmptyPool(t *testing.T) {
	n := NewNotifier(DefaultPolicy())
	res := n.Dispatch(testRide(fare.BookingRegular), nil)
	if res.Outcome != OutcomeNoDrivers {
		t.Errorf("outcome = %q, want %q", res.Outcome, OutcomeNoDrivers)
	}
	if res.NotifiedDrivers() != 0 {
		t.Errorf("notified %d drivers, want 0", res.NotifiedDrivers())
	}
}

func TestDispatch_RecordPerDriver(t *testing.T) {
	n := NewNotifier(DefaultPolicy())
	pool := []Driver{
		onlineDriver("a", "sedan", time.Minute),
		onlineDriver("b", "sedan_ac", time.Minute),
	}
	res := n.Dispatch(testRide(fare.BookingRegular), pool)
	if res.Outcome != OutcomeDispatched {
		t.Fatalf("outcome = %q, want %q", res.Outcome, OutcomeDispatched)
	}
	if len(res.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(res.Records))
	}

	rec := res.Records[0]
	if rec.DriverUserID != "user-a" || rec.RideID != "ride-1" {
		t.Errorf("record addressing wrong: %+v", rec)
	}
	if rec.Status != "unread" {
		t.Errorf("record status = %q, want unread", rec.Status)
	}
	if rec.Estimated {
		t.Error("record marked estimated despite a live location")
	}

	// Driver sits ~1.5 km from pickup; ETA is 2 min/km rounded.
	want := geo.DistanceOrSentinel(testRide(fare.BookingRegular).Pickup, pool[0].LastLocation.Coord)
	if rec.DistanceKm != want {
		t.Errorf("distance = %v, want %v", rec.DistanceKm, want)
	}
	if rec.EtaMin != int(want*2+0.5) {
		t.Errorf("eta = %d, want %d", rec.EtaMin, int(want*2+0.5))
	}
	if !strings.Contains(rec.Message, "Hosur Bus Stand") {
		t.Errorf("message %q missing pickup address", rec.Message)
	}
}

func TestResultFailed_DistinctFromNoDrivers(t *testing.T) {
	n := NewNotifier(DefaultPolicy())
	res := n.Dispatch(testRide(fare.BookingRegular), []Driver{onlineDriver("a", "sedan", time.Minute)})
	if res.Outcome != OutcomeDispatched {
		t.Fatalf("outcome = %q, want %q", res.Outcome, OutcomeDispatched)
	}

	// Drivers were found but the notification batch could not be written.
	failed := res.Failed("notification write failed")
	if failed.Outcome != OutcomeDispatchFailed {
		t.Errorf("outcome = %q, want %q", failed.Outcome, OutcomeDispatchFailed)
	}
	if failed.NotifiedDrivers() != 0 {
		t.Errorf("notified %d drivers, want 0 after a failed write", failed.NotifiedDrivers())
	}
	if failed.Reason != "notification write failed" {
		t.Errorf("reason = %q, want the write failure carried through", failed.Reason)
	}
}

func TestDispatch_DefaultDistanceWhenNoLocation(t *testing.T) {
	n := NewNotifier(DefaultPolicy())
	d := onlineDriver("a", "sedan", time.Minute)
	d.LastLocation = nil // eligible set is caller-supplied; no re-check here

	res := n.Dispatch(testRide(fare.BookingRegular), []Driver{d})
	if len(res.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(res.Records))
	}
	rec := res.Records[0]
	if !rec.Estimated {
		t.Error("record not marked estimated")
	}
	if rec.DistanceKm != 5 {
		t.Errorf("distance = %v, want default 5", rec.DistanceKm)
	}
	if rec.EtaMin != 10 {
		t.Errorf("eta = %d, want 10", rec.EtaMin)
	}
}

func TestDispatch_SentinelDistanceForBadCoordinates(t *testing.T) {
	n := NewNotifier(DefaultPolicy())
	d := onlineDriver("a", "sedan", time.Minute)
	d.LastLocation.Coord = geo.Coordinate{Latitude: 500, Longitude: 500}

	res := n.Dispatch(testRide(fare.BookingRegular), []Driver{d})
	if res.Records[0].DistanceKm != geo.SentinelKm {
		t.Errorf("distance = %v, want sentinel %v", res.Records[0].DistanceKm, float64(geo.SentinelKm))
	}
}
