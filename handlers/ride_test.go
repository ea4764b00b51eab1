package handlers

import (
	"testing"
	"time"

	"a1taxi/dispatch"
	"a1taxi/fare"
	"a1taxi/geo"
)

func TestBuildRideRequestEvent_UsesPricedDistance(t *testing.T) {
	ride := dispatch.Ride{
		ID:                 "ride-1",
		CustomerID:         "cust-1",
		Pickup:             geo.Coordinate{Latitude: 12.70, Longitude: 77.80},
		Destination:        geo.Coordinate{Latitude: 12.75, Longitude: 77.85},
		DestinationAddress: "Bagalur Road",
		VehicleType:        "sedan",
		BookingType:        fare.BookingRegular,
		FareAmount:         182,
		DistanceKm:         7.4,
		CreatedAt:          time.Now(),
	}

	ev := buildRideRequestEvent(ride, []string{"drv-1", "drv-2"})

	// The event carries the distance the fare was quoted on, not a value
	// recomputed from the raw coordinates.
	if ev.Distance != 7.4 {
		t.Errorf("distance = %v, want priced 7.4", ev.Distance)
	}
	if ev.RideID != "ride-1" || ev.CustomerID != "cust-1" {
		t.Errorf("event addressing wrong: %+v", ev)
	}
	if ev.PickupLat != 12.70 || ev.PickupLon != 77.80 {
		t.Errorf("pickup = (%v, %v), want ride pickup", ev.PickupLat, ev.PickupLon)
	}
	if ev.Destination != "Bagalur Road" {
		t.Errorf("destination = %q", ev.Destination)
	}
	if ev.BookingType != "regular" || ev.VehicleType != "sedan" || ev.Fare != 182 {
		t.Errorf("trip fields wrong: %+v", ev)
	}
	if len(ev.DriverIDs) != 2 || ev.DriverIDs[0] != "drv-1" || ev.DriverIDs[1] != "drv-2" {
		t.Errorf("driverIDs = %v, want the vetted pair", ev.DriverIDs)
	}
}
