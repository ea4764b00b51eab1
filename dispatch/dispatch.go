package dispatch

import (
	"fmt"
	"math"
	"strings"
	"time"

	"a1taxi/fare"
	"a1taxi/geo"
)

type DriverStatus string

const (
	DriverOnline  DriverStatus = "online"
	DriverBusy    DriverStatus = "busy"
	DriverOffline DriverStatus = "offline"
)

// Location is a driver's last known position with its reading time.
type Location struct {
	Coord     geo.Coordinate
	UpdatedAt time.Time
}

// Driver is a point-in-time snapshot from the driver directory. The core
// only reads these; the directory owns mutation.
type Driver struct {
	ID                string
	UserID            string
	FullName          string
	Phone             string
	Status            DriverStatus
	IsVerified        bool
	VehicleType       string
	NotificationToken string
	LastLocation      *Location
}

// compatibilityMap lists which offered vehicle types satisfy a request.
// A base type accepts its AC variant as a free upgrade; an AC request is
// never downgraded to the plain type. Autos and bikes only match themselves.
var compatibilityMap = map[string][]string{
	"hatchback":    {"hatchback", "hatchback_ac"},
	"hatchback_ac": {"hatchback_ac"},
	"sedan":        {"sedan", "sedan_ac"},
	"sedan_ac":     {"sedan_ac"},
	"suv":          {"suv", "suv_ac"},
	"suv_ac":       {"suv_ac"},
	"auto":         {"auto"},
	"bike":         {"bike"},
}

func normalizeVehicleType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// CompatibleTypes returns the offered vehicle types that satisfy a request.
// Unknown types match only themselves.
func CompatibleTypes(requested string) []string {
	n := normalizeVehicleType(requested)
	if compatible, ok := compatibilityMap[n]; ok {
		return compatible
	}
	return []string{n}
}

// IsCompatible reports whether a driver offering `offered` can serve a
// request for `requested`. Matching trims whitespace and ignores case.
func IsCompatible(requested, offered string) bool {
	n := normalizeVehicleType(offered)
	if n == "" {
		return false
	}
	for _, t := range CompatibleTypes(requested) {
		if t == n {
			return true
		}
	}
	return false
}

// FilterCompatible returns the drivers eligible for a ride: online, verified,
// offering a compatible vehicle, with a location reading no older than
// freshness at the evaluation instant. An empty result is a valid outcome,
// not an error.
func FilterCompatible(requested string, pool []Driver, now time.Time, freshness time.Duration) []Driver {
	eligible := make([]Driver, 0, len(pool))
	for _, d := range pool {
		if d.Status != DriverOnline || !d.IsVerified {
			continue
		}
		if !IsCompatible(requested, d.VehicleType) {
			continue
		}
		if d.LastLocation == nil || now.Sub(d.LastLocation.UpdatedAt) > freshness {
			continue
		}
		eligible = append(eligible, d)
	}
	return eligible
}

// Outcome is the terminal dispatch state of a ride from the notifier's
// perspective. Acceptance and cancellation belong to ride lifecycle
// management outside this package.
type Outcome string

const (
	OutcomeDispatched       Outcome = "dispatched"
	OutcomeNoDrivers        Outcome = "no_drivers_available"
	OutcomeManualAllocation Outcome = "manual_allocation_required"
	// OutcomeDispatchFailed means eligible drivers were found but the
	// notification batch could not be persisted or delivered. The ride is
	// retryable, unlike OutcomeNoDrivers.
	OutcomeDispatchFailed Outcome = "dispatch_failed"
)

// Failed rewrites a result into a retryable dispatch failure with a
// truthful zero notified count.
func (r Result) Failed(reason string) Result {
	return Result{Outcome: OutcomeDispatchFailed, Reason: reason}
}

// Ride is the dispatch view of a created ride.
type Ride struct {
	ID                 string
	CustomerID         string
	CustomerName       string
	CustomerPhone      string
	Pickup             geo.Coordinate
	PickupAddress      string
	Destination        geo.Coordinate
	DestinationAddress string
	VehicleType        string
	BookingType        fare.BookingType
	FareAmount         float64
	DistanceKm         float64
	CreatedAt          time.Time
}

// Record is one ride-request notification addressed to a driver.
type Record struct {
	DriverUserID      string
	NotificationToken string
	RideID            string
	Title             string
	Message           string
	DistanceKm        float64
	EtaMin            int
	// Estimated marks the distance as the default stand-in used when the
	// driver had no usable location, as opposed to a measured value.
	Estimated bool
	Status    string
	Data      map[string]any
}

// Result is the outcome of one dispatch attempt. Records is empty unless
// Outcome is OutcomeDispatched.
type Result struct {
	Outcome Outcome
	Reason  string
	Records []Record
}

// NotifiedDrivers is the truthful count to report back to the caller.
func (r Result) NotifiedDrivers() int {
	return len(r.Records)
}

// Policy holds the dispatch heuristics, injected so they can be tuned
// without code changes.
type Policy struct {
	// LocationFreshness is the maximum age of a driver location reading.
	LocationFreshness time.Duration
	// DefaultDistanceKm stands in when a driver has no location reading
	// at notification time.
	DefaultDistanceKm float64
	// EtaMinPerKm converts pickup distance to an ETA estimate.
	EtaMinPerKm float64
}

// DefaultPolicy returns the production dispatch heuristics: 5-minute
// freshness, 5 km default distance, 2 min/km ETA (30 km/h).
func DefaultPolicy() Policy {
	return Policy{
		LocationFreshness: 5 * time.Minute,
		DefaultDistanceKm: 5,
		EtaMinPerKm:       2,
	}
}

// Notifier turns an eligible driver set into notification records.
type Notifier struct {
	policy Policy
}

func NewNotifier(policy Policy) *Notifier {
	return &Notifier{policy: policy}
}

// Filter applies the compatibility filter with the notifier's freshness
// window.
func (n *Notifier) Filter(requested string, pool []Driver, now time.Time) []Driver {
	return FilterCompatible(requested, pool, now, n.policy.LocationFreshness)
}

// Dispatch produces one notification record per eligible driver, or a
// terminal non-dispatched outcome.
//
// Rental, outstation and airport bookings are never auto-dispatched; they
// short-circuit to OutcomeManualAllocation with zero records. An empty
// driver set yields OutcomeNoDrivers.
func (n *Notifier) Dispatch(ride Ride, eligible []Driver) Result {
	switch ride.BookingType {
	case fare.BookingRental, fare.BookingOutstation, fare.BookingAirport:
		return Result{
			Outcome: OutcomeManualAllocation,
			Reason:  fmt.Sprintf("%s bookings require admin allocation", ride.BookingType),
		}
	}

	if len(eligible) == 0 {
		return Result{
			Outcome: OutcomeNoDrivers,
			Reason:  "no drivers available with matching vehicle type",
		}
	}

	records := make([]Record, 0, len(eligible))
	for _, d := range eligible {
		distance := n.policy.DefaultDistanceKm
		estimated := true
		if d.LastLocation != nil {
			distance = geo.DistanceOrSentinel(ride.Pickup, d.LastLocation.Coord)
			estimated = false
		}
		eta := int(math.Round(distance * n.policy.EtaMinPerKm))

		records = append(records, Record{
			DriverUserID:      d.UserID,
			NotificationToken: d.NotificationToken,
			RideID:            ride.ID,
			Title:             "New Ride Request",
			Message:           fmt.Sprintf("Pickup: %s • %.1fkm away", ride.PickupAddress, distance),
			DistanceKm:        distance,
			EtaMin:            eta,
			Estimated:         estimated,
			Status:            "unread",
			Data: map[string]any{
				"type":                  "ride_request",
				"ride_id":               ride.ID,
				"customer_id":           ride.CustomerID,
				"customer_name":         ride.CustomerName,
				"customer_phone":        ride.CustomerPhone,
				"pickup_address":        ride.PickupAddress,
				"pickup_latitude":       ride.Pickup.Latitude,
				"pickup_longitude":      ride.Pickup.Longitude,
				"destination_address":   ride.DestinationAddress,
				"destination_latitude":  ride.Destination.Latitude,
				"destination_longitude": ride.Destination.Longitude,
				"vehicle_type":          ride.VehicleType,
				"booking_type":          string(ride.BookingType),
				"fare_amount":           ride.FareAmount,
				"distance":              distance,
				"eta":                   eta,
				"created_at":            ride.CreatedAt,
			},
		})
	}

	return Result{Outcome: OutcomeDispatched, Records: records}
}
