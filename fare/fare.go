package fare

import (
	"errors"
	"fmt"
	"math"

	"a1taxi/geo"
	"a1taxi/zones"
)

// ErrMissingFareConfig means no active pricing row exists for the requested
// (vehicle type, booking type) pair. Fatal to a quote: no fare is invented.
var ErrMissingFareConfig = errors.New("no fare configuration found")

// BookingType selects the pricing row and the dispatch route for a ride.
type BookingType string

const (
	BookingRegular    BookingType = "regular"
	BookingRental     BookingType = "rental"
	BookingOutstation BookingType = "outstation"
	BookingAirport    BookingType = "airport"
)

// Valid reports whether the booking type is one the platform sells.
func (b BookingType) Valid() bool {
	switch b {
	case BookingRegular, BookingRental, BookingOutstation, BookingAirport:
		return true
	}
	return false
}

// Config is one active pricing row from the fare matrix.
type Config struct {
	VehicleType     string      `json:"vehicle_type"`
	BookingType     BookingType `json:"booking_type"`
	BaseFare        float64     `json:"base_fare"`
	PerKmRate       float64     `json:"per_km_rate"`
	MinimumFare     float64     `json:"minimum_fare"`
	SurgeMultiplier float64     `json:"surge_multiplier"`
}

// Policy collects the operational constants of the fare formula so alternate
// pricing policies can be tested without code changes.
type Policy struct {
	// BaseKmCovered is the distance already included in the base fare;
	// only distance beyond it is billed per km.
	BaseKmCovered float64
	// AvgSpeedKmh converts distance to an estimated duration when the
	// caller supplies none.
	AvgSpeedKmh float64
	// DeadheadDivisor scales the empty-return-leg distance in the
	// deadhead formula: charge = (hub distance / divisor) * per-km rate.
	DeadheadDivisor float64
	// ReferenceHub is the fixed operational hub the deadhead leg is
	// measured against (Hosur Bus Stand for the default policy).
	ReferenceHub geo.Coordinate
}

// DefaultPolicy returns the production pricing policy.
func DefaultPolicy() Policy {
	return Policy{
		BaseKmCovered:   4,
		AvgSpeedKmh:     30,
		DeadheadDivisor: 2,
		ReferenceHub:    geo.Coordinate{Latitude: 12.7402, Longitude: 77.8240},
	}
}

// Request is a validated fare-quote request. DistanceKm/DurationMin are
// optional route-service overrides; zero means "compute from coordinates".
type Request struct {
	Pickup      geo.Coordinate `json:"pickup"`
	Destination geo.Coordinate `json:"destination"`
	VehicleType string         `json:"vehicle_type"`
	BookingType BookingType    `json:"booking_type"`
	DistanceKm  float64        `json:"distance_km,omitempty"`
	DurationMin float64        `json:"duration_minutes,omitempty"`
}

// Validate rejects malformed input before it reaches the fare formula.
func (r Request) Validate() error {
	if !r.Pickup.Valid() {
		return fmt.Errorf("pickup: %w", geo.ErrInvalidCoordinate)
	}
	if !r.Destination.Valid() {
		return fmt.Errorf("destination: %w", geo.ErrInvalidCoordinate)
	}
	if r.VehicleType == "" {
		return errors.New("vehicle type is required")
	}
	if !r.BookingType.Valid() {
		return fmt.Errorf("unknown booking type %q", r.BookingType)
	}
	if r.DistanceKm < 0 || r.DurationMin < 0 {
		return errors.New("distance and duration overrides must be non-negative")
	}
	return nil
}

// Rings holds the two service rings for a quote; either may be nil.
type Rings struct {
	Inner *zones.Zone
	Outer *zones.Zone
}

// Breakdown is the priced result of a quote. Currency fields are rounded to
// the nearest rupee for display; TotalFare is rounded once from unrounded
// intermediates.
type Breakdown struct {
	BaseFare       float64 `json:"baseFare"`
	DistanceFare   float64 `json:"distanceFare"`
	TimeFare       float64 `json:"timeFare"`
	SurgeFare      float64 `json:"surgeFare"`
	PlatformFee    float64 `json:"platformFee"`
	DeadheadCharge float64 `json:"deadheadCharge"`
	TotalFare      float64 `json:"totalFare"`

	DistanceKm       float64 `json:"distance"`
	DurationMin      float64 `json:"duration"`
	DeadheadDistance float64 `json:"deadheadDistance"`

	ZoneClass       zones.Class `json:"zoneStatus"`
	DeadheadApplied bool        `json:"deadheadApplied"`
	DeadheadReason  string      `json:"deadheadReason"`
}

// Engine computes fare breakdowns. It is pure: every dependency is supplied
// per call, so quotes can run fully in parallel.
type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

// Quote prices a ride request against one fare config and the service rings.
//
// The deadhead surcharge compensates the empty return leg to the reference
// hub and applies only to regular bookings whose destination falls between
// the Inner and Outer rings. Missing rings disable it (fail open) instead of
// failing the quote.
func (e *Engine) Quote(req Request, cfg Config, rings Rings) (Breakdown, error) {
	if err := req.Validate(); err != nil {
		return Breakdown{}, err
	}

	distance := req.DistanceKm
	if distance == 0 {
		d, err := geo.DistanceKm(req.Pickup, req.Destination)
		if err != nil {
			return Breakdown{}, err
		}
		distance = d
	}

	duration := req.DurationMin
	if duration == 0 {
		duration = distance / e.policy.AvgSpeedKmh * 60
	}

	baseFare := cfg.BaseFare

	var distanceFare float64
	if distance > e.policy.BaseKmCovered {
		distanceFare = (distance - e.policy.BaseKmCovered) * cfg.PerKmRate
	}

	surgeFare := (baseFare + distanceFare) * (cfg.SurgeMultiplier - 1)

	subtotal := baseFare + distanceFare + surgeFare
	if subtotal < cfg.MinimumFare {
		subtotal = cfg.MinimumFare
	}

	b := Breakdown{
		BaseFare:     math.Round(baseFare),
		DistanceFare: math.Round(distanceFare),
		SurgeFare:    math.Round(surgeFare),
		DistanceKm:   math.Round(distance*100) / 100,
		DurationMin:  math.Round(duration),
	}

	var deadheadCharge, deadheadDistance float64
	if req.BookingType != BookingRegular {
		b.ZoneClass = zones.ZonesUnavailable
		b.DeadheadReason = "Non-regular booking type"
	} else {
		b.ZoneClass = zones.Classify(req.Destination, rings.Inner, rings.Outer)
		switch b.ZoneClass {
		case zones.BetweenInnerAndOuter:
			deadheadDistance = geo.DistanceOrSentinel(req.Destination, e.policy.ReferenceHub)
			deadheadCharge = (deadheadDistance / e.policy.DeadheadDivisor) * cfg.PerKmRate
			b.DeadheadApplied = true
			b.DeadheadReason = "Between Inner and Outer Ring"
		case zones.WithinInner:
			b.DeadheadReason = "Within Inner Ring"
		case zones.OutsideOuter:
			b.DeadheadReason = "Outside Outer Ring"
		case zones.ZonesUnavailable:
			b.DeadheadReason = "Zones not found"
		}
	}

	b.DeadheadCharge = math.Round(deadheadCharge)
	b.DeadheadDistance = math.Round(deadheadDistance*100) / 100
	b.TotalFare = math.Round(subtotal + deadheadCharge)

	return b, nil
}
