package zones

import (
	"a1taxi/geo"
)

// Well-known ring names in the zones table.
const (
	InnerRingName = "Inner Ring"
	OuterRingName = "Outer Ring"
)

// Zone is a named circular service area.
type Zone struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Center   geo.Coordinate `json:"center"`
	RadiusKm float64        `json:"radius_km"`
	IsActive bool           `json:"is_active"`
}

// Contains reports whether the point lies within the zone radius (inclusive).
// Invalid points classify as outside: the sentinel distance always exceeds
// any sane service radius.
func (z Zone) Contains(p geo.Coordinate) bool {
	return geo.DistanceOrSentinel(p, z.Center) <= z.RadiusKm
}

// Class is the result of classifying a point against the two rings.
type Class string

const (
	WithinInner          Class = "within_inner"
	BetweenInnerAndOuter Class = "between_inner_and_outer"
	OutsideOuter         Class = "outside_outer"
	ZonesUnavailable     Class = "zones_unavailable"
)

// Classify places a point relative to the Inner and Outer rings.
//
// Either ring missing or inactive returns ZonesUnavailable; callers are
// expected to fail open (skip deadhead pricing) rather than fail the quote.
func Classify(p geo.Coordinate, inner, outer *Zone) Class {
	if inner == nil || outer == nil || !inner.IsActive || !outer.IsActive {
		return ZonesUnavailable
	}
	if inner.Contains(p) {
		return WithinInner
	}
	if outer.Contains(p) {
		return BetweenInnerAndOuter
	}
	return OutsideOuter
}
