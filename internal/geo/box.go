// Package geo resolves viewport centers into bounding boxes for range
// filtering. Pure math, no I/O.
package geo

import "math"

// Point is a location in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Box is an axis-aligned rectangle usable as an inclusive range filter.
// Bounds are always ordered: LatMin <= LatMax and LngMin <= LngMax.
type Box struct {
	LatMin float64
	LatMax float64
	LngMin float64
	LngMax float64
}

// Resolve returns the box of half-width delta degrees centered on p. The
// min/max normalization keeps the range valid for negative deltas too.
func Resolve(p Point, delta float64) Box {
	lat1, lat2 := p.Lat+delta, p.Lat-delta
	lng1, lng2 := p.Lng+delta, p.Lng-delta
	return Box{
		LatMin: math.Min(lat1, lat2),
		LatMax: math.Max(lat1, lat2),
		LngMin: math.Min(lng1, lng2),
		LngMax: math.Max(lng1, lng2),
	}
}

// Contains reports whether p lies inside b, bounds inclusive.
func (b Box) Contains(p Point) bool {
	return p.Lat >= b.LatMin && p.Lat <= b.LatMax &&
		p.Lng >= b.LngMin && p.Lng <= b.LngMax
}
