// Package geom holds the immutable geometric value types shared by the
// rest of the engine: Point, Polyline and Envelope. Every value is bound
// to the Factory that created it, so downstream code never has to branch
// on which topology (planar or geoidal) it is working against.
package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// PrecisionTolerance is the coordinate tolerance used by Point equality
// and ordering. Two points within this distance, per axis, compare equal.
const PrecisionTolerance = 1e-9

// Point is an immutable (x=longitude, y=latitude[, z]) coordinate bound to
// the Factory that produced it.
type Point struct {
	c       orb.Point
	z       float64
	hasZ    bool
	factory *Factory
}

// X returns the longitude (or planar x) coordinate.
func (p Point) X() float64 { return p.c[0] }

// Y returns the latitude (or planar y) coordinate.
func (p Point) Y() float64 { return p.c[1] }

// Z returns the elevation and whether it is present.
func (p Point) Z() (float64, bool) { return p.z, p.hasZ }

// Orb returns the underlying orb.Point for interop with orb-based code.
func (p Point) Orb() orb.Point { return p.c }

// Factory returns the factory this point was created with.
func (p Point) Factory() *Factory { return p.factory }

// Equal reports coordinate equality within PrecisionTolerance. Z is
// ignored, matching the data model's identity-by-(x,y) rule for Node.
func (p Point) Equal(q Point) bool {
	return math.Abs(p.c[0]-q.c[0]) <= PrecisionTolerance &&
		math.Abs(p.c[1]-q.c[1]) <= PrecisionTolerance
}

// Less provides a total order compatible with Equal: compares x, then y,
// outside the tolerance band, for callers that need a canonical ordering
// of points.
func (p Point) Less(q Point) bool {
	if math.Abs(p.c[0]-q.c[0]) > PrecisionTolerance {
		return p.c[0] < q.c[0]
	}
	if math.Abs(p.c[1]-q.c[1]) > PrecisionTolerance {
		return p.c[1] < q.c[1]
	}
	return false
}

// Midpoint returns the arithmetic mean of two points (used by the road
// graph's node-coalescing merge step). Z is averaged only when both
// points carry it; otherwise the result has no Z.
func Midpoint(a, b Point) Point {
	c := orb.Point{(a.c[0] + b.c[0]) / 2, (a.c[1] + b.c[1]) / 2}
	p := Point{c: c, factory: a.factory}
	if a.hasZ && b.hasZ {
		p.z = (a.z + b.z) / 2
		p.hasZ = true
	}
	return p
}
