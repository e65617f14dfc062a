package geom

import "github.com/paulmach/orb"

// Polyline is an ordered, immutable sequence of at least two points,
// deduplicated at construction time (consecutive equal points collapse
// to one).
type Polyline struct {
	points  []Point
	factory *Factory
}

// Points returns the polyline's points. The returned slice must not be
// mutated by callers.
func (pl Polyline) Points() []Point { return pl.points }

// Len returns the number of points.
func (pl Polyline) Len() int { return len(pl.points) }

// StartPoint returns the first point.
func (pl Polyline) StartPoint() Point { return pl.points[0] }

// EndPoint returns the last point.
func (pl Polyline) EndPoint() Point { return pl.points[len(pl.points)-1] }

// Factory returns the factory this polyline was created with.
func (pl Polyline) Factory() *Factory { return pl.factory }

// Reverse returns a new Polyline with point order reversed.
func (pl Polyline) Reverse() Polyline {
	n := len(pl.points)
	rev := make([]Point, n)
	for i, p := range pl.points {
		rev[n-1-i] = p
	}
	return Polyline{points: rev, factory: pl.factory}
}

// BoundingBox returns the axis-aligned envelope of all points.
func (pl Polyline) BoundingBox() Envelope {
	e := NullEnvelope()
	for _, p := range pl.points {
		e = e.ExpandToInclude(p.X(), p.Y())
	}
	return e
}

// OrbLineString returns the points as an orb.LineString, for interop with
// orb-based code.
func (pl Polyline) OrbLineString() orb.LineString {
	ls := make(orb.LineString, len(pl.points))
	for i, p := range pl.points {
		ls[i] = p.Orb()
	}
	return ls
}

// Equal reports whether two polylines have the same points in the same
// order, under point equality tolerance.
func (pl Polyline) Equal(other Polyline) bool {
	if len(pl.points) != len(other.points) {
		return false
	}
	for i := range pl.points {
		if !pl.points[i].Equal(other.points[i]) {
			return false
		}
	}
	return true
}
