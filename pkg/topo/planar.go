package topo

import (
	"math"

	"mapmatch/pkg/geom"
)

// Planar implements geom.Calculator with exact Euclidean geometry on the
// (x,y) plane, ignoring earth curvature entirely. Intended for projected
// coordinate systems or synthetic test fixtures where geodesy would be
// both wrong and unnecessarily slow.
type Planar struct{}

var _ geom.Calculator = Planar{}

func (Planar) Geographic() bool { return false }

func (Planar) Distance(a, b geom.Point) float64 {
	dx, dy := b.X()-a.X(), b.Y()-a.Y()
	return math.Hypot(dx, dy)
}

func (p Planar) DistanceToPolyline(point geom.Point, pl geom.Polyline) float64 {
	return distanceToPolyline(p, point, pl)
}

func (Planar) InitialBearing(a, b geom.Point) float64 {
	dx, dy := b.X()-a.X(), b.Y()-a.Y()
	return wrap360(90 - degrees(math.Atan2(dy, dx))) // 0=north, clockwise
}

func (Planar) Destination(origin geom.Point, bearingDeg, distance float64) (geom.Point, error) {
	theta := radians(90 - bearingDeg)
	x := origin.X() + distance*math.Cos(theta)
	y := origin.Y() + distance*math.Sin(theta)
	return origin.Factory().CreatePoint(x, y)
}

// OnTrackClosestPoint projects p onto segment a-b, clamping to whichever
// endpoint the perpendicular foot falls outside of.
func (pl Planar) OnTrackClosestPoint(a, b, p geom.Point) (geom.Point, error) {
	ax, ay := a.X(), a.Y()
	bx, by := b.X(), b.Y()
	px, py := p.X(), p.Y()

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq < 1e-18 {
		return a, nil
	}
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t <= 0 {
		return a, nil
	}
	if t >= 1 {
		return b, nil
	}
	return a.Factory().CreatePoint(ax+t*dx, ay+t*dy)
}

func (pl Planar) AlongTrackDistance(a, b, p geom.Point) (float64, error) {
	cp, err := pl.OnTrackClosestPoint(a, b, p)
	if err != nil {
		return 0, err
	}
	return pl.Distance(a, cp), nil
}

func (Planar) LeftmostPoint(pl geom.Polyline) geom.Point  { return leftmostPoint(pl) }
func (Planar) RightmostPoint(pl geom.Polyline) geom.Point { return rightmostPoint(pl) }

// Intersection returns the crossing points of every segment pair between
// a and b, solved with the standard parametric line-segment test.
func (Planar) Intersection(a, b geom.Polyline) []geom.Point {
	var out []geom.Point
	ap, bp := a.Points(), b.Points()
	for i := 0; i+1 < len(ap); i++ {
		for j := 0; j+1 < len(bp); j++ {
			if pt, ok := planarSegmentIntersection(ap[i], ap[i+1], bp[j], bp[j+1]); ok {
				out = append(out, pt)
			}
		}
	}
	return out
}

func planarSegmentIntersection(p1, p2, p3, p4 geom.Point) (geom.Point, bool) {
	x1, y1 := p1.X(), p1.Y()
	x2, y2 := p2.X(), p2.Y()
	x3, y3 := p3.X(), p3.Y()
	x4, y4 := p4.X(), p4.Y()

	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if math.Abs(denom) < 1e-15 {
		return geom.Point{}, false // parallel or coincident
	}

	tNum := (x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)
	uNum := (x1-x3)*(y1-y2) - (y1-y3)*(x1-x2)
	t := tNum / denom
	u := uNum / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return geom.Point{}, false
	}

	x := x1 + t*(x2-x1)
	y := y1 + t*(y2-y1)
	pt, err := p1.Factory().CreatePoint(x, y)
	if err != nil {
		return geom.Point{}, false
	}
	return pt, true
}
