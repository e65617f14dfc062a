package geom

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"mapmatch/pkg/matcherr"
)

// Factory binds geometry construction to a single Calculator, so every
// Point and Polyline it produces carries the topology its creator
// intended (planar or geoidal). There is no process-wide default
// factory: callers always construct one explicitly and thread it through.
type Factory struct {
	calc Calculator
}

// NewFactory returns a Factory bound to calc.
func NewFactory(calc Calculator) *Factory {
	return &Factory{calc: calc}
}

// Calculator returns the bound topology calculator.
func (f *Factory) Calculator() Calculator { return f.calc }

// CreatePoint builds a 2-D point. Coordinates must be finite; when the
// factory is bound to a geographic calculator (topo.Geoidal/GeoidalApprox),
// x/y are also required to be valid WGS84 longitude/latitude degrees
// (spec §7: out-of-range coordinates are an Invalid-input error, rejected
// immediately rather than flowing into geodesy computations).
func (f *Factory) CreatePoint(x, y float64) (Point, error) {
	if err := checkFinite(x, y); err != nil {
		return Point{}, err
	}
	if err := checkRange(f.calc, x, y); err != nil {
		return Point{}, err
	}
	return Point{c: orb.Point{x, y}, factory: f}, nil
}

// CreatePointZ builds a 3-D point (with elevation/altitude), subject to
// the same finiteness/range checks as CreatePoint.
func (f *Factory) CreatePointZ(x, y, z float64) (Point, error) {
	if err := checkFinite(x, y); err != nil {
		return Point{}, err
	}
	if err := checkRange(f.calc, x, y); err != nil {
		return Point{}, err
	}
	return Point{c: orb.Point{x, y}, z: z, hasZ: true, factory: f}, nil
}

// CreatePolyline builds a polyline from at least two points, deduplicating
// consecutive equal points at construction time.
func (f *Factory) CreatePolyline(points ...Point) (Polyline, error) {
	if len(points) < 2 {
		return Polyline{}, matcherr.New(matcherr.KindInvalidInput, "geom.CreatePolyline",
			fmt.Sprintf("need at least 2 points, got %d", len(points)))
	}
	deduped := make([]Point, 0, len(points))
	deduped = append(deduped, points[0])
	for _, p := range points[1:] {
		if !p.Equal(deduped[len(deduped)-1]) {
			deduped = append(deduped, p)
		}
	}
	if len(deduped) < 2 {
		return Polyline{}, matcherr.New(matcherr.KindInvalidInput, "geom.CreatePolyline",
			"fewer than 2 distinct points after deduplication")
	}
	return Polyline{points: deduped, factory: f}, nil
}

// CreateEmptyPolyline returns the zero Polyline, useful as a sentinel for
// "no path geometry yet" before the caller appends points and calls
// CreatePolyline.
func (f *Factory) CreateEmptyPolyline() Polyline {
	return Polyline{factory: f}
}

func checkFinite(x, y float64) error {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return matcherr.New(matcherr.KindInvalidInput, "geom.CreatePoint", "coordinate is not finite")
	}
	return nil
}

// checkRange enforces WGS84 longitude/latitude bounds for calc bindings
// that are geographic; it's a no-op for planar calculators.
func checkRange(calc Calculator, x, y float64) error {
	if !calc.Geographic() {
		return nil
	}
	if y < -90 || y > 90 {
		return matcherr.New(matcherr.KindInvalidInput, "geom.CreatePoint",
			fmt.Sprintf("latitude %v out of range [-90,90]", y))
	}
	if x < -180 || x > 180 {
		return matcherr.New(matcherr.KindInvalidInput, "geom.CreatePoint",
			fmt.Sprintf("longitude %v out of range [-180,180]", x))
	}
	return nil
}
