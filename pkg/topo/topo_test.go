package topo

import (
	"math"
	"testing"

	"mapmatch/pkg/geom"
)

func mustPoint(t *testing.T, f *geom.Factory, x, y float64) geom.Point {
	t.Helper()
	p, err := f.CreatePoint(x, y)
	if err != nil {
		t.Fatalf("CreatePoint(%v,%v): %v", x, y, err)
	}
	return p
}

func TestGeoidalDistanceKnownPair(t *testing.T) {
	// London to Paris, great-circle distance approx 343.5 km.
	f := geom.NewFactory(Geoidal{})
	london := mustPoint(t, f, -0.1278, 51.5074)
	paris := mustPoint(t, f, 2.3522, 48.8566)

	d := Geoidal{}.Distance(london, paris)
	if d < 340_000 || d > 347_000 {
		t.Fatalf("distance out of expected range: got %.1f m", d)
	}
}

func TestGeoidalDistanceCoincidentIsZero(t *testing.T) {
	f := geom.NewFactory(Geoidal{})
	p := mustPoint(t, f, 10, 20)
	if d := (Geoidal{}).Distance(p, p); d != 0 {
		t.Fatalf("expected 0, got %v", d)
	}
}

func TestHaversineCloseToVincentyAtModerateLatitude(t *testing.T) {
	f := geom.NewFactory(GeoidalApprox{})
	a := mustPoint(t, f, -0.1278, 51.5074)
	b := mustPoint(t, f, 2.3522, 48.8566)

	vincenty := Geoidal{}.Distance(a, b)
	haversine := GeoidalApprox{}.Distance(a, b)

	relErr := math.Abs(vincenty-haversine) / vincenty
	if relErr > 0.01 {
		t.Fatalf("haversine diverges from vincenty by %.4f%%, want <1%%", relErr*100)
	}
}

func TestDestinationRoundTrip(t *testing.T) {
	f := geom.NewFactory(Geoidal{})
	origin := mustPoint(t, f, 0, 0)

	dest, err := Geoidal{}.Destination(origin, 90, 100_000)
	if err != nil {
		t.Fatalf("Destination: %v", err)
	}
	back := Geoidal{}.Distance(origin, dest)
	if math.Abs(back-100_000) > 1.0 {
		t.Fatalf("round trip distance = %.3f, want ~100000", back)
	}
}

func TestPlanarOnTrackClosestPointClampsToEndpoints(t *testing.T) {
	f := geom.NewFactory(Planar{})
	a := mustPoint(t, f, 0, 0)
	b := mustPoint(t, f, 10, 0)
	beyond := mustPoint(t, f, 20, 5)

	cp, err := Planar{}.OnTrackClosestPoint(a, b, beyond)
	if err != nil {
		t.Fatalf("OnTrackClosestPoint: %v", err)
	}
	if !cp.Equal(b) {
		t.Fatalf("expected clamp to B, got (%v,%v)", cp.X(), cp.Y())
	}
}

func TestPlanarOnTrackClosestPointMidSegment(t *testing.T) {
	f := geom.NewFactory(Planar{})
	a := mustPoint(t, f, 0, 0)
	b := mustPoint(t, f, 10, 0)
	p := mustPoint(t, f, 5, 3)

	cp, err := Planar{}.OnTrackClosestPoint(a, b, p)
	if err != nil {
		t.Fatalf("OnTrackClosestPoint: %v", err)
	}
	if math.Abs(cp.X()-5) > 1e-9 || math.Abs(cp.Y()) > 1e-9 {
		t.Fatalf("expected (5,0), got (%v,%v)", cp.X(), cp.Y())
	}
}

func TestPlanarIntersectionCross(t *testing.T) {
	f := geom.NewFactory(Planar{})
	a, _ := f.CreatePolyline(mustPoint(t, f, 0, 0), mustPoint(t, f, 10, 10))
	b, _ := f.CreatePolyline(mustPoint(t, f, 0, 10), mustPoint(t, f, 10, 0))

	pts := Planar{}.Intersection(a, b)
	if len(pts) != 1 {
		t.Fatalf("expected 1 intersection, got %d", len(pts))
	}
	if math.Abs(pts[0].X()-5) > 1e-9 || math.Abs(pts[0].Y()-5) > 1e-9 {
		t.Fatalf("expected (5,5), got (%v,%v)", pts[0].X(), pts[0].Y())
	}
}

func TestPlanarIntersectionParallelNone(t *testing.T) {
	f := geom.NewFactory(Planar{})
	a, _ := f.CreatePolyline(mustPoint(t, f, 0, 0), mustPoint(t, f, 10, 0))
	b, _ := f.CreatePolyline(mustPoint(t, f, 0, 1), mustPoint(t, f, 10, 1))

	if pts := (Planar{}).Intersection(a, b); len(pts) != 0 {
		t.Fatalf("expected no intersections, got %d", len(pts))
	}
}

func TestLeftmostRightmostPoint(t *testing.T) {
	f := geom.NewFactory(Planar{})
	pl, _ := f.CreatePolyline(mustPoint(t, f, 3, 0), mustPoint(t, f, -2, 1), mustPoint(t, f, 7, 2))

	left := Planar{}.LeftmostPoint(pl)
	right := Planar{}.RightmostPoint(pl)
	if left.X() != -2 {
		t.Fatalf("leftmost = %v, want -2", left.X())
	}
	if right.X() != 7 {
		t.Fatalf("rightmost = %v, want 7", right.X())
	}
}

func TestAlongTrackDistancePlanar(t *testing.T) {
	f := geom.NewFactory(Planar{})
	a := mustPoint(t, f, 0, 0)
	b := mustPoint(t, f, 10, 0)
	p := mustPoint(t, f, 4, 3)

	d, err := Planar{}.AlongTrackDistance(a, b, p)
	if err != nil {
		t.Fatalf("AlongTrackDistance: %v", err)
	}
	if math.Abs(d-4) > 1e-9 {
		t.Fatalf("along-track = %v, want 4", d)
	}
}

func TestDistanceToPolylineMinimizesOverSegments(t *testing.T) {
	f := geom.NewFactory(Planar{})
	pl, _ := f.CreatePolyline(
		mustPoint(t, f, 0, 0),
		mustPoint(t, f, 10, 0),
		mustPoint(t, f, 10, 10),
	)
	p := mustPoint(t, f, 10, 5) // closest to the second segment, distance 0

	d := (Planar{}).DistanceToPolyline(p, pl)
	if d > 1e-9 {
		t.Fatalf("distance = %v, want ~0", d)
	}
}
