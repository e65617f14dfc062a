package simplify

import (
	"testing"

	"mapmatch/pkg/geom"
	"mapmatch/pkg/topo"
)

func pt(t *testing.T, f *geom.Factory, x, y float64) geom.Point {
	t.Helper()
	p, err := f.CreatePoint(x, y)
	if err != nil {
		t.Fatalf("CreatePoint: %v", err)
	}
	return p
}

func TestDouglasPeuckerDropsNearColinearPoint(t *testing.T) {
	f := geom.NewFactory(topo.Planar{})
	calc := topo.Planar{}
	points := []geom.Point{
		pt(t, f, 0, 0),
		pt(t, f, 5, 0.01), // within tolerance of the 0,0 -> 10,0 chord
		pt(t, f, 10, 0),
	}
	out, err := DouglasPeucker(calc, points, 1.0)
	if err != nil {
		t.Fatalf("DouglasPeucker: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected simplification to 2 points, got %d: %v", len(out), out)
	}
}

func TestDouglasPeuckerKeepsSignificantDetour(t *testing.T) {
	f := geom.NewFactory(topo.Planar{})
	calc := topo.Planar{}
	points := []geom.Point{
		pt(t, f, 0, 0),
		pt(t, f, 5, 10), // far outside tolerance
		pt(t, f, 10, 0),
	}
	out, err := DouglasPeucker(calc, points, 1.0)
	if err != nil {
		t.Fatalf("DouglasPeucker: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected the detour point kept, got %d points: %v", len(out), out)
	}
}

func TestDouglasPeuckerRejectsNonPositiveTolerance(t *testing.T) {
	calc := topo.Planar{}
	if _, err := DouglasPeucker(calc, nil, 0); err == nil {
		t.Fatal("expected an error for zero tolerance")
	}
}

func TestConvexHullSquare(t *testing.T) {
	f := geom.NewFactory(topo.Planar{})
	points := []geom.Point{
		pt(t, f, 0, 0), pt(t, f, 10, 0), pt(t, f, 10, 10), pt(t, f, 0, 10),
		pt(t, f, 5, 5), // interior point, must be dropped
	}
	hull := ConvexHull(points)
	if len(hull) != 4 {
		t.Fatalf("expected a 4-point hull, got %d: %v", len(hull), hull)
	}
	for _, p := range hull {
		if p.X() == 5 && p.Y() == 5 {
			t.Fatal("interior point leaked into hull")
		}
	}
}

func TestConvexHullFewerThanThreePoints(t *testing.T) {
	f := geom.NewFactory(topo.Planar{})
	points := []geom.Point{pt(t, f, 0, 0), pt(t, f, 1, 1)}
	hull := ConvexHull(points)
	if len(hull) != 2 {
		t.Fatalf("expected passthrough for <3 points, got %d", len(hull))
	}
}
