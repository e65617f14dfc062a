package kdtree

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

// TestNNAndContains is scenario S4.
func TestNNAndContains(t *testing.T) {
	f := geom.NewFactory(topo.Planar{})
	pts := []geom.Point{pt(t, f, 1, 1), pt(t, f, 2, 2), pt(t, f, 1, 2)}
	tree, err := Build(pts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	nn, ok := tree.NearestNeighbour(pt(t, f, 3, 3))
	if !ok {
		t.Fatal("NearestNeighbour: not found")
	}
	if nn.X() != 2 || nn.Y() != 2 {
		t.Fatalf("NearestNeighbour = (%v,%v), want (2,2)", nn.X(), nn.Y())
	}

	if !tree.Contains(pt(t, f, 1, 1)) {
		t.Fatal("Contains((1,1)) = false, want true")
	}
	if tree.Contains(pt(t, f, 10, 10)) {
		t.Fatal("Contains((10,10)) = true, want false")
	}
}

func TestNearestNeighbourOnLargerSet(t *testing.T) {
	f := geom.NewFactory(topo.Planar{})
	var pts []geom.Point
	for x := 0.0; x < 10; x++ {
		for y := 0.0; y < 10; y++ {
			pts = append(pts, pt(t, f, x, y))
		}
	}
	tree, err := Build(pts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	query := pt(t, f, 4.4, 7.6)
	nn, ok := tree.NearestNeighbour(query)
	if !ok {
		t.Fatal("not found")
	}

	// brute force check
	best := pts[0]
	bestDist := sqDist(best, query)
	for _, p := range pts[1:] {
		if d := sqDist(p, query); d < bestDist {
			bestDist = d
			best = p
		}
	}
	if !nn.Equal(best) {
		t.Fatalf("NearestNeighbour = (%v,%v), want (%v,%v)", nn.X(), nn.Y(), best.X(), best.Y())
	}
}

func TestRangeQuery(t *testing.T) {
	f := geom.NewFactory(topo.Planar{})
	pts := []geom.Point{
		pt(t, f, 1, 1), pt(t, f, 5, 5), pt(t, f, 3, 3), pt(t, f, 9, 9), pt(t, f, 4, 1),
	}
	tree, err := Build(pts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := tree.RangeQuery(pt(t, f, 0, 0), pt(t, f, 5, 5))
	if len(got) != 4 {
		t.Fatalf("RangeQuery returned %d points, want 4", len(got))
	}
}

func TestEmptyTree(t *testing.T) {
	tree, err := Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := tree.NearestNeighbour(geom.Point{}); ok {
		t.Fatal("NearestNeighbour on empty tree returned ok=true")
	}
}
