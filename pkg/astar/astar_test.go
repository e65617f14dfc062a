package astar

import (
	"math"
	"testing"

	"mapmatch/pkg/geom"
	"mapmatch/pkg/graph"
	"mapmatch/pkg/topo"
)

func buildLine(t *testing.T, n int) (*graph.Graph, []graph.NodeID) {
	t.Helper()
	f := geom.NewFactory(topo.Planar{})
	g, err := graph.New(f, 0)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	var ids []graph.NodeID
	var prev geom.Point
	for i := 0; i < n; i++ {
		p, _ := f.CreatePoint(float64(i), 0)
		if i > 0 {
			pl, _ := f.CreatePolyline(prev, p)
			edges, err := g.AddDirectEdge("e", pl)
			if err != nil {
				t.Fatalf("AddDirectEdge: %v", err)
			}
			ids = append(ids, g.Edge(edges[0]).From)
		}
		prev = p
	}
	ids = append(ids, graph.NodeID(g.NumNodes()-1))
	return g, ids
}

func TestFindPathOnLine(t *testing.T) {
	g, ids := buildLine(t, 5)
	r := FindPath(g, ids[0], ids[len(ids)-1], DistanceWeights())
	if len(r.Nodes) != 5 {
		t.Fatalf("got %d nodes, want 5", len(r.Nodes))
	}
	if math.Abs(r.Cost-4) > 1e-9 {
		t.Fatalf("cost = %v, want 4", r.Cost)
	}
}

func TestFindPathNoRouteIsEmptyNotError(t *testing.T) {
	f := geom.NewFactory(topo.Planar{})
	g, _ := graph.New(f, 0)
	a, _ := f.CreatePoint(0, 0)
	b, _ := f.CreatePoint(1, 1)
	c, _ := f.CreatePoint(10, 10)
	d, _ := f.CreatePoint(11, 11)

	pl1, _ := f.CreatePolyline(a, b)
	g.AddDirectEdge("e1", pl1)
	pl2, _ := f.CreatePolyline(c, d)
	edges2, _ := g.AddDirectEdge("e2", pl2)

	source := g.Edge(edges2[0]).From
	target := graph.NodeID(0)

	r := FindPath(g, source, target, DistanceWeights())
	if len(r.Nodes) != 0 {
		t.Fatalf("expected empty result for unreachable target, got %v", r.Nodes)
	}
}

// TestFindPathSameComponentButOneWayUnreachable confirms the weak-
// connectivity fast path never falsely concludes reachability: a and c
// share a component (a one-way edge from a to b, and one from c to b)
// but no directed path runs a -> c.
func TestFindPathSameComponentButOneWayUnreachable(t *testing.T) {
	f := geom.NewFactory(topo.Planar{})
	g, _ := graph.New(f, 0)
	a, _ := f.CreatePoint(0, 0)
	b, _ := f.CreatePoint(1, 0)
	c, _ := f.CreatePoint(2, 0)

	plAB, _ := f.CreatePolyline(a, b)
	edgesAB, _ := g.AddDirectEdge("ab", plAB)
	plCB, _ := f.CreatePolyline(c, b)
	edgesCB, _ := g.AddDirectEdge("cb", plCB)

	source := g.Edge(edgesAB[0]).From
	target := g.Edge(edgesCB[0]).From

	r := FindPath(g, source, target, DistanceWeights())
	if len(r.Nodes) != 0 {
		t.Fatalf("expected empty result for one-way-unreachable target, got %v", r.Nodes)
	}
}

func TestSameSourceTarget(t *testing.T) {
	g, ids := buildLine(t, 3)
	r := FindPath(g, ids[0], ids[0], DistanceWeights())
	if len(r.Nodes) != 1 || r.Cost != 0 {
		t.Fatalf("expected trivial path, got %v cost=%v", r.Nodes, r.Cost)
	}
}
