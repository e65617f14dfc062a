package prefilter

import (
	"testing"

	"mapmatch/pkg/geom"
	"mapmatch/pkg/graph"
	"mapmatch/pkg/topo"
)

func TestFilterNullsFarObservations(t *testing.T) {
	f := geom.NewFactory(topo.Planar{})
	g, _ := graph.New(f, 0)
	a, _ := f.CreatePoint(0, 0)
	b, _ := f.CreatePoint(100, 0)
	pl, _ := f.CreatePolyline(a, b)
	g.AddDirectEdge("e", pl)
	g.BuildIndex()

	near, _ := f.CreatePoint(50, 1)
	far, _ := f.CreatePoint(50, 1000)

	obs := []Observation{{Point: near, Index: 0}, {Point: far, Index: 1}}
	out, err := Filter(g, obs, 10)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if out[0] == nil {
		t.Fatal("near observation was nulled")
	}
	if out[1] != nil {
		t.Fatal("far observation was not nulled")
	}
}

func TestCandidatesNilForNullObservation(t *testing.T) {
	f := geom.NewFactory(topo.Planar{})
	g, _ := graph.New(f, 0)
	g.BuildIndex()

	cands, err := Candidates(g, nil, 100)
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	if cands != nil {
		t.Fatalf("expected nil candidates for nil observation, got %v", cands)
	}
}
