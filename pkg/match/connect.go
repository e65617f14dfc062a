package match

import (
	"mapmatch/pkg/astar"
	"mapmatch/pkg/geom"
	"mapmatch/pkg/graph"
)

// Connect turns a Viterbi decode (possibly containing -1 "gap" entries,
// from nulled observations or a pruned-trellis restart) into a single
// connected sequence of edges, per spec §4.6.5. Consecutive distinct
// edges that don't already share an endpoint are stitched with an A*
// route; an unreachable gap is dropped rather than failing the whole
// match.
func Connect(g *graph.Graph, decoded []graph.EdgeID) ([]graph.EdgeID, error) {
	var seq []graph.EdgeID
	for _, e := range decoded {
		if e < 0 {
			continue
		}
		if len(seq) > 0 && seq[len(seq)-1] == e {
			continue // repeated candidate across steps, not a new hop
		}
		seq = append(seq, e)
	}
	if len(seq) <= 1 {
		return seq, nil
	}

	out := []graph.EdgeID{seq[0]}
	for i := 1; i < len(seq); i++ {
		prev, cur := out[len(out)-1], seq[i]
		bridge := bridgeEdges(g, prev, cur)
		out = append(out, bridge...)
		out = append(out, cur)
	}
	return out, nil
}

// bridgeEdges returns the edges, exclusive of prev and cur, needed to
// connect prev.To to cur.From. Adjacent or already-connected edges
// bridge with nothing; disconnected edges route via A*; an unreachable
// pair contributes no bridge (the gap is left in the output geometry).
func bridgeEdges(g *graph.Graph, prev, cur graph.EdgeID) []graph.EdgeID {
	prevE, curE := g.Edge(prev), g.Edge(cur)
	if prevE.To == curE.From {
		return nil
	}
	if id, ok := g.FindOutEdge(prevE.To, curE.From); ok {
		return []graph.EdgeID{id}
	}

	res := astar.FindPath(g, prevE.To, curE.From, astar.DistanceWeights())
	if len(res.Nodes) < 2 {
		return nil // unreachable: leave the gap rather than failing
	}

	var bridge []graph.EdgeID
	for i := 0; i+1 < len(res.Nodes); i++ {
		id, ok := g.FindOutEdge(res.Nodes[i], res.Nodes[i+1])
		if !ok {
			continue
		}
		bridge = append(bridge, id)
	}
	return bridge
}

// ConcatenatePath concatenates the geometries of an edge sequence into a
// single polyline, dropping adjacent duplicate points at the seams.
func ConcatenatePath(g *graph.Graph, edges []graph.EdgeID) (geom.Polyline, error) {
	var pts []geom.Point
	for _, e := range edges {
		pts = append(pts, g.Edge(e).Path.Points()...)
	}
	return g.Factory().CreatePolyline(pts...) // CreatePolyline dedupes consecutive equal points
}
