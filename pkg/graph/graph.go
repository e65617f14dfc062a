// Package graph implements the road graph built by node-coalescing:
// polylines are inserted as edges whose endpoints merge into shared nodes
// when they fall within a configured tolerance of each other. Nodes and
// edges are addressed by index into growable arenas (spec's arena+index
// recommendation), not by pointer, giving stable identities for hashing
// and avoiding the cyclic node<->edge references a pointer graph would
// need.
package graph

import (
	"mapmatch/pkg/geom"
	"mapmatch/pkg/matcherr"
	"mapmatch/pkg/spatial/hprtree"
)

// NodeID indexes into Graph's node arena.
type NodeID int

// EdgeID indexes into Graph's edge arena.
type EdgeID int

// Node is identified by its point; Label is a mutable debug/log string.
// OutEdges is monotone: edges are only ever appended, never removed.
type Node struct {
	Point    geom.Point
	Label    string
	OutEdges []EdgeID
}

// Edge is directed, from one node to another, carrying an optional path
// geometry (defaults to the straight segment between endpoints), a
// weight and an identifier.
type Edge struct {
	ID     string
	From   NodeID
	To     NodeID
	Path   geom.Polyline
	Weight float64
}

// Reverse returns a new Edge with swapped endpoints and reversed path.
func (e Edge) Reverse(id string) Edge {
	return Edge{ID: id, From: e.To, To: e.From, Path: e.Path.Reverse(), Weight: e.Weight}
}

// Graph holds nodes and edges in index-addressed arenas, plus an
// optional embedded Hilbert R-tree over edge path envelopes for
// getEdgesNear.
type Graph struct {
	factory *geom.Factory
	tau     float64 // node-coalescing merge threshold, metres (or planar units)

	nodes []Node
	edges []Edge

	index   *hprtree.Tree // nil until BuildIndex is called
	pending []hprtree.Item

	components []int // nil until Reachable first needs it; invalidated on edge insertion
}

// New creates an empty graph bound to factory, with node-coalescing
// threshold tau (metres). tau must be >= 0.
func New(factory *geom.Factory, tau float64) (*Graph, error) {
	if tau < 0 {
		return nil, matcherr.New(matcherr.KindInvalidInput, "graph.New", "merge threshold must be >= 0")
	}
	return &Graph{factory: factory, tau: tau}, nil
}

// Nodes returns every node's id, in arena order.
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, len(g.nodes))
	for i := range g.nodes {
		ids[i] = NodeID(i)
	}
	return ids
}

// Node returns the node at id.
func (g *Graph) Node(id NodeID) Node { return g.nodes[id] }

// Edge returns the edge at id.
func (g *Graph) Edge(id EdgeID) Edge { return g.edges[id] }

// NumNodes and NumEdges report arena sizes.
func (g *Graph) NumNodes() int { return len(g.nodes) }
func (g *Graph) NumEdges() int { return len(g.edges) }

// SetLabel mutates a node's debug identifier.
func (g *Graph) SetLabel(id NodeID, label string) { g.nodes[id].Label = label }

// nodesWithin returns every existing node id within tau of p.
func (g *Graph) nodesWithin(p geom.Point) []NodeID {
	calc := g.factory.Calculator()
	var out []NodeID
	for i := range g.nodes {
		if calc.Distance(g.nodes[i].Point, p) <= g.tau {
			out = append(out, NodeID(i))
		}
	}
	return out
}

// findOrCreateCluster returns the node ids within tau of p, creating a
// fresh node seeded at p if none exist.
func (g *Graph) findOrCreateCluster(p geom.Point) []NodeID {
	existing := g.nodesWithin(p)
	if len(existing) > 0 {
		return existing
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{Point: p})
	return []NodeID{id}
}

// mergePoint averages a node's point with p (node-coalescing mutation);
// idempotent once every edge referencing the cluster has been added.
func (g *Graph) mergePoint(id NodeID, p geom.Point) {
	g.nodes[id].Point = geom.Midpoint(g.nodes[id].Point, p)
}

func containsNode(set []NodeID, id NodeID) bool {
	for _, s := range set {
		if s == id {
			return true
		}
	}
	return false
}

func setMinus(a, b []NodeID) []NodeID {
	var out []NodeID
	for _, id := range a {
		if !containsNode(b, id) {
			out = append(out, id)
		}
	}
	return out
}

func intersect(a, b []NodeID) []NodeID {
	var out []NodeID
	for _, id := range a {
		if containsNode(b, id) {
			out = append(out, id)
		}
	}
	return out
}

// AddDirectEdge implements spec §4.4's addDirectEdge: locates or creates
// node clusters at the polyline's endpoints, merges their points, and
// adds an edge for every (start-cluster, end-cluster) pair not already
// sharing both endpoints and geometry, plus self-connecting edges for
// clusters whose start and end coalesced into the same node.
func (g *Graph) AddDirectEdge(id string, polyline geom.Polyline) ([]EdgeID, error) {
	if polyline.Len() < 2 {
		return nil, matcherr.New(matcherr.KindInvalidInput, "graph.AddDirectEdge", "polyline needs at least 2 points")
	}
	start, end := polyline.StartPoint(), polyline.EndPoint()

	s := g.findOrCreateCluster(start)
	e := g.findOrCreateCluster(end)
	for _, id := range s {
		g.mergePoint(id, start)
	}
	for _, id := range e {
		g.mergePoint(id, end)
	}

	both := intersect(s, e)
	sOnly := setMinus(s, both)
	eOnly := setMinus(e, both)

	var created []EdgeID
	weight := g.factory.Calculator().Distance(start, end)
	addEdge := func(from, to NodeID) {
		for _, existingID := range g.nodes[from].OutEdges {
			ex := g.edges[existingID]
			if ex.To == to && ex.Path.Equal(polyline) {
				return // open question (ii): distinct geometry is permitted, exact dup is not
			}
		}
		eid := EdgeID(len(g.edges))
		g.edges = append(g.edges, Edge{ID: id, From: from, To: to, Path: polyline, Weight: weight})
		g.nodes[from].OutEdges = append(g.nodes[from].OutEdges, eid)
		created = append(created, eid)
		g.components = nil
		if g.pending != nil {
			g.pending = append(g.pending, hprtree.Item{Envelope: polyline.BoundingBox(), Value: []EdgeID{eid}})
		}
	}

	for _, from := range sOnly {
		for _, to := range eOnly {
			addEdge(from, to)
		}
	}
	for _, a := range both {
		for _, b := range both {
			if a != b {
				addEdge(a, b)
			}
		}
	}

	return created, nil
}

// AddBidirectionalEdge calls AddDirectEdge twice: once with polyline,
// once with its reverse under id+"-rev".
func (g *Graph) AddBidirectionalEdge(id string, polyline geom.Polyline) ([]EdgeID, error) {
	fwd, err := g.AddDirectEdge(id, polyline)
	if err != nil {
		return nil, err
	}
	rev, err := g.AddDirectEdge(id+"-rev", polyline.Reverse())
	if err != nil {
		return nil, err
	}
	return append(fwd, rev...), nil
}

// BuildIndex (re)builds the embedded Hilbert R-tree from every edge
// added so far. Subsequent AddDirectEdge calls append to the staged
// items incrementally but do not resort the tree; call BuildIndex again
// after a batch of insertions to re-pack it.
func (g *Graph) BuildIndex() {
	if g.pending == nil {
		g.pending = make([]hprtree.Item, 0, len(g.edges))
		for i, e := range g.edges {
			g.pending = append(g.pending, hprtree.Item{Envelope: e.Path.BoundingBox(), Value: []EdgeID{EdgeID(i)}})
		}
	}
	g.index = hprtree.Build(g.pending)
}

// GetEdgesNear implements spec §4.4's getEdgesNear: queries the embedded
// R-tree for edges whose path lies within an envelope centred on point
// with diagonal corners at bearings 45°/225° and distance radius. Fails
// with a configuration error if no R-tree is attached.
func (g *Graph) GetEdgesNear(point geom.Point, radius float64) ([]EdgeID, error) {
	if g.index == nil {
		return nil, matcherr.New(matcherr.KindConfiguration, "graph.GetEdgesNear", "no R-tree attached; call BuildIndex first")
	}
	calc := g.factory.Calculator()
	corner1, err := calc.Destination(point, 45, radius)
	if err != nil {
		return nil, err
	}
	corner2, err := calc.Destination(point, 225, radius)
	if err != nil {
		return nil, err
	}
	q := geom.NewEnvelope(corner1.X(), corner1.Y(), corner2.X(), corner2.Y())

	seen := make(map[EdgeID]bool)
	var out []EdgeID
	for _, v := range g.index.Query(q) {
		for _, id := range v.([]EdgeID) {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out, nil
}

// Factory returns the graph's bound geometry factory.
func (g *Graph) Factory() *geom.Factory { return g.factory }

// FindOutEdge returns the id of an edge from---to, if one exists.
func (g *Graph) FindOutEdge(from, to NodeID) (EdgeID, bool) {
	for _, eid := range g.nodes[from].OutEdges {
		if g.edges[eid].To == to {
			return eid, true
		}
	}
	return 0, false
}
