// Package astar implements an A* path-finder over the road graph,
// supplying routed distances and durations for the HMM matcher's
// ShortestPath transition plugin and for its final path-connection
// post-processing step.
package astar

import (
	"math"

	"mapmatch/pkg/graph"
)

// pqItem is a priority queue entry ordered by f = g + h, tie-broken by
// smaller g, then node identity — spec §4.5.
type pqItem struct {
	node graph.NodeID
	g    float64
	f    float64
}

// minHeap is a concrete-typed min-heap, avoiding container/heap's
// interface-boxing overhead, matching the teacher's own routing
// priority queue style.
type minHeap struct {
	items []pqItem
}

func (h *minHeap) Len() int { return len(h.items) }

func (h *minHeap) push(it pqItem) {
	h.items = append(h.items, it)
	h.siftUp(len(h.items) - 1)
}

func (h *minHeap) pop() pqItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func less(a, b pqItem) bool {
	if a.f != b.f {
		return a.f < b.f
	}
	if a.g != b.g {
		return a.g < b.g
	}
	return a.node < b.node
}

func (h *minHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !less(h.items[i], h.items[parent]) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *minHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left, right := 2*i+1, 2*i+2
		if left < n && less(h.items[left], h.items[smallest]) {
			smallest = left
		}
		if right < n && less(h.items[right], h.items[smallest]) {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// WeightFunc returns the cost of traversing edge e.
type WeightFunc func(g *graph.Graph, e graph.Edge) float64

// HeuristicFunc returns an admissible estimate of the remaining cost from
// current to target.
type HeuristicFunc func(g *graph.Graph, current, target graph.NodeID) float64

// Weights bundles a weight/heuristic pair. Two presets are provided below:
// Distance and Duration (spec §4.5).
type Weights struct {
	Weight    WeightFunc
	Heuristic HeuristicFunc
}

// DistanceWeights weighs edges by their geometric length under the
// graph's own calculator; the heuristic is calculator-distance to the
// target, admissible by the triangle inequality.
func DistanceWeights() Weights {
	return Weights{
		Weight: func(g *graph.Graph, e graph.Edge) float64 {
			return g.Factory().Calculator().Distance(g.Node(e.From).Point, g.Node(e.To).Point)
		},
		Heuristic: func(g *graph.Graph, current, target graph.NodeID) float64 {
			return g.Factory().Calculator().Distance(g.Node(current).Point, g.Node(target).Point)
		},
	}
}

// DurationWeights weighs edges by length/maxSpeed*60, with length in
// metres and maxSpeed supplied per-edge by speedOf (m/s). The heuristic divides the
// straight-line distance by maxAllowedSpeed (m/s), admissible because no
// edge can be faster than the global speed cap.
func DurationWeights(speedOf func(graph.Edge) float64, maxAllowedSpeed float64) Weights {
	return Weights{
		Weight: func(g *graph.Graph, e graph.Edge) float64 {
			length := g.Factory().Calculator().Distance(g.Node(e.From).Point, g.Node(e.To).Point)
			speed := speedOf(e)
			if speed <= 0 {
				return math.Inf(1)
			}
			return length / speed * 60
		},
		Heuristic: func(g *graph.Graph, current, target graph.NodeID) float64 {
			d := g.Factory().Calculator().Distance(g.Node(current).Point, g.Node(target).Point)
			return d / maxAllowedSpeed * 60
		},
	}
}

// Result is the outcome of FindPath: an ordered node sequence and its
// total cost. An empty Nodes slice with no error means no path exists
// (spec §7: "no path" is not an error).
type Result struct {
	Nodes []graph.NodeID
	Cost  float64
}

// FindPath runs A* from source to target over g using w. Returns an
// empty Result if no path exists.
func FindPath(g *graph.Graph, source, target graph.NodeID, w Weights) Result {
	if source == target {
		return Result{Nodes: []graph.NodeID{source}, Cost: 0}
	}
	if !g.Reachable(source, target) {
		return Result{}
	}

	const inf = math.MaxFloat64
	gScore := make(map[graph.NodeID]float64)
	pred := make(map[graph.NodeID]graph.NodeID)
	closed := make(map[graph.NodeID]bool)

	gScore[source] = 0
	h := &minHeap{}
	h.push(pqItem{node: source, g: 0, f: w.Heuristic(g, source, target)})

	for h.Len() > 0 {
		cur := h.pop()
		if closed[cur.node] {
			continue
		}
		if cur.node == target {
			return Result{Nodes: reconstruct(pred, target, source), Cost: cur.g}
		}
		closed[cur.node] = true

		for _, eid := range g.Node(cur.node).OutEdges {
			e := g.Edge(eid)
			if closed[e.To] {
				continue
			}
			tentative := cur.g + w.Weight(g, e)
			best, seen := gScore[e.To]
			if !seen || tentative < best {
				if tentative >= inf {
					continue
				}
				gScore[e.To] = tentative
				pred[e.To] = cur.node
				h.push(pqItem{node: e.To, g: tentative, f: tentative + w.Heuristic(g, e.To, target)})
			}
		}
	}
	return Result{}
}

func reconstruct(pred map[graph.NodeID]graph.NodeID, target, source graph.NodeID) []graph.NodeID {
	var rev []graph.NodeID
	n := target
	for {
		rev = append(rev, n)
		if n == source {
			break
		}
		p, ok := pred[n]
		if !ok {
			break
		}
		n = p
	}
	out := make([]graph.NodeID, len(rev))
	for i, v := range rev {
		out[len(rev)-1-i] = v
	}
	return out
}

// Distance computes the A* Distance-weighted path length between two
// nodes, returning +Inf if unreachable — used by the ShortestPath
// transition plugin.
func Distance(g *graph.Graph, from, to graph.NodeID) float64 {
	r := FindPath(g, from, to, DistanceWeights())
	if len(r.Nodes) == 0 {
		return math.Inf(1)
	}
	return r.Cost
}
