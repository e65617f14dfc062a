package match

import (
	"math"

	"mapmatch/pkg/astar"
	"mapmatch/pkg/geom"
	"mapmatch/pkg/graph"
)

// PluginKind selects one of the four recognized transition penalty
// plugins (spec §4.6.3). Plugins are additive: the final transition
// log-penalty is their sum, and an edge pair with any +∞ contribution is
// pruned.
type PluginKind int

const (
	Topological PluginKind = iota
	NoUTurn
	Direction
	ShortestPath
)

// Plugin configures one transition-penalty contributor. Beta is only
// meaningful for ShortestPath, and has no default (spec §9 note iii):
// callers must set it explicitly when including ShortestPath.
type Plugin struct {
	Kind PluginKind
	Beta float64 // required for ShortestPath, metres
}

// transitionCost sums every configured plugin's penalty for the edge
// pair (prevEdge -> curEdge) observed at (prevObs -> curObs). Returns
// +Inf if any plugin prunes the pair.
func transitionCost(g *graph.Graph, plugins []Plugin, prevEdge, curEdge graph.EdgeID, prevObs, curObs geom.Point) float64 {
	var total float64
	for _, p := range plugins {
		var c float64
		switch p.Kind {
		case Topological:
			c = topologicalPenalty(g, prevEdge, curEdge)
		case NoUTurn:
			c = noUTurnPenalty(g, prevEdge, curEdge)
		case Direction:
			c = directionPenalty(g, prevEdge, curEdge, prevObs, curObs)
		case ShortestPath:
			c = shortestPathPenalty(g, prevEdge, curEdge, prevObs, curObs, p.Beta)
		}
		if math.IsInf(c, 1) {
			return math.Inf(1)
		}
		total += c
	}
	return total
}

func sameEdge(g *graph.Graph, a, b graph.EdgeID) bool {
	return a == b
}

func reachableInOneHop(g *graph.Graph, prev, cur graph.EdgeID) bool {
	if sameEdge(g, prev, cur) {
		return true
	}
	prevE, curE := g.Edge(prev), g.Edge(cur)
	for _, eid := range g.Node(prevE.To).OutEdges {
		if eid == cur {
			return true
		}
	}
	// share endpoints (zero-hop): prev.to == cur.from is covered above;
	// also treat a shared "to" or shared "from" as zero-hop reachable.
	return prevE.To == curE.From || prevE.From == curE.From || prevE.To == curE.To
}

func topologicalPenalty(g *graph.Graph, prev, cur graph.EdgeID) float64 {
	if reachableInOneHop(g, prev, cur) {
		return 0
	}
	return math.Inf(1)
}

func noUTurnPenalty(g *graph.Graph, prev, cur graph.EdgeID) float64 {
	prevE, curE := g.Edge(prev), g.Edge(cur)
	if curE.From == prevE.To && curE.To == prevE.From {
		return math.Inf(1)
	}
	return 0
}

func directionPenalty(g *graph.Graph, prev, cur graph.EdgeID, prevObs, curObs geom.Point) float64 {
	calc := g.Factory().Calculator()
	prevE, curE := g.Edge(prev), g.Edge(cur)

	brngPrev := calc.InitialBearing(g.Node(prevE.From).Point, g.Node(prevE.To).Point)
	brngCur := calc.InitialBearing(g.Node(curE.From).Point, g.Node(curE.To).Point)

	theta := (brngCur - brngPrev) * math.Pi / 180
	cosTheta := math.Cos(theta)
	if cosTheta <= 0 {
		return math.Inf(1)
	}
	return -math.Log(cosTheta)
}

func shortestPathPenalty(g *graph.Graph, prev, cur graph.EdgeID, prevObs, curObs geom.Point, beta float64) float64 {
	prevE, curE := g.Edge(prev), g.Edge(cur)

	var dRoute float64
	if prev == cur || prevE.To == curE.From {
		dRoute = 0
	} else {
		dRoute = astar.Distance(g, prevE.To, curE.From)
		if math.IsInf(dRoute, 1) {
			return math.Inf(1)
		}
	}

	dGc := g.Factory().Calculator().Distance(prevObs, curObs)
	return math.Abs(dRoute-dGc) / beta
}
