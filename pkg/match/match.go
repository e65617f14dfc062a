// Package match implements the HMM map-matching engine: emission and
// transition costs (emission.go, transition.go), Viterbi decoding
// (viterbi.go), and path-connection post-processing (connect.go), tied
// together by Matcher.
package match

import (
	"mapmatch/pkg/geom"
	"mapmatch/pkg/graph"
	"mapmatch/pkg/prefilter"
)

// Matcher binds a road graph to a fixed Config and runs the full
// decode-connect-concatenate pipeline over a trajectory.
type Matcher struct {
	Graph  *graph.Graph
	Config Config
}

// New returns a Matcher bound to g and cfg.
func New(g *graph.Graph, cfg Config) *Matcher {
	return &Matcher{Graph: g, Config: cfg}
}

// Result is the outcome of matching a trajectory: the raw per-step
// decode (with -1 gaps), the connected edge sequence, and its
// concatenated geometry.
type Result struct {
	Decoded   []graph.EdgeID
	Connected []graph.EdgeID
	Path      geom.Polyline
}

// Match runs prefiltering, Viterbi decoding, and path connection over
// points, a raw GPS trajectory, and returns the matched path. proximityRadius
// bounds which observations survive prefiltering; the candidate radius
// comes from m.Config.
func (m *Matcher) Match(points []geom.Point, proximityRadius float64) (*Result, error) {
	raw := make([]prefilter.Observation, len(points))
	for i, p := range points {
		raw[i] = prefilter.Observation{Point: p, Index: i}
	}

	filtered, err := prefilter.Filter(m.Graph, raw, proximityRadius)
	if err != nil {
		return nil, err
	}

	decoded, err := Decode(m.Graph, filtered, m.Config)
	if err != nil {
		return nil, err
	}

	connected, err := Connect(m.Graph, decoded)
	if err != nil {
		return nil, err
	}

	var path geom.Polyline
	if len(connected) > 0 {
		path, err = ConcatenatePath(m.Graph, connected)
		if err != nil {
			return nil, err
		}
	}

	return &Result{Decoded: decoded, Connected: connected, Path: path}, nil
}

// AverageOrthogonalError reports the mean cross-track (perpendicular)
// distance between the original points and their matched edges, skipping
// any step with no emitted edge. Used by cmd/matchcli to report accuracy.
func (m *Matcher) AverageOrthogonalError(points []geom.Point, decoded []graph.EdgeID) float64 {
	calc := m.Graph.Factory().Calculator()
	var sum float64
	var n int
	for i, e := range decoded {
		if e < 0 {
			continue
		}
		sum += calc.DistanceToPolyline(points[i], m.Graph.Edge(e).Path)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
