// Package prefilter implements the glue between raw observations and the
// HMM matcher: nulling out observations too far from any road edge, and
// selecting the bounded candidate-edge set for each surviving
// observation.
package prefilter

import (
	"mapmatch/pkg/geom"
	"mapmatch/pkg/graph"
)

// Observation is a GPS fix: a point plus its original index in the
// trajectory, so null entries can be tracked without collapsing the
// sequence.
type Observation struct {
	Point geom.Point
	Index int
}

// Filter nulls out observations with no edge within proximityRadius of
// any road edge, per spec §9's "optional value in the observation
// sequence" null-observation model. The returned slice is the same
// length as obs; a nil entry marks a nulled observation.
func Filter(g *graph.Graph, obs []Observation, proximityRadius float64) ([]*Observation, error) {
	out := make([]*Observation, len(obs))
	for i := range obs {
		near, err := g.GetEdgesNear(obs[i].Point, proximityRadius)
		if err != nil {
			return nil, err
		}
		if len(near) > 0 {
			o := obs[i]
			out[i] = &o
		}
	}
	return out, nil
}

// Candidates returns the bounded candidate-edge set for observation o:
// every edge within candidateRadius of o's point, per spec §4.6's
// "candidate set at step t" definition. A nil observation yields a nil
// (empty) candidate set.
func Candidates(g *graph.Graph, o *Observation, candidateRadius float64) ([]graph.EdgeID, error) {
	if o == nil {
		return nil, nil
	}
	return g.GetEdgesNear(o.Point, candidateRadius)
}
