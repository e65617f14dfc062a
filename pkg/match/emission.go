package match

import (
	"mapmatch/pkg/geom"
	"mapmatch/pkg/graph"
)

// EmissionKernel computes, for an observation and its candidate set's
// cross-track distances, the negative log-likelihood of each candidate.
type EmissionKernel int

const (
	// Gaussian: p_emit ∝ exp(−½·(d⊥/σ)²).
	Gaussian EmissionKernel = iota
	// Bayesian: p_emit ∝ exp(−d⊥/(d̄+ε)), normalised per step.
	Bayesian
)

const bayesianEpsilon = 1e-6

// emissionCosts returns, for candidate edges cands at observation o, the
// negative log-likelihood of each, under kernel.
func emissionCosts(g *graph.Graph, o geom.Point, cands []graph.EdgeID, kernel EmissionKernel, sigma float64) []float64 {
	calc := g.Factory().Calculator()
	dist := make([]float64, len(cands))
	for i, eid := range cands {
		dist[i] = calc.DistanceToPolyline(o, g.Edge(eid).Path)
	}

	costs := make([]float64, len(cands))
	switch kernel {
	case Gaussian:
		for i, d := range dist {
			z := d / sigma
			costs[i] = 0.5 * z * z // -log(exp(-1/2 z^2)) up to a constant additive term, which cancels in argmin
		}
	case Bayesian:
		var sum float64
		for _, d := range dist {
			sum += d
		}
		mean := 0.0
		if len(dist) > 0 {
			mean = sum / float64(len(dist))
		}
		for i, d := range dist {
			costs[i] = d / (mean + bayesianEpsilon)
		}
	}
	return costs
}
