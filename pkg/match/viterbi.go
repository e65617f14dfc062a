package match

import (
	"math"

	"mapmatch/pkg/graph"
	"mapmatch/pkg/prefilter"
)

const infCost = math.MaxFloat64

// step holds one lattice column: candidate edges and their accumulated
// (delta) and backtrace (psi) values.
type step struct {
	candidates []graph.EdgeID
	delta      []float64
	psi        []int // index into the previous step's candidates, or -1
}

// Config bundles the matcher's tunable parameters.
type Config struct {
	Kernel          EmissionKernel
	Sigma           float64
	Plugins         []Plugin
	CandidateRadius float64
}

// Decode runs the classical Viterbi decoder over observations (some
// entries may be nil, per the null-observation model) and returns the
// edge emitted at each index, with -1 marking a skipped (carried-over or
// unresolved) step.
func Decode(g *graph.Graph, observations []*prefilter.Observation, cfg Config) ([]graph.EdgeID, error) {
	n := len(observations)
	emitted := make([]graph.EdgeID, n)
	hasEmission := make([]bool, n)

	steps := make([]*step, n)
	segStart := make([]bool, n) // true where a step begins a fresh trellis segment
	var prevStep *step
	var prevObsIdx int = -1

	for t := 0; t < n; t++ {
		if observations[t] == nil {
			steps[t] = nil
			continue
		}
		cands, err := prefilter.Candidates(g, observations[t], cfg.CandidateRadius)
		if err != nil {
			return nil, err
		}
		if len(cands) == 0 {
			steps[t] = nil
			continue
		}

		emit := emissionCosts(g, observations[t].Point, cands, cfg.Kernel, cfg.Sigma)
		s := &step{candidates: cands, delta: make([]float64, len(cands)), psi: make([]int, len(cands))}

		if prevStep == nil {
			// Initial probability: uniform over this step's candidates.
			for c := range cands {
				s.delta[c] = emit[c] // -log(1/|C|) term cancels in argmin across a uniform column
				s.psi[c] = -1
			}
			segStart[t] = true
		} else {
			prevObs := observations[prevObsIdx].Point
			curObs := observations[t].Point
			for c := range cands {
				best := math.Inf(1)
				bestPrev := -1
				for cp := range prevStep.candidates {
					if prevStep.delta[cp] >= infCost {
						continue
					}
					trans := transitionCost(g, cfg.Plugins, prevStep.candidates[cp], cands[c], prevObs, curObs)
					if math.IsInf(trans, 1) {
						continue
					}
					cost := prevStep.delta[cp] + trans
					if cost < best {
						best = cost
						bestPrev = cp
					}
				}
				if bestPrev == -1 {
					s.delta[c] = infCost
					s.psi[c] = -1
				} else {
					s.delta[c] = best + emit[c]
					s.psi[c] = bestPrev
				}
			}
		}

		if allPruned(s.delta) {
			// Pruned trellis: not an error. Restart from the next
			// feasible observation (spec §4.6.4); the gap is filled by
			// path connection's A* stitching.
			steps[t] = nil
			prevStep = nil
			prevObsIdx = -1
			continue
		}

		steps[t] = s
		prevStep = s
		prevObsIdx = t
	}

	// A pruned column restarts the trellis (segStart), leaving one or
	// more independent segments. Each is backtraced separately from its
	// own last column's argmin, so a restart only drops the gap between
	// segments, not everything matched before it (spec §4.6.4/§4.6.5:
	// the gap is bridged by Connect's A* stitching, not by discarding the
	// earlier matches).
	var idxs []int
	for t := 0; t < n; t++ {
		if steps[t] != nil {
			idxs = append(idxs, t)
		}
	}
	if len(idxs) == 0 {
		return emitted, nil // no observation ever produced a candidate
	}

	var segmentEnds []int
	for i, t := range idxs {
		if i == len(idxs)-1 || segStart[idxs[i+1]] {
			segmentEnds = append(segmentEnds, t)
		}
	}

	for _, end := range segmentEnds {
		argmin := 0
		best := steps[end].delta[0]
		for c, d := range steps[end].delta {
			if d < best {
				best = d
				argmin = c
			}
		}
		emitted[end] = steps[end].candidates[argmin]
		hasEmission[end] = true

		cur := argmin
		for t := end; t > 0; t-- {
			if steps[t] == nil {
				continue
			}
			prev := steps[t].psi[cur]
			// Find the previous non-nil step.
			pt := t - 1
			for pt >= 0 && steps[pt] == nil {
				pt--
			}
			if pt < 0 || prev < 0 {
				break // reached this segment's own first column
			}
			emitted[pt] = steps[pt].candidates[prev]
			hasEmission[pt] = true
			cur = prev
			t = pt + 1 // loop decrement brings us to pt
		}
	}

	result := make([]graph.EdgeID, n)
	for t := 0; t < n; t++ {
		if hasEmission[t] {
			result[t] = emitted[t]
		} else {
			result[t] = -1
		}
	}
	return result, nil
}

func allPruned(delta []float64) bool {
	for _, d := range delta {
		if d < infCost {
			return false
		}
	}
	return true
}
