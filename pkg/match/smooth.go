package match

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"mapmatch/pkg/geom"
	"mapmatch/pkg/kalman"
	"mapmatch/pkg/matcherr"
)

// SmoothTrajectory runs spec §2's optional pre-matching stage ("raw
// observations -> F smooths -> J filters"): a position+velocity Kalman
// filter predicts/updates across the sequence, using the gap between
// each pair of timestamps as that step's predict interval, and returns
// one smoothed point per input point (the first point passes through
// unchanged, seeding the filter's initial state).
func SmoothTrajectory(f *geom.Factory, points []geom.Point, timestamps []time.Time, sigmaObs, sigmaProc float64) ([]geom.Point, error) {
	if len(points) != len(timestamps) {
		return nil, matcherr.New(matcherr.KindInvalidInput, "match.SmoothTrajectory",
			"points and timestamps must have the same length")
	}
	if len(points) == 0 {
		return nil, nil
	}

	kf, err := kalman.NewPositionVelocity(points[0].X(), points[0].Y(), 0, 0, sigmaObs, sigmaProc)
	if err != nil {
		return nil, err
	}

	out := make([]geom.Point, len(points))
	out[0] = points[0]
	for i := 1; i < len(points); i++ {
		dt := timestamps[i].Sub(timestamps[i-1]).Seconds()
		if dt <= 0 {
			dt = 1 // non-increasing timestamps: fall back to a unit step
		}
		if err := kf.SetTransitionDt(dt); err != nil {
			return nil, err
		}
		kf.Predict()

		z := mat.NewVecDense(2, []float64{points[i].X(), points[i].Y()})
		if err := kf.Update(z); err != nil {
			return nil, err
		}

		state := kf.State()
		p, err := f.CreatePoint(state.AtVec(0), state.AtVec(1))
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
