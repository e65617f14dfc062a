package kalman

import "gonum.org/v1/gonum/mat"

// NewPosition builds the position-only preset (n=2, m=2): state is (x,y),
// observation is the raw (x,y) position, F is identity (no motion model),
// H is identity.
func NewPosition(x0, y0, sigmaObs, sigmaProc float64) (*Filter, error) {
	x := mat.NewVecDense(2, []float64{x0, y0})
	p := mat.NewDense(2, 2, []float64{
		sigmaObs * sigmaObs, 0,
		0, sigmaObs * sigmaObs,
	})
	f := mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	})
	h := mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	})
	q := mat.NewDense(2, 2, []float64{
		sigmaProc * sigmaProc, 0,
		0, sigmaProc * sigmaProc,
	})
	r := mat.NewDense(2, 2, []float64{
		sigmaObs * sigmaObs, 0,
		0, sigmaObs * sigmaObs,
	})
	return New(x, p, f, h, q, r)
}

// NewPositionVelocity builds the position+velocity preset (n=4, m=2):
// state is (x,y,vx,vy), observation is the raw (x,y) position. F's
// off-diagonal Δt terms are set by the caller via Predict's companion
// SetTransitionDt before each predict step, since consecutive
// observations need not be evenly spaced.
func NewPositionVelocity(x0, y0, vx0, vy0, sigmaObs, sigmaProc float64) (*Filter, error) {
	x := mat.NewVecDense(4, []float64{x0, y0, vx0, vy0})
	p := mat.NewDense(4, 4, []float64{
		sigmaObs * sigmaObs, 0, 0, 0,
		0, sigmaObs * sigmaObs, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	f := transitionMatrix(1.0)
	h := mat.NewDense(2, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
	})
	q := mat.NewDense(4, 4, []float64{
		sigmaProc * sigmaProc, 0, 0, 0,
		0, sigmaProc * sigmaProc, 0, 0,
		0, 0, sigmaProc * sigmaProc, 0,
		0, 0, 0, sigmaProc * sigmaProc,
	})
	r := mat.NewDense(2, 2, []float64{
		sigmaObs * sigmaObs, 0,
		0, sigmaObs * sigmaObs,
	})
	return New(x, p, f, h, q, r)
}

// transitionMatrix builds the position+velocity F with F(0,2)=F(1,3)=dt.
func transitionMatrix(dt float64) *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		1, 0, dt, 0,
		0, 1, 0, dt,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

// SetTransitionDt refreshes F's Δt-dependent entries for the
// position+velocity preset ahead of a Predict call. Invalid for the
// position-only preset (n=2); callers should only use it with filters
// built by NewPositionVelocity.
func (fl *Filter) SetTransitionDt(dt float64) error {
	return fl.SetTransition(transitionMatrix(dt))
}
