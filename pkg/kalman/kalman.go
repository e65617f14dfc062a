// Package kalman implements a general linear Kalman filter, parameterized
// by state dimension n and observation dimension m, used to smooth raw
// GPS observations before map-matching.
package kalman

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"mapmatch/pkg/matcherr"
)

// Filter is a general n-state, m-observation linear Kalman filter.
// Matrices are gonum dense matrices; dimensions are checked on every
// setter, per the configuration-error invariant.
type Filter struct {
	n, m int

	x *mat.VecDense // n x 1 state estimate
	p *mat.Dense     // n x n state covariance

	f *mat.Dense // n x n state transition
	h *mat.Dense // m x n observation model
	q *mat.Dense // n x n process noise
	r *mat.Dense // m x m observation noise
}

// New builds a filter with the given initial state/covariance and
// model matrices. All matrices are copied; the caller's originals are
// never aliased.
func New(x0 *mat.VecDense, p0, f, h, q, r *mat.Dense) (*Filter, error) {
	n, _ := x0.Dims()
	if rp, cp := p0.Dims(); rp != n || cp != n {
		return nil, dimErr("P", n, n, rp, cp)
	}
	if rf, cf := f.Dims(); rf != n || cf != n {
		return nil, dimErr("F", n, n, rf, cf)
	}
	rh, ch := h.Dims()
	if ch != n {
		return nil, dimErr("H", rh, n, rh, ch)
	}
	m := rh
	if rq, cq := q.Dims(); rq != n || cq != n {
		return nil, dimErr("Q", n, n, rq, cq)
	}
	if rr, cr := r.Dims(); rr != m || cr != m {
		return nil, dimErr("R", m, m, rr, cr)
	}

	fl := &Filter{n: n, m: m}
	fl.x = mat.VecDenseCopyOf(x0)
	fl.p = mat.DenseCopyOf(p0)
	fl.f = mat.DenseCopyOf(f)
	fl.h = mat.DenseCopyOf(h)
	fl.q = mat.DenseCopyOf(q)
	fl.r = mat.DenseCopyOf(r)
	return fl, nil
}

func dimErr(name string, wantR, wantC, gotR, gotC int) error {
	return matcherr.New(matcherr.KindInvalidInput, "kalman.New",
		fmt.Sprintf("%s: want %dx%d, got %dx%d", name, wantR, wantC, gotR, gotC))
}

// State returns a copy of the current state estimate.
func (fl *Filter) State() *mat.VecDense { return mat.VecDenseCopyOf(fl.x) }

// Covariance returns a copy of the current state covariance.
func (fl *Filter) Covariance() *mat.Dense { return mat.DenseCopyOf(fl.p) }

// SetTransition replaces F, e.g. to refresh the Δt-dependent entries of
// the position+velocity preset between observations of uneven spacing.
func (fl *Filter) SetTransition(f *mat.Dense) error {
	if r, c := f.Dims(); r != fl.n || c != fl.n {
		return dimErr("F", fl.n, fl.n, r, c)
	}
	fl.f = mat.DenseCopyOf(f)
	return nil
}

// Predict advances the state: x <- F x, P <- F P F^T + Q.
func (fl *Filter) Predict() {
	var xNew mat.VecDense
	xNew.MulVec(fl.f, fl.x)
	fl.x = &xNew

	var fp, fpft mat.Dense
	fp.Mul(fl.f, fl.p)
	fpft.Mul(&fp, fl.f.T())
	fpft.Add(&fpft, fl.q)
	fl.p = &fpft
}

// Update incorporates observation z (m x 1): y = z - H x, S = H P H^T + R,
// K = P H^T S^-1, x <- x + K y, P <- (I - K H) P.
func (fl *Filter) Update(z *mat.VecDense) error {
	if r, _ := z.Dims(); r != fl.m {
		return matcherr.New(matcherr.KindInvalidInput, "kalman.Update",
			fmt.Sprintf("observation: want %d rows, got %d", fl.m, r))
	}

	var hx mat.VecDense
	hx.MulVec(fl.h, fl.x)
	var y mat.VecDense
	y.SubVec(z, &hx)

	var hp, hpht, s mat.Dense
	hp.Mul(fl.h, fl.p)
	hpht.Mul(&hp, fl.h.T())
	s.Add(&hpht, fl.r)

	var sInv mat.Dense
	if err := sInv.Inverse(&s); err != nil {
		return matcherr.Wrap(matcherr.KindConvergence, "kalman.Update",
			"innovation covariance is singular", err)
	}

	var pht, k mat.Dense
	pht.Mul(fl.p, fl.h.T())
	k.Mul(&pht, &sInv)

	var ky mat.VecDense
	ky.MulVec(&k, &y)
	var xNew mat.VecDense
	xNew.AddVec(fl.x, &ky)
	fl.x = &xNew

	var kh, ident, factor, pNew mat.Dense
	kh.Mul(&k, fl.h)
	identN(&ident, fl.n)
	factor.Sub(&ident, &kh)
	pNew.Mul(&factor, fl.p)
	fl.p = &pNew

	return nil
}

func identN(d *mat.Dense, n int) {
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		data[i*n+i] = 1
	}
	*d = *mat.NewDense(n, n, data)
}
