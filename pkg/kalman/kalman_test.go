package kalman

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func trace(d *mat.Dense) float64 {
	r, _ := d.Dims()
	var sum float64
	for i := 0; i < r; i++ {
		sum += d.At(i, i)
	}
	return sum
}

// TestVarianceMonotonicity is invariant 9: predicting without observing
// grows trace(P); updating with an observation shrinks it.
func TestVarianceMonotonicity(t *testing.T) {
	fl, err := NewPositionVelocity(0, 0, 0, 0, 1.0, 0.01)
	if err != nil {
		t.Fatalf("NewPositionVelocity: %v", err)
	}

	before := trace(fl.Covariance())
	fl.Predict()
	afterPredict := trace(fl.Covariance())
	if afterPredict <= before {
		t.Fatalf("predict did not grow trace(P): before=%v after=%v", before, afterPredict)
	}

	z := mat.NewVecDense(2, []float64{1, 0})
	if err := fl.Update(z); err != nil {
		t.Fatalf("Update: %v", err)
	}
	afterUpdate := trace(fl.Covariance())
	if afterUpdate >= afterPredict {
		t.Fatalf("update did not shrink trace(P): predict=%v update=%v", afterPredict, afterUpdate)
	}
}

// TestLinearMotionSmoothing is scenario S7.
func TestLinearMotionSmoothing(t *testing.T) {
	fl, err := NewPositionVelocity(0, 0, 0, 0, 1.0, 0.01)
	if err != nil {
		t.Fatalf("NewPositionVelocity: %v", err)
	}

	obs := [][2]float64{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	for _, o := range obs {
		if err := fl.SetTransitionDt(1.0); err != nil {
			t.Fatalf("SetTransitionDt: %v", err)
		}
		fl.Predict()
		z := mat.NewVecDense(2, []float64{o[0], o[1]})
		if err := fl.Update(z); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	vx := fl.State().AtVec(2)
	if math.Abs(vx-1.0) > 0.1 {
		t.Fatalf("x-velocity = %v, want within 0.1 of 1.0", vx)
	}
}

func TestDimensionMismatchIsRejected(t *testing.T) {
	x := mat.NewVecDense(2, []float64{0, 0})
	p := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	badF := mat.NewDense(3, 3, make([]float64, 9))
	h := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	q := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	r := mat.NewDense(2, 2, []float64{1, 0, 0, 1})

	if _, err := New(x, p, badF, h, q, r); err == nil {
		t.Fatal("expected dimension mismatch error, got nil")
	}
}
