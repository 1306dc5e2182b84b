package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// PolyFit returns the ascending coefficients of the weighted least-squares
// polynomial of the given order through (xs, ys). A nil weights slice
// weighs every sample equally.
func PolyFit(xs, ys, weights []float64, order int) ([]float64, error) {
	n := len(xs)
	if len(ys) != n || (weights != nil && len(weights) != n) {
		return nil, fmt.Errorf("%w: mismatched sample lengths", ErrShortData)
	}
	if order < 0 || n < order+1 {
		return nil, fmt.Errorf("%w: order %d needs %d samples, got %d", ErrShortData, order, order+1, n)
	}

	a := mat.NewDense(n, order+1, nil)
	b := mat.NewVecDense(n, nil)
	for i, x := range xs {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		v := w
		for j := 0; j <= order; j++ {
			a.Set(i, j, v)
			v *= x
		}
		b.SetVec(i, w*ys[i])
	}

	var coef mat.VecDense
	if err := coef.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("fit: least squares: %w", err)
	}
	return append([]float64(nil), coef.RawVector().Data...), nil
}

// DualFit builds compound fit parameters from measured (T, k) samples.
// Samples below erfLoc are fitted as k/T against T (the Nppoly branch),
// samples at or above it as log10 k against log10 T (the polylog branch).
// A regime without enough samples is left empty and the crossover is
// collapsed onto the other branch.
func DualFit(ts, ks []float64, erfLoc float64, lowOrder, highOrder int) (Params, error) {
	if len(ts) != len(ks) {
		return Params{}, fmt.Errorf("%w: mismatched sample lengths", ErrShortData)
	}
	var lowT, lowK, hiT, hiK []float64
	for i, t := range ts {
		if t <= 0 || ks[i] <= 0 {
			continue
		}
		if t < erfLoc {
			lowT = append(lowT, t)
			lowK = append(lowK, ks[i]/t)
		} else {
			hiT = append(hiT, math.Log10(t))
			hiK = append(hiK, math.Log10(ks[i]))
		}
	}

	p := Params{ErfLoc: erfLoc}
	var err error
	if len(lowT) > lowOrder {
		if p.Low, err = PolyFit(lowT, lowK, nil, lowOrder); err != nil {
			return Params{}, err
		}
	}
	if len(hiT) > highOrder {
		if p.High, err = PolyFit(hiT, hiK, nil, highOrder); err != nil {
			return Params{}, err
		}
	}
	switch {
	case p.Low == nil && p.High == nil:
		return Params{}, fmt.Errorf("%w: no regime has more than its order of samples", ErrShortData)
	case p.Low == nil:
		p.ErfLoc = 0
	case p.High == nil:
		p.ErfLoc = -1
	}
	return p, nil
}
