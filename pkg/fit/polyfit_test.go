package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestPolyFit_RecoversPolynomial(t *testing.T) {
	want := []float64{1.5, -0.25, 0.03}
	xs := make([]float64, 25)
	floats.Span(xs, 1, 20)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = polyval(want, x)
	}

	got, err := PolyFit(xs, ys, nil, 2)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-8)
	}
}

func TestPolyFit_ShortData(t *testing.T) {
	_, err := PolyFit([]float64{1, 2}, []float64{1, 2}, nil, 3)
	assert.ErrorIs(t, err, ErrShortData)

	_, err = PolyFit([]float64{1, 2}, []float64{1}, nil, 0)
	assert.ErrorIs(t, err, ErrShortData)
}

func TestDualFit(t *testing.T) {
	low := []float64{0.4, 0.01}  // k/T below 20 K
	high := []float64{-0.3, 1.1} // log10 k above 20 K

	ts := make([]float64, 60)
	floats.LogSpan(ts, 2, 300)
	ks := make([]float64, len(ts))
	for i, T := range ts {
		if T < 20 {
			ks[i] = T * polyval(low, T)
		} else {
			ks[i] = math.Pow(10, polyval(high, math.Log10(T)))
		}
	}

	p, err := DualFit(ts, ks, 20, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 20.0, p.ErfLoc)
	for i := range low {
		assert.InDelta(t, low[i], p.Low[i], 1e-8)
		assert.InDelta(t, high[i], p.High[i], 1e-8)
	}

	// only high data: the blend collapses to the high branch
	p, err = DualFit(ts[40:], ks[40:], 20, 1, 1)
	require.NoError(t, err)
	assert.Empty(t, p.Low)
	assert.Equal(t, 0.0, p.ErfLoc)
}
