package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _blended = Params{
	Low:    []float64{0.8, 0.02, -1e-4},
	High:   []float64{-0.5, 1.4, -0.2},
	ErfLoc: 25,
}

func TestCompound_MidpointIsMean(t *testing.T) {
	k, err := Eval(CompPoly, _blended.ErfLoc, _blended)
	require.NoError(t, err)

	lo := LowBranch(_blended.ErfLoc, _blended)
	hi := HighBranch(_blended.ErfLoc, _blended)
	assert.InDelta(t, (lo+hi)/2, k, 1e-12)

	// both sides approach the mean as T -> erf_loc
	for _, eps := range []float64{1e-3, 1e-5, 1e-7} {
		below, _ := Eval(CompPoly, _blended.ErfLoc-eps, _blended)
		above, _ := Eval(CompPoly, _blended.ErfLoc+eps, _blended)
		assert.InDelta(t, k, below, 1e-2*eps*1e3)
		assert.InDelta(t, k, above, 1e-2*eps*1e3)
	}
}

func TestCompound_Degenerate(t *testing.T) {
	ts := []float64{1, 4, 20, 77, 300}

	hiOnly := _blended.Clone()
	hiOnly.ErfLoc = 0
	loOnly := _blended.Clone()
	loOnly.ErfLoc = -1

	for _, T := range ts {
		k, err := Eval(CompPoly, T, hiOnly)
		require.NoError(t, err)
		assert.Equal(t, HighBranch(T, hiOnly), k)

		k, err = Eval(CompPoly, T, loOnly)
		require.NoError(t, err)
		assert.Equal(t, LowBranch(T, loOnly), k)
	}
}

func TestBlend(t *testing.T) {
	lo, hi := Blend(10, 10, 0)
	assert.InDelta(t, 0.5, lo, 1e-15)
	assert.InDelta(t, 0.5, hi, 1e-15)

	// far from the crossover the switch saturates
	lo, hi = Blend(1, 100, 0)
	assert.InDelta(t, 1, lo, 1e-12)
	assert.InDelta(t, 0, hi, 1e-12)

	// a softer switch leaves more of the other branch
	soft, _ := Blend(8, 10, 1)
	sharp, _ := Blend(8, 10, DefaultSteepness)
	assert.Less(t, soft, sharp)

	lo, hi = Blend(42, 0, 0)
	assert.Equal(t, [2]float64{0, 1}, [2]float64{lo, hi})
	lo, hi = Blend(42, -1, 0)
	assert.Equal(t, [2]float64{1, 0}, [2]float64{lo, hi})
	assert.False(t, math.IsNaN(lo+hi))
}
