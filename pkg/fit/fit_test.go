package fit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval_Deterministic(t *testing.T) {
	cases := []struct {
		typ Type
		p   Params
	}{
		{Nppoly, Params{Low: []float64{0.5, 0.01, -1e-5}}},
		{PolyLog, Params{High: []float64{-1.2, 2.1, -0.4}}},
		{CompPoly, Params{Low: []float64{0.5, 0.01}, High: []float64{0.2, 0.9}, ErfLoc: 20}},
		{PowerLaw, Params{Low: []float64{0.02, 1.8}}},
		{NISTCopper, Params{Low: []float64{2.2, -0.47, -0.88, 0.13, 0.29, -0.04, -0.05, 0.004, 0}}},
	}
	for _, tc := range cases {
		t.Run(string(tc.typ), func(t *testing.T) {
			p, err := Normalize(tc.typ, tc.p)
			require.NoError(t, err)
			first, err := Eval(tc.typ, 37.5, p)
			require.NoError(t, err)
			for i := 0; i < 5; i++ {
				again, err := Eval(tc.typ, 37.5, p)
				require.NoError(t, err)
				assert.Equal(t, first, again)
			}
			assert.False(t, math.IsNaN(first))
		})
	}
}

func TestEval_ClosedForms(t *testing.T) {
	// k/T = 2 + 3T  =>  k(4) = 4*(2+12) = 56
	k, err := Eval(Nppoly, 4, Params{Low: []float64{2, 3}})
	require.NoError(t, err)
	assert.InDelta(t, 56.0, k, 1e-12)

	// log10 k = 1 + 2 log10 T  =>  k(10) = 1000
	k, err = Eval(PolyLog, 10, Params{Low: []float64{1, 2}})
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, k, 1e-9)

	// the high group wins for polylog when present
	k, err = Eval(PolyLog, 10, Params{Low: []float64{5}, High: []float64{0, 1}})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, k, 1e-9)

	k, err = Eval(PowerLaw, 3, Params{Low: []float64{2, 2}})
	require.NoError(t, err)
	assert.InDelta(t, 18.0, k, 1e-12)

	// a zero copperfit reduces to 10^0
	p, err := Normalize(NISTCopper, Params{Low: []float64{0, 0}})
	require.Error(t, err)
	p, err = Normalize(NISTCopper, Params{Low: []float64{1}})
	require.NoError(t, err)
	require.Len(t, p.Low, 9)
	k, err = Eval(NISTCopper, 50, p)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, k, 1e-9)

	k, err = Eval(RadebaughKoT, 10, Params{Low: []float64{1}})
	require.NoError(t, err)
	assert.InDelta(t, 10*(1+1e-5), k, 1e-12)

	// 10^(poly(0,1; x) + p0 e^-x) at T=1 => 10^(0 + 2) = 100
	k, err = Eval(RadebaughLogExp, 1, Params{Low: []float64{2, 0, 1}})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, k, 1e-9)
}

func TestEval_NISTExpErf(t *testing.T) {
	p, err := Normalize(NISTExpErf, Params{Low: []float64{1, 0, 1, 1, 0, 1}})
	require.NoError(t, err)
	// both halves equal 1 so the erf weights sum to one: 10^1
	for _, T := range []float64{2, 10, 300} {
		k, err := Eval(NISTExpErf, T, p)
		require.NoError(t, err)
		assert.InDelta(t, 10.0, k, 1e-9)
	}
}

func TestEval_TchebyLnT(t *testing.T) {
	lo, hi := math.Log(4), math.Log(300)
	p, err := Normalize(TchebyLnT, Params{Low: []float64{3, lo, hi, 1, 0.5, 0.25}})
	require.NoError(t, err)

	// at the middle of the ln range x = 0: T0=1, T1=0, T2=-1
	mid := math.Exp((lo + hi) / 2)
	k, err := Eval(TchebyLnT, mid, p)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(1-0.25), k, 1e-9)

	// at the upper end x = 1: every T_i = 1
	k, err = Eval(TchebyLnT, 300, p)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(1.75), k, 1e-9)

	// outside the range the recurrence keeps the value finite
	k, err = Eval(TchebyLnT, 1000, p)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(k))
}

func TestEval_LowTExtrapolate(t *testing.T) {
	c := make([]float64, 16)
	c[0] = 2    // 10^2 above p9
	c[9] = 10   // polynomial above 10 K
	c[10] = 4   // middle power law between 4 and 10 K
	c[11] = 1.8 // power
	c[12] = 0.5 // coefficient
	p, err := Normalize(LowTExtrapolate, Params{Low: c})
	require.NoError(t, err)

	k, err := Eval(LowTExtrapolate, 20, p)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, k, 1e-9)

	k, err = Eval(LowTExtrapolate, 6, p)
	require.NoError(t, err)
	assert.InDelta(t, 0.5*math.Pow(6, 1.8), k, 1e-9)

	// no low segment coefficient: middle law continues
	k, err = Eval(LowTExtrapolate, 2, p)
	require.NoError(t, err)
	assert.InDelta(t, 0.5*math.Pow(2, 1.8), k, 1e-9)

	c[14], c[15] = 2, 0.1
	k, err = Eval(LowTExtrapolate, 2, Params{Low: c})
	require.NoError(t, err)
	assert.InDelta(t, 0.4, k, 1e-9)
}

func TestEval_OFHCRRR(t *testing.T) {
	// only the residual term: w0 = c0/((RRR-1)T), so k = (RRR-1)T/c0
	c := make([]float64, 22)
	c[0] = 101 // RRR
	c[1] = 2   // c0
	k, err := Eval(OFHCRRR, 4, Params{Low: c})
	require.NoError(t, err)
	assert.InDelta(t, 100*4/2.0, k, 1e-9)
}

func TestEval_NBS(t *testing.T) {
	// only the residual term: rho0 = beta/T with beta = c1/L0/c0
	c := make([]float64, 24)
	c[0] = 50
	c[1] = 1.5e-8
	k, err := Eval(NBS, 10, Params{Low: c})
	require.NoError(t, err)
	beta := 1.5e-8 / 2.443e-8 / 50
	assert.InDelta(t, 10/beta, k, 1e-9)
}

func TestEval_OFHCRRR_AllTerms(t *testing.T) {
	// RRR 100 at 20 K with the residual, ideal, Gaussian and cross terms all non-zero
	p := Params{Low: []float64{
		100,
		0.5, 2e-6, 2.5, 0.8, -1.2, 40, 2.0, 0.3, 0.7,
		0.02, 5, 12, 0.6,
		-0.01, 8, 30, 0.9,
		0.005, 3, 60, 1.1,
	}}
	k, err := Eval(OFHCRRR, 20, p)
	require.NoError(t, err)
	assert.InEpsilon(t, 66.08080804870386, k, 1e-12)
}

func TestEval_NBS_AllTerms(t *testing.T) {
	// 30 K with three log-Gaussian terms and the plain Gaussian all contributing
	p := Params{Low: []float64{
		60, 1.5e-8,
		3e-11, 2.8, 0.4, -1.1, 50, 1.8, 0.25,
		2e-6, 4, 15, 0.7,
		-1e-6, 9, 35, 0.8,
		5e-7, 2, 70, 1.2,
		3e-6, 25, 0.5,
	}}
	k, err := Eval(NBS, 30, p)
	require.NoError(t, err)
	assert.InEpsilon(t, 2887.1588530809345, k, 1e-12)

	// dropping the plain Gaussian moves the result well past the tolerance
	p.Low[21] = 0
	k0, err := Eval(NBS, 30, p)
	require.NoError(t, err)
	assert.Greater(t, math.Abs(k0-2887.1588530809345)/2887.1588530809345, 1e-3)
}

func TestEval_UnknownType(t *testing.T) {
	_, err := Eval(Type("nope"), 10, Params{})
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = EvalAll(Type("nope"), []float64{1}, Params{})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestEvalAll(t *testing.T) {
	p := Params{Low: []float64{0, 1}}
	ks, err := EvalAll(Nppoly, []float64{1, 2, 3}, p)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 4, 9}, ks)
}

func TestParseType(t *testing.T) {
	cases := map[string]Type{
		"Nppoly":             Nppoly,
		"polylog":            PolyLog,
		"3 order polylog":    PolyLog,
		"loglog":             CompPoly,
		"comppoly":           CompPoly,
		"power_law":          PowerLaw,
		" powerlaw ":         PowerLaw,
		"NIST-experf":        NISTExpErf,
		"NIST-copperfit":     NISTCopper,
		"TchebyLnT":          TchebyLnT,
		"lowTextrapolate":    LowTExtrapolate,
		"OFHC_RRR_Wc":        OFHCRRR,
		"NBS":                NBS,
		"RRadebaugh_koT":     RadebaughKoT,
		"RRadebaugh_logkexp": RadebaughLogExp,
	}
	for tag, want := range cases {
		got, err := ParseType(tag)
		require.NoError(t, err, tag)
		assert.Equal(t, want, got, tag)
	}

	_, err := ParseType("spline")
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.Len(t, Types(), len(_registry))
}

func TestNormalize(t *testing.T) {
	t.Run("strips padding", func(t *testing.T) {
		p, err := Normalize(Nppoly, Params{Low: []float64{1, 2, 0, 0}})
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2}, p.Low)
	})
	t.Run("pads closed forms", func(t *testing.T) {
		p, err := Normalize(PowerLaw, Params{Low: []float64{3, 0}})
		require.NoError(t, err)
		assert.Equal(t, []float64{3, 0}, p.Low)
	})
	t.Run("too many parameters", func(t *testing.T) {
		_, err := Normalize(PowerLaw, Params{Low: []float64{1, 2, 3}})
		assert.ErrorIs(t, err, ErrArity)
	})
	t.Run("empty compound", func(t *testing.T) {
		_, err := Normalize(CompPoly, Params{Low: []float64{0}, ErfLoc: 10})
		assert.ErrorIs(t, err, ErrNoParams)
	})
	t.Run("compound with one group", func(t *testing.T) {
		p, err := Normalize(CompPoly, Params{High: []float64{1, 1}, ErfLoc: 0})
		require.NoError(t, err)
		assert.Empty(t, p.Low)
	})
	t.Run("compound branch selected by crossover", func(t *testing.T) {
		cases := []struct {
			name string
			p    Params
			want error
		}{
			{"high only needs high group", Params{Low: []float64{2}, ErfLoc: 0}, ErrNoParams},
			{"low only needs low group", Params{High: []float64{0.5}, ErfLoc: -1}, ErrNoParams},
			{"blend needs high group", Params{Low: []float64{2}, ErfLoc: 20}, ErrNoParams},
			{"blend needs low group", Params{High: []float64{0.5}, ErfLoc: 20}, ErrNoParams},
			{"negative crossover", Params{Low: []float64{2}, High: []float64{0.5}, ErfLoc: -5}, ErrCrossover},
			{"low only", Params{Low: []float64{2}, ErfLoc: -1}, nil},
			{"high only", Params{High: []float64{0.5}, ErfLoc: 0}, nil},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := Normalize(CompPoly, tc.p)
				if tc.want == nil {
					assert.NoError(t, err)
					return
				}
				assert.ErrorIs(t, err, tc.want)
			})
		}
	})
	t.Run("compound evaluates the selected group", func(t *testing.T) {
		p, err := Normalize(CompPoly, Params{Low: []float64{2}, ErfLoc: -1})
		require.NoError(t, err)
		k, err := Eval(CompPoly, 10, p)
		require.NoError(t, err)
		assert.InDelta(t, 20, k, 1e-12)

		// a high group alone is never read through the low slot
		p, err = Normalize(CompPoly, Params{High: []float64{0.5}, ErfLoc: 0})
		require.NoError(t, err)
		k, err = Eval(CompPoly, 10, p)
		require.NoError(t, err)
		assert.InDelta(t, math.Pow(10, 0.5), k, 1e-12)
	})
	t.Run("nppoly needs low", func(t *testing.T) {
		_, err := Normalize(Nppoly, Params{High: []float64{1}})
		assert.ErrorIs(t, err, ErrNoParams)
	})
	t.Run("closed form from high group", func(t *testing.T) {
		p, err := Normalize(PowerLaw, Params{High: []float64{2, 1}})
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 1}, p.Low)
		assert.Empty(t, p.High)
	})
	t.Run("tcheby term count", func(t *testing.T) {
		p, err := Normalize(TchebyLnT, Params{Low: []float64{4, 1, 5, 0.3}})
		require.NoError(t, err)
		assert.Len(t, p.Low, 7)

		_, err = Normalize(TchebyLnT, Params{Low: []float64{1, 1, 5, 0.3, 0.2}})
		assert.ErrorIs(t, err, ErrArity)

		_, err = Normalize(TchebyLnT, Params{Low: []float64{1.5, 1, 5}})
		assert.ErrorIs(t, err, ErrArity)
	})
	t.Run("does not alias input", func(t *testing.T) {
		in := []float64{1, 0}
		p, err := Normalize(PowerLaw, Params{Low: in})
		require.NoError(t, err)
		p.Low[0] = 9
		assert.Equal(t, 1.0, in[0])
	})
}
