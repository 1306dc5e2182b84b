package material

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ja7ad/cryotherm/pkg/fit"
)

const _libraryYAML = `
materials:
  - name: Cu
    room_temperature:
      temperature: 295
      conductivity: 590
    fits:
      - source: low
        fit_type: powerlaw
        range: [1, 50]
        low: [1, 1]
        reference: synthetic
      - source: high
        fit_type: power_law
        range: [20, 300]
        low: [2, 1]
  - name: Ti
    fits:
      - source: nist
        fit_type: 3 order polylog
        range: [4, 300]
        low: [0.5, 0.1, 0, 0]
`

func loadLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := ParseLibrary(strings.NewReader(_libraryYAML))
	require.NoError(t, err)
	return lib
}

func TestParseLibrary(t *testing.T) {
	lib := loadLibrary(t)
	assert.Equal(t, []string{"Cu", "Ti"}, lib.Materials())

	cu, err := lib.Material("Cu")
	require.NoError(t, err)
	require.Len(t, cu.Fits, 2)
	require.NotNil(t, cu.RoomTemp)
	assert.Equal(t, 590.0, cu.RoomTemp.Conductivity)

	rec, ok := cu.FitByName("Cu_high")
	require.True(t, ok)
	assert.Equal(t, fit.PowerLaw, rec.Type)
	assert.Equal(t, 40.0, rec.Eval(20))

	rec, ok = lib.FitByName("Ti", "Ti_nist")
	require.True(t, ok)
	assert.Equal(t, fit.PolyLog, rec.Type)
	assert.Equal(t, []float64{0.5, 0.1}, rec.Params.Low)

	_, ok = cu.FitByName("Cu_nope")
	assert.False(t, ok)
	_, ok = lib.FitByName("Zn", "Zn_x")
	assert.False(t, ok)

	_, err = lib.Material("Zn")
	assert.ErrorIs(t, err, ErrUnknownMaterial)
}

func TestParseLibrary_Invalid(t *testing.T) {
	cases := map[string]struct {
		yaml string
		want error
	}{
		"unknown key": {
			yaml: "materials:\n  - name: X\n    colour: red\n",
			want: ErrMalformedTable,
		},
		"unknown fit type": {
			yaml: "materials:\n  - name: X\n    fits:\n      - {source: a, fit_type: spline, range: [1, 2], low: [1]}\n",
			want: ErrMalformedRecord,
		},
		"short range": {
			yaml: "materials:\n  - name: X\n    fits:\n      - {source: a, fit_type: Nppoly, range: [1], low: [1]}\n",
			want: ErrMalformedRecord,
		},
		"duplicate fit": {
			yaml: "materials:\n  - name: X\n    fits:\n      - {source: a, fit_type: Nppoly, range: [1, 2], low: [1]}\n      - {source: a, fit_type: Nppoly, range: [1, 2], low: [1]}\n",
			want: ErrMalformedRecord,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLibrary(strings.NewReader(tc.yaml))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestInterpolate_LowestFitWins(t *testing.T) {
	cu, err := loadLibrary(t).Material("Cu")
	require.NoError(t, err)

	ip, err := cu.Interpolate("")
	require.NoError(t, err)

	lo, hi := ip.Range()
	assert.InDelta(t, 1.0, lo, 1e-9)
	assert.InDelta(t, 300.0, hi, 1e-9)

	// the low fit (k = T) owns its whole range, the high fit (k = 2T) the rest
	for _, tc := range []struct{ t, k float64 }{{2, 2}, {10, 10}, {45, 45}, {100, 200}, {250, 500}} {
		k, err := ip.At(tc.t)
		require.NoError(t, err)
		assert.InDelta(t, tc.k, k, 1e-9, "T=%v", tc.t)
	}

	ts, _ := ip.Samples()
	for i := 1; i < len(ts); i++ {
		require.Less(t, ts[i-1], ts[i])
	}
	assert.Contains(t, ts, 295.0)
}

func TestInterpolate_PreferredFit(t *testing.T) {
	cu, err := loadLibrary(t).Material("Cu")
	require.NoError(t, err)

	ip, err := cu.Interpolate("Cu_high")
	require.NoError(t, err)

	// the preferred fit takes over the overlap, the other fills below it
	k, err := ip.At(30)
	require.NoError(t, err)
	assert.InDelta(t, 60, k, 1e-9)

	k, err = ip.At(10)
	require.NoError(t, err)
	assert.InDelta(t, 10, k, 1e-9)

	_, err = cu.Interpolate("Cu_missing")
	assert.ErrorIs(t, err, ErrUnknownFit)
}

func TestInterpolate_OutOfRange(t *testing.T) {
	lib := loadLibrary(t)
	ip, err := lib.Interpolation("Ti", "")
	require.NoError(t, err)

	for _, T := range []float64{1, 301} {
		_, err := ip.At(T)
		assert.ErrorIs(t, err, ErrOutsideInterpolation)
	}

	again, err := lib.Interpolation("Ti", "")
	require.NoError(t, err)
	assert.Same(t, ip, again)

	_, err = lib.Interpolation("Zn", "")
	assert.ErrorIs(t, err, ErrUnknownMaterial)
}

func TestInterpolation_Concurrent(t *testing.T) {
	lib := loadLibrary(t)

	tests := []struct {
		name      string
		material  string
		preferred string
	}{
		{"single fit", "Ti", ""},
		{"blended", "Cu", ""},
		{"preferred", "Cu", "Cu_high"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const n = 16
			got := make([]*Interpolation, n)
			var g errgroup.Group
			for i := range n {
				g.Go(func() error {
					ip, err := lib.Interpolation(tt.material, tt.preferred)
					got[i] = ip
					return err
				})
			}
			require.NoError(t, g.Wait())
			for _, ip := range got[1:] {
				assert.Same(t, got[0], ip)
			}
		})
	}
}

func TestInterpolate_NoFits(t *testing.T) {
	m := &Material{Name: "Void"}
	_, err := m.Interpolate("")
	assert.ErrorIs(t, err, ErrNoFits)
}

func TestSpans(t *testing.T) {
	set := cover(nil, span{10, 20})
	set = cover(set, span{40, 50})
	set = cover(set, span{15, 30})
	assert.Equal(t, []span{{10, 30}, {40, 50}}, set)

	assert.Equal(t, []span{{1, 10}, {30, 40}, {50, 60}}, gaps(set, span{1, 60}))
	assert.Empty(t, gaps(set, span{12, 25}))
}
