package material

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

const (
	_preferredSamples = 100
	_fitSamples       = 1000
)

// Interpolation is a piecewise-linear conductivity curve stitched from all
// fits of one material.
type Interpolation struct {
	Material string
	ts, ks   []float64
	pl       interp.PiecewiseLinear
}

// At returns the interpolated conductivity at t. Queries outside the
// sampled range fail with ErrOutsideInterpolation.
func (ip *Interpolation) At(t float64) (float64, error) {
	lo, hi := ip.Range()
	if t < lo || t > hi || math.IsNaN(t) {
		return 0, fmt.Errorf("%w: %s at %v K, range [%v, %v]", ErrOutsideInterpolation, ip.Material, t, lo, hi)
	}
	return ip.pl.Predict(t), nil
}

// Range returns the lowest and highest sampled temperature.
func (ip *Interpolation) Range() (lo, hi float64) {
	return ip.ts[0], ip.ts[len(ip.ts)-1]
}

// Samples returns copies of the sampled temperatures and conductivities.
func (ip *Interpolation) Samples() (ts, ks []float64) {
	return slices.Clone(ip.ts), slices.Clone(ip.ks)
}

// Interpolate stitches the material's fits into one curve. The preferred
// fit, when named, is sampled first at 100 log-spaced points and fits lying
// entirely inside its range are skipped. Remaining fits are taken in order
// of their low temperature and only sampled (1000 log-spaced points) where
// no earlier fit already covers the temperature, so the lowest fit wins an
// overlap. The room-temperature point, if known, is added as measured.
func (m *Material) Interpolate(preferred string) (*Interpolation, error) {
	if len(m.Fits) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFits, m.Name)
	}

	var (
		ts, ks  []float64
		covered []span
	)
	sample := func(r Record, lo, hi float64, n int) {
		grid := make([]float64, n)
		floats.LogSpan(grid, lo, hi)
		ts = append(ts, grid...)
		ks = append(ks, r.EvalAll(grid)...)
		covered = cover(covered, span{lo, hi})
	}

	var pref *Record
	if preferred != "" {
		r, ok := m.FitByName(preferred)
		if !ok {
			return nil, fmt.Errorf("%w: %q for %s", ErrUnknownFit, preferred, m.Name)
		}
		pref = &r
		sample(r, r.TLow, r.THigh, _preferredSamples)
	}

	if m.RoomTemp != nil {
		ts = append(ts, m.RoomTemp.Temperature)
		ks = append(ks, m.RoomTemp.Conductivity)
	}

	fits := slices.Clone(m.Fits)
	slices.SortStableFunc(fits, func(a, b Record) int { return cmp.Compare(a.TLow, b.TLow) })
	for _, r := range fits {
		if pref != nil && r.TLow >= pref.TLow && r.THigh <= pref.THigh {
			continue
		}
		for _, g := range gaps(covered, span{r.TLow, r.THigh}) {
			sample(r, g.lo, g.hi, _fitSamples)
		}
	}

	ts, ks = sortUnique(ts, ks)
	if len(ts) < 2 {
		return nil, fmt.Errorf("%w: %s has fewer than two samples", ErrNoFits, m.Name)
	}
	ip := &Interpolation{Material: m.Name, ts: ts, ks: ks}
	if err := ip.pl.Fit(ts, ks); err != nil {
		return nil, fmt.Errorf("interpolate %s: %w", m.Name, err)
	}
	return ip, nil
}

type span struct{ lo, hi float64 }

// cover merges s into the sorted, disjoint set.
func cover(set []span, s span) []span {
	out := make([]span, 0, len(set)+1)
	for _, c := range set {
		switch {
		case c.hi < s.lo:
			out = append(out, c)
		case c.lo > s.hi:
			out = append(out, s)
			s = c
		default:
			s = span{min(s.lo, c.lo), max(s.hi, c.hi)}
		}
	}
	return append(out, s)
}

// gaps returns the parts of s not in the sorted, disjoint set.
func gaps(set []span, s span) []span {
	var out []span
	lo := s.lo
	for _, c := range set {
		if c.hi <= lo || c.lo >= s.hi {
			continue
		}
		if c.lo > lo {
			out = append(out, span{lo, c.lo})
		}
		lo = max(lo, c.hi)
	}
	if lo < s.hi {
		out = append(out, span{lo, s.hi})
	}
	return out
}

// sortUnique orders samples by temperature, keeping the first sample of any
// repeated temperature and dropping non-finite values.
func sortUnique(ts, ks []float64) ([]float64, []float64) {
	idx := make([]int, 0, len(ts))
	for i := range ts {
		if !math.IsNaN(ks[i]) && !math.IsInf(ks[i], 0) && ts[i] > 0 {
			idx = append(idx, i)
		}
	}
	slices.SortStableFunc(idx, func(a, b int) int { return cmp.Compare(ts[a], ts[b]) })

	outT := make([]float64, 0, len(idx))
	outK := make([]float64, 0, len(idx))
	for _, i := range idx {
		if n := len(outT); n > 0 && outT[n-1] == ts[i] {
			continue
		}
		outT = append(outT, ts[i])
		outK = append(outK, ks[i])
	}
	return outT, outK
}
