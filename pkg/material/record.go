// Package material holds conductivity fit records per material: the compiled
// single-fit table, the multi-fit library and the interpolation stitched
// across a material's fits.
package material

import (
	"fmt"
	"math"

	"github.com/ja7ad/cryotherm/pkg/fit"
)

// Record is one fitted conductivity curve valid over [TLow, THigh] Kelvin.
type Record struct {
	Material  string
	Source    string
	Type      fit.Type
	TLow      float64
	THigh     float64
	Params    fit.Params
	PercErr   float64
	Reference string
}

// Name identifies the record inside its material as material_source.
func (r Record) Name() string {
	if r.Source == "" {
		return r.Material
	}
	return r.Material + "_" + r.Source
}

// Eval returns k(t). Records built by this package are validated, so an
// unknown fit type only shows up on hand-made records and yields NaN.
func (r Record) Eval(t float64) float64 {
	k, err := fit.Eval(r.Type, t, r.Params)
	if err != nil {
		return math.NaN()
	}
	return k
}

// EvalAll evaluates the record at every temperature in ts.
func (r Record) EvalAll(ts []float64) []float64 {
	ks, err := fit.EvalAll(r.Type, ts, r.Params)
	if err != nil {
		ks = make([]float64, len(ts))
		for i := range ks {
			ks[i] = math.NaN()
		}
	}
	return ks
}

// Covers reports whether [lo, hi] lies inside the validity range.
func (r Record) Covers(lo, hi float64) bool {
	return lo >= r.TLow && hi <= r.THigh
}

// normalize validates r and returns it with parameters stripped and padded.
func (r Record) normalize() (Record, error) {
	if r.Material == "" {
		return Record{}, fmt.Errorf("%w: missing material name", ErrMalformedRecord)
	}
	if !(r.TLow < r.THigh) {
		return Record{}, fmt.Errorf("%w: %s: valid range [%v, %v] is empty", ErrMalformedRecord, r.Name(), r.TLow, r.THigh)
	}
	p, err := fit.Normalize(r.Type, r.Params)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %s: %w", ErrMalformedRecord, r.Name(), err)
	}
	r.Params = p
	return r, nil
}

// NewRecord validates and normalizes a record built in code.
func NewRecord(r Record) (Record, error) { return r.normalize() }
