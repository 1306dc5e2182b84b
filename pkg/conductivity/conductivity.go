// Package conductivity resolves a material reference to a conductivity
// curve, evaluates it and integrates it over a temperature interval.
package conductivity

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"

	"github.com/ja7ad/cryotherm/pkg/material"
	"github.com/ja7ad/cryotherm/pkg/metrics"
)

// IntegralPoints is the size of the uniform grid used by Integral.
const IntegralPoints = 1000

// Source selects the curve of one material. Interpolate uses the stitched
// interpolation of the library fits, with Fit as the preferred fit. A
// non-empty Fit without Interpolate picks that library fit. Otherwise the
// compiled table row is used.
type Source struct {
	Material    string `json:"material"`
	Fit         string `json:"fit,omitempty"`
	Interpolate bool   `json:"interpolate,omitempty"`
}

func (s Source) String() string {
	switch {
	case s.Interpolate && s.Fit != "":
		return s.Material + " (interpolated, prefer " + s.Fit + ")"
	case s.Interpolate:
		return s.Material + " (interpolated)"
	case s.Fit != "":
		return s.Fit
	}
	return s.Material
}

// Evaluator is read-only after construction and safe for concurrent use.
type Evaluator struct {
	table   *material.Table
	library *material.Library
	log     *zap.Logger
	metrics *metrics.Recorder
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLibrary enables named fits and interpolation.
func WithLibrary(l *material.Library) Option { return func(e *Evaluator) { e.library = l } }

// WithLogger sets the logger used for range warnings.
func WithLogger(l *zap.Logger) Option { return func(e *Evaluator) { e.log = l } }

// WithMetrics records evaluations and range warnings.
func WithMetrics(m *metrics.Recorder) Option { return func(e *Evaluator) { e.metrics = m } }

// New creates an Evaluator over the compiled table. table may be nil when
// every material comes from the library.
func New(table *material.Table, opts ...Option) *Evaluator {
	e := &Evaluator{table: table, log: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	return e
}

// Conductivity returns k(t) in W/(m·K). A temperature outside the fit's
// valid range is logged and evaluated anyway.
func (e *Evaluator) Conductivity(t float64, src Source) (float64, error) {
	c, err := e.resolve(src)
	if err != nil {
		return 0, err
	}
	e.checkRange(c, t, t)
	ks, err := c.eval([]float64{t})
	if err != nil {
		return 0, err
	}
	return ks[0], nil
}

// Integral returns ∫k dT over [lo, hi] in W/m using the trapezoidal rule on
// IntegralPoints uniformly spaced temperatures. lo == hi yields 0.
func (e *Evaluator) Integral(lo, hi float64, src Source) (float64, error) {
	if lo > hi {
		return 0, fmt.Errorf("%w: [%v, %v]", ErrInvertedBounds, lo, hi)
	}
	c, err := e.resolve(src)
	if err != nil {
		return 0, err
	}
	if lo == hi {
		return 0, nil
	}
	e.checkRange(c, lo, hi)

	ts := make([]float64, IntegralPoints)
	floats.Span(ts, lo, hi)
	ks, err := c.eval(ts)
	if err != nil {
		return 0, err
	}
	return integrate.Trapezoidal(ts, ks), nil
}

// ValidRange reports the temperature range the resolved curve is valid over.
func (e *Evaluator) ValidRange(src Source) (lo, hi float64, err error) {
	c, err := e.resolve(src)
	if err != nil {
		return 0, 0, err
	}
	lo, hi = c.valid()
	return lo, hi, nil
}

func (e *Evaluator) checkRange(c curve, lo, hi float64) {
	vlo, vhi := c.valid()
	if lo >= vlo && hi <= vhi {
		return
	}
	e.metrics.RangeWarning(c.material)
	e.log.Warn("requested temperature outside fit range, estimation not guaranteed",
		zap.String("material", c.material),
		zap.String("source", c.name),
		zap.Float64("t_low", lo),
		zap.Float64("t_high", hi),
		zap.Float64("valid_low", vlo),
		zap.Float64("valid_high", vhi),
	)
}
