// Package optimize searches the two vapor-cooled shield temperatures for the
// point where vapor cooling best matches the conducted load.
package optimize

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ja7ad/cryotherm/pkg/cryo"
	"github.com/ja7ad/cryotherm/pkg/metrics"
	"github.com/ja7ad/cryotherm/pkg/thermal"
	"github.com/ja7ad/cryotherm/pkg/types"
)

// Point is one evaluated grid cell. Row indexes VCS 1, Col indexes VCS 2.
type Point struct {
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	VCS2     float64 `json:"vcs2"`
	VCS1     float64 `json:"vcs1"`
	Mismatch float64 `json:"mismatch"`
}

// Result of a search. VCS2, VCS1 and Mismatch are Points×Points meshgrids:
// VCS2 varies along columns, VCS1 along rows.
type Result struct {
	RunID uuid.UUID

	// Model is aggregated at the best point.
	Model       *thermal.Model
	StagePowers map[string]types.Watts

	Initial cryo.Balance
	Balance cryo.Balance
	Best    Point

	VCS2     *mat.Dense
	VCS1     *mat.Dense
	Mismatch *mat.Dense
}

// Points flattens the grid in row-major order.
func (r *Result) Points() []Point {
	rows, cols := r.Mismatch.Dims()
	out := make([]Point, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out = append(out, Point{
				Row:      i,
				Col:      j,
				VCS2:     r.VCS2.At(i, j),
				VCS1:     r.VCS1.At(i, j),
				Mismatch: r.Mismatch.At(i, j),
			})
		}
	}
	return out
}

// Optimizer runs grid searches. It is safe for concurrent use when its
// Integrator is.
type Optimizer struct {
	ig      thermal.Integrator
	est     *cryo.Estimator
	opts    Options
	log     *zap.Logger
	metrics *metrics.Recorder
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the progress logger.
func WithLogger(l *zap.Logger) Option { return func(o *Optimizer) { o.log = l } }

// WithMetrics records grid timings and the optimum.
func WithMetrics(m *metrics.Recorder) Option { return func(o *Optimizer) { o.metrics = m } }

// New creates an Optimizer. A nil est uses cryo defaults.
func New(ig thermal.Integrator, est *cryo.Estimator, opts Options, fns ...Option) *Optimizer {
	if est == nil {
		est = cryo.New(nil)
	}
	o := &Optimizer{ig: ig, est: est, opts: opts, log: zap.NewNop()}
	for _, fn := range fns {
		fn(o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return o
}

// Apply sets the shield temperatures on m, keeping the chain continuous:
// VCS 2 low and VCS 1 high take vcs2, VCS 1 low and 4K - LHe high take vcs1.
func Apply(m *thermal.Model, vcs2, vcs1 float64) error {
	var stages [3]*thermal.Stage
	for i, name := range []string{cryo.StageVCS2, cryo.StageVCS1, cryo.StageLHe} {
		s, ok := m.Stage(name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrMissingStage, name)
		}
		stages[i] = s
	}
	s2, s1, lhe := stages[0], stages[1], stages[2]
	s2.LowT = vcs2
	s1.HighT = vcs2
	s1.LowT = vcs1
	lhe.HighT = vcs1
	return nil
}

// Run evaluates every grid point on a copy of m and returns the point of
// least mismatch. Ties go to the first point in row-major order. m is not
// modified. The first failing point aborts the search.
func (o *Optimizer) Run(ctx context.Context, m *thermal.Model) (*Result, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil model", ErrMissingStage)
	}
	if err := o.opts.Validate(); err != nil {
		return nil, err
	}
	if err := Apply(m.Clone(), 1, 1); err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.New()}
	log := o.log.With(zap.String("run_id", res.RunID.String()))

	initial, err := o.evaluate(m)
	if err != nil {
		return nil, fmt.Errorf("initial temperatures: %w", err)
	}
	res.Initial = initial

	n := o.opts.Points
	vcs2 := floats.Span(make([]float64, n), o.opts.VCS2Min, o.opts.VCS2Max)
	vcs1 := floats.Span(make([]float64, n), o.opts.VCS1Min, o.opts.VCS1Max)
	res.VCS2 = mat.NewDense(n, n, nil)
	res.VCS1 = mat.NewDense(n, n, nil)
	res.Mismatch = mat.NewDense(n, n, nil)

	log.Info("grid search started",
		zap.Int("points", n*n),
		zap.Float64s("vcs2_range", []float64{o.opts.VCS2Min, o.opts.VCS2Max}),
		zap.Float64s("vcs1_range", []float64{o.opts.VCS1Min, o.opts.VCS1Max}),
		zap.Float64("initial_mismatch", initial.Mismatch),
	)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.workers())
	for i := 0; i < n; i++ {
		g.Go(func() error {
			for j := 0; j < n; j++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				res.VCS2.Set(i, j, vcs2[j])
				res.VCS1.Set(i, j, vcs1[i])

				t0 := time.Now()
				b, err := o.evaluateAt(m, vcs2[j], vcs1[i])
				if err != nil {
					return fmt.Errorf("grid point VCS2=%g K VCS1=%g K: %w", vcs2[j], vcs1[i], err)
				}
				o.metrics.GridPoint(time.Since(t0))
				res.Mismatch.Set(i, j, b.Mismatch)
				log.Debug("grid point",
					zap.Float64("vcs2", vcs2[j]),
					zap.Float64("vcs1", vcs1[i]),
					zap.Float64("mismatch", b.Mismatch),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Best = argmin(res.Mismatch)
	res.Best.VCS2 = vcs2[res.Best.Col]
	res.Best.VCS1 = vcs1[res.Best.Row]

	final := m.Clone()
	if err := Apply(final, res.Best.VCS2, res.Best.VCS1); err != nil {
		return nil, err
	}
	agg, err := thermal.Aggregate(o.ig, final)
	if err != nil {
		return nil, err
	}
	if res.Balance, err = o.est.BalanceModel(agg); err != nil {
		return nil, err
	}
	res.Model = agg
	res.StagePowers = agg.StagePowers()
	o.metrics.Optimum(res.Best.Mismatch)

	log.Info("grid search finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Float64("vcs2", res.Best.VCS2),
		zap.Float64("vcs1", res.Best.VCS1),
		zap.Float64("mismatch", res.Best.Mismatch),
	)
	return res, nil
}

func (o *Optimizer) evaluateAt(m *thermal.Model, vcs2, vcs1 float64) (cryo.Balance, error) {
	c := m.Clone()
	if err := Apply(c, vcs2, vcs1); err != nil {
		return cryo.Balance{}, err
	}
	return o.evaluate(c)
}

func (o *Optimizer) evaluate(m *thermal.Model) (cryo.Balance, error) {
	agg, err := thermal.Aggregate(o.ig, m)
	if err != nil {
		return cryo.Balance{}, err
	}
	return o.est.BalanceModel(agg)
}

// argmin scans row-major and keeps the first strict minimum.
func argmin(d *mat.Dense) Point {
	rows, cols := d.Dims()
	best := Point{Mismatch: d.At(0, 0)}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := d.At(i, j); v < best.Mismatch {
				best = Point{Row: i, Col: j, Mismatch: v}
			}
		}
	}
	return best
}
