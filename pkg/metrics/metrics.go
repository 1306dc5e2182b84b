// Package metrics exposes evaluation and optimizer counters as Prometheus
// metrics. A run writes them once, in node-exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder owns a private registry. All methods accept a nil receiver and
// then do nothing, so callers may pass a nil *Recorder to opt out.
type Recorder struct {
	reg *prometheus.Registry

	evaluations   *prometheus.CounterVec
	rangeWarnings *prometheus.CounterVec
	gridPoints    prometheus.Counter
	gridDuration  prometheus.Histogram
	mismatch      prometheus.Gauge
	holdTime      prometheus.Gauge
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cryotherm_conductivity_evaluations_total",
			Help: "Conductivity evaluations and integrals by material and curve source",
		}, []string{"material", "source"}),
		rangeWarnings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cryotherm_range_warnings_total",
			Help: "Queries outside a fit's valid temperature range",
		}, []string{"material"}),
		gridPoints: f.NewCounter(prometheus.CounterOpts{
			Name: "cryotherm_optimizer_grid_points_total",
			Help: "Optimizer grid points evaluated",
		}),
		gridDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "cryotherm_optimizer_grid_point_seconds",
			Help:    "Time to aggregate and balance one grid point",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		mismatch: f.NewGauge(prometheus.GaugeOpts{
			Name: "cryotherm_optimizer_best_mismatch_watts",
			Help: "Mismatch at the chosen optimum",
		}),
		holdTime: f.NewGauge(prometheus.GaugeOpts{
			Name: "cryotherm_cryo_hold_time_days",
			Help: "Estimated cryogen hold time",
		}),
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

func (r *Recorder) Evaluation(material, source string) {
	if r == nil {
		return
	}
	r.evaluations.WithLabelValues(material, source).Inc()
}

func (r *Recorder) RangeWarning(material string) {
	if r == nil {
		return
	}
	r.rangeWarnings.WithLabelValues(material).Inc()
}

func (r *Recorder) GridPoint(d time.Duration) {
	if r == nil {
		return
	}
	r.gridPoints.Inc()
	r.gridDuration.Observe(d.Seconds())
}

func (r *Recorder) Optimum(mismatch float64) {
	if r == nil {
		return
	}
	r.mismatch.Set(mismatch)
}

func (r *Recorder) HoldTime(days float64) {
	if r == nil {
		return
	}
	r.holdTime.Set(days)
}

// WriteTextfile writes every metric to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.reg)
}
