package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := New()
	r.Evaluation("Cu", "table")
	r.Evaluation("Cu", "table")
	r.Evaluation("G10", "interpolation")
	r.RangeWarning("Cu")
	r.GridPoint(2 * time.Millisecond)
	r.Optimum(0.125)
	r.HoldTime(12.5)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.evaluations.WithLabelValues("Cu", "table")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rangeWarnings.WithLabelValues("Cu")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.gridPoints))
	assert.Equal(t, 0.125, testutil.ToFloat64(r.mismatch))
	assert.Equal(t, 12.5, testutil.ToFloat64(r.holdTime))

	path := filepath.Join(t.TempDir(), "cryotherm.prom")
	require.NoError(t, r.WriteTextfile(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `cryotherm_conductivity_evaluations_total{material="G10",source="interpolation"} 1`)
	assert.Contains(t, string(b), "cryotherm_cryo_hold_time_days 12.5")
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Evaluation("Cu", "table")
		r.RangeWarning("Cu")
		r.GridPoint(time.Second)
		r.Optimum(1)
		r.HoldTime(1)
	})
	assert.Nil(t, r.Registry())
	assert.NoError(t, r.WriteTextfile("/nonexistent/file"))
}
