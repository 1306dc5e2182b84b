package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	log, err := New(Config{Level: "debug", Format: "json", OutputPath: path})
	require.NoError(t, err)

	log.Debug("integral", zap.String("material", "G10"), zap.Float64("t_low", 4.2))
	require.NoError(t, log.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(raw))), &entry))
	assert.Equal(t, "integral", entry["msg"])
	assert.Equal(t, "G10", entry["material"])
	assert.Equal(t, 4.2, entry["t_low"])
}

func TestNew_Levels(t *testing.T) {
	cases := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			log, err := New(Config{Level: tc.level, OutputPath: filepath.Join(t.TempDir(), "x.log")})
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tc.want))
			if tc.want > zapcore.DebugLevel {
				assert.False(t, log.Core().Enabled(tc.want-1))
			}
		})
	}
}

func TestNew_Console(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	cfg := DefaultConfig()
	cfg.OutputPath = path
	log, err := New(cfg)
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("outside valid range", zap.String("material", "Kapton"))
	require.NoError(t, log.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "outside valid range")
	assert.Contains(t, out, `"material": "Kapton"`)
}

func TestNew_BadOutput(t *testing.T) {
	_, err := New(Config{OutputPath: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	assert.Error(t, err)
}
