// Package logging builds the zap logger shared by the command line and the
// library packages.
package logging

import (
	"go.uber.org/zap"
)

// Config selects level, encoding and destination.
type Config struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // "json" or "console"
	OutputPath  string `mapstructure:"output" yaml:"output"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

// DefaultConfig logs warnings and above to stderr as console text.
func DefaultConfig() Config {
	return Config{Level: "warn", Format: "console", OutputPath: "stderr"}
}

// New builds a logger. An unparsable level falls back to info.
func New(cfg Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.Sampling = nil
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zc.Level = level

	if cfg.Format == "console" {
		zc.Encoding = "console"
	} else {
		zc.Encoding = "json"
	}

	if cfg.OutputPath != "" {
		zc.OutputPaths = []string{cfg.OutputPath}
	}
	return zc.Build()
}
