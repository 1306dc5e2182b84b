// Package config layers defaults, an optional YAML file, CRYOTHERM_*
// environment variables and command-line flags into one Config.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ja7ad/cryotherm/pkg/cryo"
	"github.com/ja7ad/cryotherm/pkg/logging"
	"github.com/ja7ad/cryotherm/pkg/optimize"
)

// EnvPrefix prefixes every environment override, e.g. CRYOTHERM_CRYO_HELIUM_CAPACITY.
const EnvPrefix = "CRYOTHERM"

// ErrConfig wraps every load failure.
var ErrConfig = errors.New("config: invalid configuration")

// Config is the merged run configuration.
type Config struct {
	// Table is the compiled fit CSV.
	Table string `mapstructure:"table"`
	// Library is the per-material fit YAML; optional.
	Library string `mapstructure:"library"`
	// MetricsTextfile receives Prometheus metrics after a run when set.
	MetricsTextfile string `mapstructure:"metrics_textfile"`

	Log      logging.Config   `mapstructure:"log"`
	Cryo     cryo.Config      `mapstructure:"cryo"`
	Optimize optimize.Options `mapstructure:"optimize"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"table":            "table",
	"library":          "library",
	"metrics-textfile": "metrics_textfile",
	"log-level":        "log.level",
	"log-format":       "log.format",
	"log-output":       "log.output",
	"points":           "optimize.points",
	"vcs2-min":         "optimize.vcs2_min",
	"vcs2-max":         "optimize.vcs2_max",
	"vcs1-min":         "optimize.vcs1_min",
	"vcs1-max":         "optimize.vcs1_max",
	"workers":          "optimize.workers",
}

// RegisterFlags adds the global flags Load understands.
func RegisterFlags(fs *pflag.FlagSet) {
	opts := optimize.DefaultOptions()
	lc := logging.DefaultConfig()

	fs.String("config", "", "YAML config file")
	fs.String("table", "", "compiled conductivity fit table (CSV)")
	fs.String("library", "", "per-material fit library (YAML)")
	fs.String("metrics-textfile", "", "write Prometheus metrics to this file after the run")
	fs.String("log-level", lc.Level, "log level: debug, info, warn, error")
	fs.String("log-format", lc.Format, "log encoding: console or json")
	fs.String("log-output", lc.OutputPath, "log destination: stderr, stdout or a file path")
	fs.Int("points", opts.Points, "grid points per optimizer axis")
	fs.Float64("vcs2-min", opts.VCS2Min, "lowest VCS 2 temperature searched [K]")
	fs.Float64("vcs2-max", opts.VCS2Max, "highest VCS 2 temperature searched [K]")
	fs.Float64("vcs1-min", opts.VCS1Min, "lowest VCS 1 temperature searched [K]")
	fs.Float64("vcs1-max", opts.VCS1Max, "highest VCS 1 temperature searched [K]")
	fs.Int("workers", 0, "concurrent optimizer rows (0 = GOMAXPROCS)")
}

func setDefaults(v *viper.Viper) {
	lc := logging.DefaultConfig()
	v.SetDefault("table", "")
	v.SetDefault("library", "")
	v.SetDefault("metrics_textfile", "")
	v.SetDefault("log.level", lc.Level)
	v.SetDefault("log.format", lc.Format)
	v.SetDefault("log.output", lc.OutputPath)
	v.SetDefault("log.development", lc.Development)

	cc := cryo.DefaultConfig()
	for key, val := range map[string]float64{
		"helium_capacity":  cc.HeliumCapacity,
		"fridge_capacity":  cc.FridgeCapacity,
		"flight_duration":  cc.FlightDuration,
		"helium_density":   cc.HeliumDensity,
		"latent_heat":      cc.LatentHeat,
		"gas_cp":           cc.GasCp,
		"boiling_point":    cc.BoilingPoint,
		"recycle_duration": cc.RecycleDuration,
		"recycle_power":    cc.RecyclePower,
		"vcs1_efficiency":  cc.VCS1Efficiency,
		"vcs2_efficiency":  cc.VCS2Efficiency,
	} {
		v.SetDefault("cryo."+key, val)
	}

	oo := optimize.DefaultOptions()
	v.SetDefault("optimize.points", oo.Points)
	v.SetDefault("optimize.vcs2_min", oo.VCS2Min)
	v.SetDefault("optimize.vcs2_max", oo.VCS2Max)
	v.SetDefault("optimize.vcs1_min", oo.VCS1Min)
	v.SetDefault("optimize.vcs1_max", oo.VCS1Max)
	v.SetDefault("optimize.workers", oo.Workers)
}

// Load merges, in rising precedence, defaults, the file named by --config
// or CRYOTHERM_CONFIG, the environment and flags set on fs. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("%w: bind --%s: %w", ErrConfig, name, err)
				}
			}
		}
		if f := fs.Lookup("config"); f != nil {
			if err := v.BindPFlag("config", f); err != nil {
				return nil, fmt.Errorf("%w: bind --config: %w", ErrConfig, err)
			}
		}
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrConfig, path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := cfg.Optimize.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return &cfg, nil
}
