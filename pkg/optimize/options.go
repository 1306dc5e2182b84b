package optimize

import (
	"fmt"
	"runtime"
)

// Options bound the search. Temperatures are in Kelvin.
type Options struct {
	Points  int     `mapstructure:"points" yaml:"points"`
	VCS2Min float64 `mapstructure:"vcs2_min" yaml:"vcs2_min"`
	VCS2Max float64 `mapstructure:"vcs2_max" yaml:"vcs2_max"`
	VCS1Min float64 `mapstructure:"vcs1_min" yaml:"vcs1_min"`
	VCS1Max float64 `mapstructure:"vcs1_max" yaml:"vcs1_max"`
	// Workers caps concurrently evaluated grid rows; 0 means GOMAXPROCS.
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// DefaultOptions searches 10×10 points over VCS 2 in [100, 260] K and
// VCS 1 in [5, 100] K.
func DefaultOptions() Options {
	return Options{
		Points:  10,
		VCS2Min: 100,
		VCS2Max: 260,
		VCS1Min: 5,
		VCS1Max: 100,
	}
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Validate reports the first unusable field.
func (o Options) Validate() error {
	switch {
	case o.Points < 2:
		return fmt.Errorf("%w: need at least 2 points per axis, got %d", ErrInvalidGrid, o.Points)
	case o.VCS2Min <= 0 || o.VCS2Min >= o.VCS2Max:
		return fmt.Errorf("%w: VCS 2 range [%g, %g]", ErrInvalidGrid, o.VCS2Min, o.VCS2Max)
	case o.VCS1Min <= 0 || o.VCS1Min >= o.VCS1Max:
		return fmt.Errorf("%w: VCS 1 range [%g, %g]", ErrInvalidGrid, o.VCS1Min, o.VCS1Max)
	case o.VCS1Max > o.VCS2Min:
		return fmt.Errorf("%w: VCS 1 range ends at %g K above VCS 2 start %g K", ErrInvalidGrid, o.VCS1Max, o.VCS2Min)
	case o.Workers < 0:
		return fmt.Errorf("%w: negative worker count %d", ErrInvalidGrid, o.Workers)
	}
	return nil
}
