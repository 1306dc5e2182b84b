package cryo

// Config holds the cryogen and fridge constants.
// Units:
//   - HeliumCapacity: L of liquid helium
//   - FridgeCapacity: J per 3He fridge cycle
//   - FlightDuration: s
//   - HeliumDensity: kg/L
//   - LatentHeat: kJ/kg
//   - GasCp: kJ/(kg·K)
//   - BoilingPoint: K
//   - RecycleDuration: s of heater time per fridge recycle
//   - RecyclePower: W drawn by the recycle heater
//   - VCS1Efficiency/VCS2Efficiency: fraction of the ideal vapor cooling
type Config struct {
	HeliumCapacity  float64 `mapstructure:"helium_capacity" yaml:"helium_capacity"`
	FridgeCapacity  float64 `mapstructure:"fridge_capacity" yaml:"fridge_capacity"`
	FlightDuration  float64 `mapstructure:"flight_duration" yaml:"flight_duration"`
	HeliumDensity   float64 `mapstructure:"helium_density" yaml:"helium_density"`
	LatentHeat      float64 `mapstructure:"latent_heat" yaml:"latent_heat"`
	GasCp           float64 `mapstructure:"gas_cp" yaml:"gas_cp"`
	BoilingPoint    float64 `mapstructure:"boiling_point" yaml:"boiling_point"`
	RecycleDuration float64 `mapstructure:"recycle_duration" yaml:"recycle_duration"`
	RecyclePower    float64 `mapstructure:"recycle_power" yaml:"recycle_power"`
	VCS1Efficiency  float64 `mapstructure:"vcs1_efficiency" yaml:"vcs1_efficiency"`
	VCS2Efficiency  float64 `mapstructure:"vcs2_efficiency" yaml:"vcs2_efficiency"`
}

// DefaultConfig returns the balloon-flight constants.
func DefaultConfig() Config { return *_defaultConfig() }

func _defaultConfig() *Config {
	return &Config{
		HeliumCapacity:  300,             // L
		FridgeCapacity:  300,             // J
		FlightDuration:  35 * 24 * 3600,  // 35 days
		HeliumDensity:   0.125,           // kg/L
		LatentHeat:      21,              // kJ/kg
		GasCp:           5.5,             // kJ/(kg·K)
		BoilingPoint:    4.2,             // K
		RecycleDuration: 30 * 60,         // 30 min heater
		RecyclePower:    35.0 * 35 / 500, // 35 V across 500 Ω
		VCS1Efficiency:  1,
		VCS2Efficiency:  1,
	}
}

// merge returns defaults overridden by every positive field of cfg.
func merge(cfg *Config) *Config {
	base := _defaultConfig()
	if cfg == nil {
		return base
	}
	merged := *base
	for _, f := range []struct {
		src float64
		dst *float64
	}{
		{cfg.HeliumCapacity, &merged.HeliumCapacity},
		{cfg.FridgeCapacity, &merged.FridgeCapacity},
		{cfg.FlightDuration, &merged.FlightDuration},
		{cfg.HeliumDensity, &merged.HeliumDensity},
		{cfg.LatentHeat, &merged.LatentHeat},
		{cfg.GasCp, &merged.GasCp},
		{cfg.BoilingPoint, &merged.BoilingPoint},
		{cfg.RecycleDuration, &merged.RecycleDuration},
		{cfg.RecyclePower, &merged.RecyclePower},
		{cfg.VCS1Efficiency, &merged.VCS1Efficiency},
		{cfg.VCS2Efficiency, &merged.VCS2Efficiency},
	} {
		if f.src > 0 {
			*f.dst = f.src
		}
	}
	return &merged
}
