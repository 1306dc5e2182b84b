// Package cryo estimates how long the liquid helium bath lasts and how well
// boil-off vapor cools the two vapor-cooled shields.
package cryo

import (
	"fmt"
	"math"

	"github.com/ja7ad/cryotherm/pkg/thermal"
)

// Stage names the estimator looks up in a model.
const (
	StageVCS1      = "VCS 1"
	StageVCS2      = "VCS 2"
	StageLHe       = "4K - LHe"
	StageTransient = "4K - Transient"
	StageFridge    = "300mK"
)

// Helium gas enthalpy is linear in temperature above the boiling point:
// h(T) = enthalpySlope*T + enthalpyOffset in J/g.
const (
	enthalpySlope  = 5.205453
	enthalpyOffset = -18.689101
)

// Loads are the stage powers (W) and shield temperatures (K) the estimator
// consumes.
type Loads struct {
	VCS1 float64
	VCS2 float64
	LHe  float64
	// Transient is the 4 K transient stage load; zero when the model has no
	// such stage.
	Transient float64
	Fridge    float64
	// Vapor is the part of the 4 K load whose boil-off flows up the shields.
	Vapor float64

	VCS1Temp float64
	VCS2Temp float64
}

// He3Load is the total load on the helium bath.
func (l Loads) He3Load() float64 { return l.LHe + l.Transient }

// LoadsFrom reads Loads out of an aggregated model. VCS 1, VCS 2 and
// 4K - LHe are required and a missing one yields ErrMissingStage.
// 4K - Transient and 300mK are optional: an absent stage contributes no
// load, so the helium bath then carries the 4K - LHe load alone.
func LoadsFrom(m *thermal.Model) (Loads, error) {
	if m == nil {
		return Loads{}, fmt.Errorf("%w: nil model", ErrMissingStage)
	}
	var l Loads
	for _, name := range []string{StageVCS1, StageVCS2, StageLHe} {
		if _, ok := m.Stage(name); !ok {
			return Loads{}, fmt.Errorf("%w: %q", ErrMissingStage, name)
		}
	}

	vcs1, _ := m.Stage(StageVCS1)
	vcs2, _ := m.Stage(StageVCS2)
	lhe, _ := m.Stage(StageLHe)

	l.VCS1, l.VCS1Temp = vcs1.Power().Float(), vcs1.LowT
	l.VCS2, l.VCS2Temp = vcs2.Power().Float(), vcs2.LowT
	l.LHe = lhe.Power().Float()
	l.Vapor = lhe.VaporPower().Float()

	if s, ok := m.Stage(StageTransient); ok {
		l.Transient = s.Power().Float()
		l.Vapor += s.VaporPower().Float()
	}
	if s, ok := m.Stage(StageFridge); ok {
		l.Fridge = s.Power().Float()
	}
	return l, nil
}

// Estimator evaluates the vapor balance and hold time for a fixed Config.
type Estimator struct {
	cfg *Config
}

// New returns an Estimator. Zero or negative fields of cfg keep their defaults.
func New(cfg *Config) *Estimator {
	return &Estimator{cfg: merge(cfg)}
}

// Config returns the effective constants.
func (e *Estimator) Config() Config { return *e.cfg }

// CoolingPower is the heat (W) a vapor flow absorbs warming from tIn to
// tOut, where the flow is produced by boiling off helium under load watts.
func (e *Estimator) CoolingPower(tOut, tIn, load, eff float64) float64 {
	dh := (enthalpySlope*tOut + enthalpyOffset) - (enthalpySlope*tIn + enthalpyOffset)
	return dh * eff * load / e.cfg.LatentHeat
}

// Balance compares vapor cooling capacity against the conducted shield loads.
type Balance struct {
	VaporLoad     float64
	VCS1Capacity  float64
	VCS2VaporTemp float64
	VCS2Capacity  float64
	VCS1Power     float64
	VCS2Power     float64
	// Mismatch is the Euclidean distance between capacities and loads.
	Mismatch float64
}

// Balance computes the vapor balance for l. It never fails: a zero vapor
// load yields zero capacities and vapor leaving VCS 1 at the boiling point.
func (e *Estimator) Balance(l Loads) Balance {
	b := Balance{
		VaporLoad:     l.Vapor,
		VCS1Power:     l.VCS1,
		VCS2Power:     l.VCS2,
		VCS2VaporTemp: e.cfg.BoilingPoint,
	}
	if l.Vapor > 0 {
		b.VCS1Capacity = e.CoolingPower(l.VCS1Temp, e.cfg.BoilingPoint, l.Vapor, e.cfg.VCS1Efficiency)
		flowCp := l.Vapor / e.cfg.LatentHeat * e.cfg.GasCp
		b.VCS2VaporTemp = b.VCS1Capacity/flowCp + e.cfg.BoilingPoint
		b.VCS2Capacity = e.CoolingPower(l.VCS2Temp, b.VCS2VaporTemp, l.Vapor, e.cfg.VCS2Efficiency)
	}
	b.Mismatch = math.Hypot(b.VCS1Capacity-b.VCS1Power, b.VCS2Capacity-b.VCS2Power)
	return b
}

// BalanceModel is Balance over the loads of an aggregated model.
func (e *Estimator) BalanceModel(m *thermal.Model) (Balance, error) {
	l, err := LoadsFrom(m)
	if err != nil {
		return Balance{}, err
	}
	return e.Balance(l), nil
}

// Report is the full hold-time estimate.
type Report struct {
	Balance

	HeliumCapacity   float64 // L
	RecycleEnergy    float64 // J
	FridgeHoldTime   float64 // hours
	TotalAverageLoad float64 // W
	LitersPerCycle   float64 // L
	CryoHoldTime     float64 // days
	MaxFlightLoad    float64 // W
}

// Estimate computes the hold time for l. The fridge load and the resulting
// average bath load must be positive.
func (e *Estimator) Estimate(l Loads) (Report, error) {
	if l.Fridge <= 0 {
		return Report{}, fmt.Errorf("%w: %s load is %g W", ErrNonPositiveLoad, StageFridge, l.Fridge)
	}

	r := Report{
		Balance:        e.Balance(l),
		HeliumCapacity: e.cfg.HeliumCapacity,
		RecycleEnergy:  e.cfg.RecycleDuration * e.cfg.RecyclePower,
		FridgeHoldTime: e.cfg.FridgeCapacity / l.Fridge / 3600,
	}
	r.TotalAverageLoad = l.He3Load() + r.RecycleEnergy/(r.FridgeHoldTime*3600)
	if r.TotalAverageLoad <= 0 {
		return Report{}, fmt.Errorf("%w: total average load is %g W", ErrNonPositiveLoad, r.TotalAverageLoad)
	}

	r.LitersPerCycle = r.TotalAverageLoad * r.FridgeHoldTime * 3.6 / (e.cfg.HeliumDensity * e.cfg.LatentHeat)
	r.CryoHoldTime = e.cfg.HeliumCapacity / r.LitersPerCycle * r.FridgeHoldTime / 24
	r.MaxFlightLoad = e.cfg.HeliumDensity * e.cfg.LatentHeat * 1e3 * e.cfg.HeliumCapacity / e.cfg.FlightDuration
	return r, nil
}

// EstimateModel is Estimate over the loads of an aggregated model.
func (e *Estimator) EstimateModel(m *thermal.Model) (Report, error) {
	l, err := LoadsFrom(m)
	if err != nil {
		return Report{}, err
	}
	return e.Estimate(l)
}

// Diagnostic is one named value of a Report.
type Diagnostic struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Diagnostics lists the report in display order.
func (r Report) Diagnostics() []Diagnostic {
	return []Diagnostic{
		{"He3Cap [L]", r.HeliumCapacity, "L"},
		{"Total Average Load [W]", r.TotalAverageLoad, "W"},
		{"Load Providing Vapor [W]", r.VaporLoad, "W"},
		{"VCS1 Cooling Capacity [W]", r.VCS1Capacity, "W"},
		{"VCS2 Vapor Temp [K]", r.VCS2VaporTemp, "K"},
		{"VCS2 Cooling Capacity [W]", r.VCS2Capacity, "W"},
		{"Fridge Hold Time [hrs]", r.FridgeHoldTime, "hrs"},
		{"Cryo Hold Time [days]", r.CryoHoldTime, "days"},
		{"Max 4K Load for Flight [W]", r.MaxFlightLoad, "W"},
	}
}
