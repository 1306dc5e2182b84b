package types

import (
	"fmt"
	"math"
)

// Watts is a heat load in W.
type Watts float64

// Humanized returns the load with an automatic SI prefix (nW, µW, mW, W, kW).
func (w Watts) Humanized() string {
	v := float64(w)
	a := math.Abs(v)
	switch {
	case a == 0:
		return "0 W"
	case a >= 1e3:
		return fmt.Sprintf("%.2f kW", v/1e3)
	case a >= 1:
		return fmt.Sprintf("%.3f W", v)
	case a >= 1e-3:
		return fmt.Sprintf("%.3f mW", v*1e3)
	case a >= 1e-6:
		return fmt.Sprintf("%.3f µW", v*1e6)
	default:
		return fmt.Sprintf("%.3f nW", v*1e9)
	}
}

// MilliWatts returns the load in mW.
func (w Watts) MilliWatts() float64 { return float64(w) * 1e3 }

// Float returns the load as a plain float64.
func (w Watts) Float() float64 { return float64(w) }

// Kelvin is an absolute temperature.
type Kelvin float64

// Humanized prints temperatures below 1 K in mK.
func (k Kelvin) Humanized() string {
	if k > 0 && k < 1 {
		return fmt.Sprintf("%.1f mK", float64(k)*1e3)
	}
	return fmt.Sprintf("%.2f K", float64(k))
}
