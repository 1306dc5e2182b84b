package fit

import "strings"

// Type names one evaluator of the fit library.
type Type string

const (
	Nppoly          Type = "Nppoly"
	PolyLog         Type = "polylog"
	CompPoly        Type = "comppoly"
	PowerLaw        Type = "powerlaw"
	NISTExpErf      Type = "NIST-experf"
	NISTCopper      Type = "NIST-copperfit"
	TchebyLnT       Type = "TchebyLnT"
	LowTExtrapolate Type = "lowTextrapolate"
	OFHCRRR         Type = "OFHC_RRR_Wc"
	NBS             Type = "NBS"
	RadebaughKoT    Type = "RRadebaugh_koT"
	RadebaughLogExp Type = "RRadebaugh_logkexp"
)

// DefaultSteepness is the erf multiplier used by blended fits when Params.Steepness is zero.
const DefaultSteepness = 15.0

var _aliases = map[string]Type{
	"3 order polylog": PolyLog,
	"loglog":          CompPoly,
	"power_law":       PowerLaw,
}

// ParseType resolves a table tag (including legacy aliases) to a Type.
func ParseType(tag string) (Type, error) {
	tag = strings.TrimSpace(tag)
	if t, ok := _aliases[tag]; ok {
		return t, nil
	}
	t := Type(tag)
	if _, ok := _registry[t]; ok {
		return t, nil
	}
	return "", ErrUnknownType
}

// Types returns every canonical fit type.
func Types() []Type {
	return []Type{
		Nppoly, PolyLog, CompPoly, PowerLaw, NISTExpErf, NISTCopper,
		TchebyLnT, LowTExtrapolate, OFHCRRR, NBS, RadebaughKoT, RadebaughLogExp,
	}
}

// Params is the parameter vector of one fit. Low and High hold the two
// regime groups in ascending coefficient order; single-regime and
// closed-form fits read Low (or High when only High is given).
type Params struct {
	Low       []float64 `json:"low,omitempty" yaml:"low,omitempty"`
	High      []float64 `json:"high,omitempty" yaml:"high,omitempty"`
	ErfLoc    float64   `json:"erf_loc,omitempty" yaml:"erf_loc,omitempty"`
	Steepness float64   `json:"steepness,omitempty" yaml:"steepness,omitempty"`
}

// Clone returns a deep copy of p.
func (p Params) Clone() Params {
	out := p
	out.Low = append([]float64(nil), p.Low...)
	out.High = append([]float64(nil), p.High...)
	return out
}

// primary returns High when non-empty, else Low.
func (p Params) primary() []float64 {
	if len(p.High) > 0 {
		return p.High
	}
	return p.Low
}
