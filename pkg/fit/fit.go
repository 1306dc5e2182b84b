// Package fit evaluates thermal conductivity curves k(T) in W/(m·K).
//
// Every evaluator is a pure function of temperature (Kelvin) and a Params
// vector. Evaluating outside a fit's validity range is allowed and returns
// the extrapolated value; range policing belongs to the caller.
package fit

import (
	"fmt"
	"math"
)

// Func evaluates k at temperature t.
type Func func(t float64, p Params) float64

type entry struct {
	eval Func
	// arity is the fixed parameter count of closed-form fits, 0 for polynomials.
	arity int
}

var _registry = map[Type]entry{
	Nppoly:          {eval: nppoly},
	PolyLog:         {eval: polylog},
	CompPoly:        {eval: compound},
	PowerLaw:        {eval: powerLaw, arity: 2},
	NISTExpErf:      {eval: nistExpErf, arity: 6},
	NISTCopper:      {eval: nistCopper, arity: 9},
	TchebyLnT:       {eval: tchebyLnT},
	LowTExtrapolate: {eval: lowTExtrapolate, arity: 16},
	OFHCRRR:         {eval: ofhcRRR, arity: 22},
	NBS:             {eval: nbs, arity: 24},
	RadebaughKoT:    {eval: radebaughKoT},
	RadebaughLogExp: {eval: radebaughLogExp},
}

// Arity returns the fixed parameter count of typ, or 0 when typ takes
// polynomial groups of any length.
func Arity(typ Type) int { return _registry[typ].arity }

// Eval returns k(t) for the given fit.
func Eval(typ Type, t float64, p Params) (float64, error) {
	e, ok := _registry[typ]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	return e.eval(t, p), nil
}

// EvalAll evaluates the fit at every temperature in ts.
func EvalAll(typ Type, ts []float64, p Params) ([]float64, error) {
	e, ok := _registry[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = e.eval(t, p)
	}
	return out, nil
}

// Normalize strips trailing zero padding, checks the parameter count
// against typ and pads closed-form fits back to their arity.
func Normalize(typ Type, p Params) (Params, error) {
	e, ok := _registry[typ]
	if !ok {
		return Params{}, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	out := p.Clone()
	out.Low = TrimZeros(out.Low)
	out.High = TrimZeros(out.High)

	switch typ {
	case CompPoly:
		if err := checkCompound(out); err != nil {
			return Params{}, err
		}
		return out, nil
	case Nppoly, RadebaughKoT:
		if len(out.Low) == 0 {
			return Params{}, fmt.Errorf("%w: %s needs a low group", ErrNoParams, typ)
		}
		return out, nil
	case PolyLog, RadebaughLogExp:
		if len(out.primary()) == 0 {
			return Params{}, fmt.Errorf("%w: %s", ErrNoParams, typ)
		}
		return out, nil
	}

	if len(out.Low) == 0 {
		out.Low, out.High = out.High, nil
	}
	if len(out.Low) == 0 {
		return Params{}, fmt.Errorf("%w: %s", ErrNoParams, typ)
	}

	if typ == TchebyLnT {
		return normalizeTcheby(out)
	}

	if len(out.Low) > e.arity {
		return Params{}, fmt.Errorf("%w: %s takes %d parameters, got %d", ErrArity, typ, e.arity, len(out.Low))
	}
	out.Low = pad(out.Low, e.arity)
	return out, nil
}

// checkCompound requires every branch the crossover selects to have
// coefficients: erf_loc 0 needs the high group, -1 the low group, and a
// positive crossover both.
func checkCompound(p Params) error {
	needLow, needHigh := true, true
	switch {
	case p.ErfLoc == 0:
		needLow = false
	case p.ErfLoc == -1:
		needHigh = false
	case p.ErfLoc < 0:
		return fmt.Errorf("%w: %s erf_loc %v", ErrCrossover, CompPoly, p.ErfLoc)
	}
	if needLow && len(p.Low) == 0 {
		return fmt.Errorf("%w: %s with erf_loc %v needs a low group", ErrNoParams, CompPoly, p.ErfLoc)
	}
	if needHigh && len(p.High) == 0 {
		return fmt.Errorf("%w: %s with erf_loc %v needs a high group", ErrNoParams, CompPoly, p.ErfLoc)
	}
	return nil
}

func normalizeTcheby(p Params) (Params, error) {
	n := p.Low[0]
	if n < 0 || n != math.Trunc(n) {
		return Params{}, fmt.Errorf("%w: %s term count %v", ErrArity, TchebyLnT, n)
	}
	want := 3 + int(n)
	if len(p.Low) > want {
		return Params{}, fmt.Errorf("%w: %s takes %d parameters, got %d", ErrArity, TchebyLnT, want, len(p.Low))
	}
	p.Low = pad(p.Low, want)
	if p.Low[2] == p.Low[1] {
		return Params{}, fmt.Errorf("%w: %s has an empty ln(T) range", ErrArity, TchebyLnT)
	}
	return p, nil
}

// TrimZeros drops trailing zeros from v.
func TrimZeros(v []float64) []float64 {
	n := len(v)
	for n > 0 && v[n-1] == 0 {
		n--
	}
	return v[:n]
}

func pad(v []float64, n int) []float64 {
	if len(v) >= n {
		return v
	}
	out := make([]float64, n)
	copy(out, v)
	return out
}

// Blend weights of the compound fit at temperature t. erfLoc 0 selects the
// high branch, -1 the low branch.
func Blend(t, erfLoc, steepness float64) (low, high float64) {
	switch erfLoc {
	case 0:
		return 0, 1
	case -1:
		return 1, 0
	}
	if steepness == 0 {
		steepness = DefaultSteepness
	}
	x := math.Erf(steepness * math.Log10(t/erfLoc))
	return 0.5 * (1 - x), 0.5 * (1 + x)
}

// LowBranch is the Nppoly branch of a compound fit.
func LowBranch(t float64, p Params) float64 { return t * polyval(p.Low, t) }

// HighBranch is the polylog branch of a compound fit.
func HighBranch(t float64, p Params) float64 { return logPoly(t, p.High) }

// logPoly is 10^P(log10 t).
func logPoly(t float64, c []float64) float64 {
	return math.Pow(10, polyval(c, math.Log10(t)))
}

func nppoly(t float64, p Params) float64 { return LowBranch(t, p) }

func polylog(t float64, p Params) float64 { return logPoly(t, p.primary()) }

func compound(t float64, p Params) float64 {
	wl, wh := Blend(t, p.ErfLoc, p.Steepness)
	var k float64
	if wl != 0 {
		k += wl * LowBranch(t, p)
	}
	if wh != 0 {
		k += wh * HighBranch(t, p)
	}
	return k
}

func powerLaw(t float64, p Params) float64 { return p.Low[0] * math.Pow(t, p.Low[1]) }

func nistExpErf(t float64, p Params) float64 {
	c := p.Low
	x := math.Log10(t)
	s := math.Erf(2 * (x - c[2]))
	lo := (c[0] + c[1]*x) * (1 - s) / 2
	hi := c[3]
	if c[4] != 0 {
		hi += c[4] * math.Exp(-x/c[5])
	}
	return math.Pow(10, lo+hi*(1+s)/2)
}

func nistCopper(t float64, p Params) float64 {
	c := p.Low
	rt := math.Sqrt(t)
	num := c[0] + c[2]*rt + c[4]*t + c[6]*t*rt + c[8]*t*t
	den := 1 + c[1]*rt + c[3]*t + c[5]*t*rt + c[7]*t*t
	return math.Pow(10, num/den)
}

// tchebyLnT: p0 terms, ln(T) range [p1, p2], then the Chebyshev coefficients.
func tchebyLnT(t float64, p Params) float64 {
	c := p.Low
	lnT := math.Log(t)
	x := ((lnT - c[1]) - (c[2] - lnT)) / (c[2] - c[1])
	return math.Exp(chebyshev(c[3:], x))
}

func lowTExtrapolate(t float64, p Params) float64 {
	c := p.Low
	switch {
	case t > c[9]:
		return math.Pow(10, polyval(c[:9], math.Log10(t)))
	case t > c[10] || c[15] == 0:
		return c[12] * math.Pow(t, c[11])
	default:
		return c[15] * math.Pow(t, c[14])
	}
}

// ofhcRRR: p0 is RRR, p1..p21 the thermal resistivity coefficients.
func ofhcRRR(t float64, p Params) float64 {
	rrr, c := p.Low[0], p.Low[1:]
	w0 := c[0] / ((rrr - 1) * t)
	wc := logGauss(t, c[9], c[10], c[11], c[12]) +
		logGauss(t, c[13], c[14], c[15], c[16]) +
		logGauss(t, c[17], c[18], c[19], c[20])
	wi := c[1]*math.Pow(t, c[2])/(1+c[1]*c[3]*math.Pow(t, c[2]+c[4])*math.Exp(-math.Pow(c[5]/t, c[6]))) + wc
	wi0 := c[7] * math.Pow(rrr-1, c[8]) * wi * w0 / (wi + w0)
	return 1 / (w0 + wi + wi0)
}

// nbs is the classic NBS resistivity form for metals with a measured RRR.
func nbs(t float64, p Params) float64 {
	const lorenz = 2.443e-8
	c := p.Low
	beta := c[1] / lorenz / c[0]
	rc := logGauss(t, c[9], c[10], c[11], c[12]) +
		logGauss(t, c[13], c[14], c[15], c[16]) +
		logGauss(t, c[17], c[18], c[19], c[20])
	if c[21] != 0 {
		rc += c[21] * math.Exp(-math.Pow(math.Log(t/c[22])/c[23], 2))
	}
	r0 := beta / t
	ri := c[2]*math.Pow(t, c[3])/(1+c[2]*c[4]*math.Pow(t, c[3]+c[5])*math.Exp(-math.Pow(c[6]/t, c[7]))) + rc
	ri0 := c[8] * ri * r0 / (ri + r0)
	return 1 / (r0 + ri + ri0)
}

func radebaughKoT(t float64, p Params) float64 {
	return t * (polyval(p.Low, t) + 1e-9*math.Pow(t, 4))
}

func radebaughLogExp(t float64, p Params) float64 {
	c := p.primary()
	x := math.Log10(t)
	return math.Pow(10, polyval(c[1:], x)+c[0]*math.Exp(-x))
}

// logGauss is a·ln(t/b)·exp(-(ln(t/c)/d)²); a zero amplitude contributes nothing.
func logGauss(t, a, b, c, d float64) float64 {
	if a == 0 {
		return 0
	}
	return a * math.Log(t/b) * math.Exp(-math.Pow(math.Log(t/c)/d, 2))
}

// polyval evaluates an ascending-order polynomial with Horner's rule.
func polyval(c []float64, x float64) float64 {
	var y float64
	for i := len(c) - 1; i >= 0; i-- {
		y = y*x + c[i]
	}
	return y
}

// chebyshev sums c[i]·T_i(x) using the three-term recurrence, which stays
// defined for |x| > 1.
func chebyshev(c []float64, x float64) float64 {
	var sum float64
	prev, cur := 1.0, x
	for i, ci := range c {
		var ti float64
		switch i {
		case 0:
			ti = prev
		case 1:
			ti = cur
		default:
			ti = 2*x*cur - prev
			prev, cur = cur, ti
		}
		sum += ci * ti
	}
	return sum
}
