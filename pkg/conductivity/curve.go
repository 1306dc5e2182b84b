package conductivity

import (
	"fmt"

	"github.com/ja7ad/cryotherm/pkg/material"
)

const (
	_kindTable  = "table"
	_kindFit    = "fit"
	_kindInterp = "interpolation"
)

// curve is a resolved Source.
type curve struct {
	material, name, kind string
	rec                  material.Record
	ip                   *material.Interpolation
}

func (c curve) valid() (lo, hi float64) {
	if c.ip != nil {
		return c.ip.Range()
	}
	return c.rec.TLow, c.rec.THigh
}

func (c curve) eval(ts []float64) ([]float64, error) {
	if c.ip == nil {
		return c.rec.EvalAll(ts), nil
	}
	out := make([]float64, len(ts))
	for i, t := range ts {
		k, err := c.ip.At(t)
		if err != nil {
			return nil, err
		}
		out[i] = k
	}
	return out, nil
}

func (e *Evaluator) resolve(src Source) (curve, error) {
	c, err := e.lookup(src)
	if err != nil {
		return curve{}, err
	}
	e.metrics.Evaluation(c.material, c.kind)
	return c, nil
}

func (e *Evaluator) lookup(src Source) (curve, error) {
	switch {
	case src.Interpolate:
		if e.library == nil {
			return curve{}, fmt.Errorf("%w: interpolate %s", ErrNoLibrary, src.Material)
		}
		ip, err := e.library.Interpolation(src.Material, src.Fit)
		if err != nil {
			return curve{}, err
		}
		return curve{material: src.Material, name: src.String(), kind: _kindInterp, ip: ip}, nil

	case src.Fit != "":
		if e.library == nil {
			return curve{}, fmt.Errorf("%w: fit %s", ErrNoLibrary, src.Fit)
		}
		rec, ok := e.library.FitByName(src.Material, src.Fit)
		if !ok {
			return curve{}, fmt.Errorf("%w: %q for %s", material.ErrUnknownFit, src.Fit, src.Material)
		}
		return curve{material: src.Material, name: rec.Name(), kind: _kindFit, rec: rec}, nil
	}

	if e.table != nil {
		rec, err := e.table.Parameters(src.Material)
		if err == nil {
			return curve{material: src.Material, name: rec.Name(), kind: _kindTable, rec: rec}, nil
		}
		if e.library == nil {
			return curve{}, err
		}
	}
	if e.library != nil {
		m, err := e.library.Material(src.Material)
		if err != nil {
			return curve{}, err
		}
		if len(m.Fits) == 1 {
			rec := m.Fits[0]
			return curve{material: src.Material, name: rec.Name(), kind: _kindFit, rec: rec}, nil
		}
		return curve{}, fmt.Errorf("%w: %s has %d fits, name one or interpolate", material.ErrUnknownFit, src.Material, len(m.Fits))
	}
	return curve{}, fmt.Errorf("%w: %q", material.ErrUnknownMaterial, src.Material)
}
