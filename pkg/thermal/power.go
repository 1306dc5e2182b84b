package thermal

import (
	"fmt"
	"math"

	"github.com/ja7ad/cryotherm/pkg/conductivity"
	"github.com/ja7ad/cryotherm/pkg/types"
)

// Integrator returns ∫k dT of a material between two temperatures.
// *conductivity.Evaluator satisfies it.
type Integrator interface {
	Integral(lo, hi float64, src conductivity.Source) (float64, error)
}

// AnnulusArea is the cross-section of a tube, π(OD/2)² - π(ID/2)².
func AnnulusArea(od, id float64) float64 {
	return math.Pi*(0.5*od)*(0.5*od) - math.Pi*(0.5*id)*(0.5*id)
}

// PartPower returns the heat conducted by one part between lo and hi. Geometry
// is taken as given: zero or negative lengths and diameters are not checked.
func PartPower(ig Integrator, p Part, lo, hi float64) (types.Watts, error) {
	switch p := p.(type) {
	case Standard:
		return conducted(ig, AnnulusArea(p.OD, p.ID)/p.Length, p.Material, lo, hi)
	case AOverL:
		return conducted(ig, p.AOverL, p.Material, lo, hi)
	case Coax:
		var sum types.Watts
		for _, layer := range p.Layers() {
			w, err := PartPower(ig, layer, lo, hi)
			if err != nil {
				return 0, err
			}
			sum += w
		}
		return sum, nil
	case FixedPower:
		return p.Watts, nil
	case nil:
		return 0, fmt.Errorf("%w: no geometry", ErrInvalidComponent)
	}
	return 0, fmt.Errorf("%w: %T", ErrUnknownComponentType, p)
}

// Layers splits the cable into its three parallel conductors.
func (c Coax) Layers() [3]Standard {
	return [3]Standard{
		{Material: c.Casing, OD: c.CaseOD, ID: c.InsulatorOD, Length: c.Length},
		{Material: c.Insulator, OD: c.InsulatorOD, ID: c.CoreOD, Length: c.Length},
		{Material: c.Core, OD: c.CoreOD, ID: 0, Length: c.Length},
	}
}

func conducted(ig Integrator, aOverL float64, src conductivity.Source, lo, hi float64) (types.Watts, error) {
	ci, err := ig.Integral(lo, hi, src)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", src, err)
	}
	return types.Watts(aOverL * ci), nil
}
