package thermal

import (
	"fmt"

	"github.com/ja7ad/cryotherm/pkg/types"
)

// Aggregate evaluates every component of every stage at the stage's
// temperatures and returns a new model with PowerPerPart and PowerTotal
// filled in. m is left untouched.
func Aggregate(ig Integrator, m *Model) (*Model, error) {
	out := m.Clone()
	for i := range out.Stages {
		s := &out.Stages[i]
		for j := range s.Components {
			c := &s.Components[j]
			ppp, err := PartPower(ig, c.Part, s.LowT, s.HighT)
			if err != nil {
				return nil, fmt.Errorf("stage %q component %q: %w", s.Name, c.Name, err)
			}
			c.PowerPerPart = ppp
			c.PowerTotal = ppp * types.Watts(c.Number)
		}
	}
	return out, nil
}
