// Package thermal models the conductive heat load on each stage of a
// cryostat: components with their geometry and materials, stages bounded
// by a warm and a cold temperature, and the aggregation of component
// powers into stage totals.
package thermal

import (
	"cmp"
	"slices"

	"github.com/ja7ad/cryotherm/pkg/conductivity"
	"github.com/ja7ad/cryotherm/pkg/types"
)

// Kind is the component "Type" tag.
type Kind string

const (
	KindStandard   Kind = "Standard"
	KindAOverL     Kind = "A/L"
	KindCoax       Kind = "Coax"
	KindFixedPower Kind = "Power per Part"
)

// Part is the geometry of a component. It is implemented by Standard,
// AOverL, Coax and FixedPower only.
type Part interface {
	Kind() Kind
	clone() Part
}

// Standard is a solid rod or tube of one material.
type Standard struct {
	Material conductivity.Source
	OD, ID   float64 // m
	Length   float64 // m
}

// AOverL is a conductor described only by its area-to-length ratio.
type AOverL struct {
	Material conductivity.Source
	AOverL   float64 // m
}

// Coax is a coaxial cable: casing between CaseOD and InsulatorOD, insulator
// between InsulatorOD and CoreOD, core inside CoreOD.
type Coax struct {
	Casing, Insulator, Core     conductivity.Source
	CaseOD, InsulatorOD, CoreOD float64 // m
	Length                      float64 // m
}

// FixedPower is a constant dissipation per part, e.g. a heater or amplifier.
type FixedPower struct {
	Watts types.Watts
}

func (Standard) Kind() Kind   { return KindStandard }
func (AOverL) Kind() Kind     { return KindAOverL }
func (Coax) Kind() Kind       { return KindCoax }
func (FixedPower) Kind() Kind { return KindFixedPower }

func (p Standard) clone() Part   { return p }
func (p AOverL) clone() Part     { return p }
func (p Coax) clone() Part       { return p }
func (p FixedPower) clone() Part { return p }

// Component is one item of a stage. PowerPerPart and PowerTotal are outputs
// of Aggregate.
type Component struct {
	Name           string
	Number         int
	ProvidingVapor bool
	Part           Part

	PowerPerPart types.Watts
	PowerTotal   types.Watts
}

// Stage is a temperature zone between LowT and HighT Kelvin.
type Stage struct {
	Name       string
	LowT       float64
	HighT      float64
	Components []Component
}

// Power sums PowerTotal over the stage's components.
func (s *Stage) Power() types.Watts {
	var sum types.Watts
	for _, c := range s.Components {
		sum += c.PowerTotal
	}
	return sum
}

// VaporPower sums PowerTotal over components flagged as providing vapor.
func (s *Stage) VaporPower() types.Watts {
	var sum types.Watts
	for _, c := range s.Components {
		if c.ProvidingVapor {
			sum += c.PowerTotal
		}
	}
	return sum
}

// Model is the full stage chain.
type Model struct {
	Stages []Stage
}

// Stage returns a pointer to the named stage for in-place edits.
func (m *Model) Stage(name string) (*Stage, bool) {
	for i := range m.Stages {
		if m.Stages[i].Name == name {
			return &m.Stages[i], true
		}
	}
	return nil, false
}

// StagePowers maps every stage name to its total power.
func (m *Model) StagePowers() map[string]types.Watts {
	out := make(map[string]types.Watts, len(m.Stages))
	for i := range m.Stages {
		out[m.Stages[i].Name] = m.Stages[i].Power()
	}
	return out
}

// Total is the load summed over every stage.
func (m *Model) Total() types.Watts {
	var sum types.Watts
	for i := range m.Stages {
		sum += m.Stages[i].Power()
	}
	return sum
}

// Clone returns a deep copy that shares nothing mutable with m.
func (m *Model) Clone() *Model {
	out := &Model{Stages: make([]Stage, len(m.Stages))}
	for i, s := range m.Stages {
		s.Components = slices.Clone(s.Components)
		for j := range s.Components {
			if p := s.Components[j].Part; p != nil {
				s.Components[j].Part = p.clone()
			}
		}
		out.Stages[i] = s
	}
	return out
}

// Sort orders stages from warm to cold (by HighT, then name) and the
// components of each stage by name.
func (m *Model) Sort() {
	slices.SortStableFunc(m.Stages, func(a, b Stage) int {
		if c := cmp.Compare(b.HighT, a.HighT); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	for i := range m.Stages {
		slices.SortStableFunc(m.Stages[i].Components, func(a, b Component) int {
			return cmp.Compare(a.Name, b.Name)
		})
	}
}
