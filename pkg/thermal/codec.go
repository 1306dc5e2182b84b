package thermal

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/ja7ad/cryotherm/pkg/conductivity"
	"github.com/ja7ad/cryotherm/pkg/types"
)

// StageTemps is the "stage_details" entry of a stage.
type StageTemps struct {
	LowT  float64 `json:"lowT"`
	HighT float64 `json:"highT"`
}

// File is the on-disk model: components keyed by stage then component name,
// stage temperatures keyed by stage, and per-stage totals on output.
type File struct {
	Components   map[string]map[string]ComponentJSON `json:"components"`
	StageDetails map[string]StageTemps               `json:"stage_details"`
	TotalPower   map[string]float64                  `json:"total_power,omitempty"`
}

// ComponentJSON carries the component keys used by the thermal model GUI.
type ComponentJSON struct {
	Type        string `json:"Type,omitempty"`
	Material    string `json:"Material,omitempty"`
	FitChoice   string `json:"Fit Choice,omitempty"`
	Interpolate bool   `json:"Interpolate,omitempty"`

	OD     *float64 `json:"OD (m),omitempty"`
	ID     *float64 `json:"ID (m),omitempty"`
	Length *float64 `json:"Length (m),omitempty"`
	AOverL *float64 `json:"A/L (m),omitempty"`

	CasingMaterial       string `json:"Casing Material,omitempty"`
	CasingFitChoice      string `json:"Casing Fit Choice,omitempty"`
	CasingInterpolate    bool   `json:"Casing Interpolate,omitempty"`
	InsulatorMaterial    string `json:"Insulator Material,omitempty"`
	InsulatorFitChoice   string `json:"Insulator Fit Choice,omitempty"`
	InsulatorInterpolate bool   `json:"Insulator Interpolate,omitempty"`
	CoreMaterial         string `json:"Core Material,omitempty"`
	CoreFitChoice        string `json:"Core Fit Choice,omitempty"`
	CoreInterpolate      bool   `json:"Core Interpolate,omitempty"`

	CaseOD      *float64 `json:"Case OD (m),omitempty"`
	InsulatorOD *float64 `json:"Insulator OD (m),omitempty"`
	CoreOD      *float64 `json:"Core OD (m),omitempty"`

	Number         *float64 `json:"Number,omitempty"`
	PowerPerPart   *float64 `json:"Power per Part (W),omitempty"`
	PowerTotal     *float64 `json:"Power Total (W),omitempty"`
	ProvidingVapor bool     `json:"Providing Vapor,omitempty"`

	// Keys of the older dash GUI, read only. "number" and "material" need no
	// alias: encoding/json matches them to Number and Material.
	LegacyOD      *float64 `json:"OD,omitempty"`
	LegacyID      *float64 `json:"ID,omitempty"`
	LegacyLength  *float64 `json:"length,omitempty"`
	LegacyAOverL  *float64 `json:"A/L,omitempty"`
	LegacyCaseMat string   `json:"mat_C,omitempty"`
	LegacyInsMat  string   `json:"mat_I,omitempty"`
	LegacyInsOD   *float64 `json:"OD_I,omitempty"`
	LegacyCoreOD  *float64 `json:"OD_c,omitempty"`
}

// LoadModel reads a model file from disk.
func LoadModel(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()
	return DecodeModel(f)
}

// DecodeModel parses a model file. Stages are returned warm to cold and
// components sorted by name.
func DecodeModel(r io.Reader) (*Model, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return f.Model()
}

// Model converts the file form into a Model.
func (f *File) Model() (*Model, error) {
	for stage := range f.Components {
		if _, ok := f.StageDetails[stage]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStage, stage)
		}
	}

	m := &Model{}
	for name, st := range f.StageDetails {
		s := Stage{Name: name, LowT: st.LowT, HighT: st.HighT}
		for cname, cj := range f.Components[name] {
			c, err := cj.component(cname)
			if err != nil {
				return nil, fmt.Errorf("stage %q: %w", name, err)
			}
			s.Components = append(s.Components, c)
		}
		m.Stages = append(m.Stages, s)
	}
	m.Sort()
	return m, nil
}

// EncodeModel writes m in file form with per-stage totals.
func EncodeModel(w io.Writer, m *Model) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewFile(m))
}

// NewFile converts m into its file form.
func NewFile(m *Model) *File {
	f := &File{
		Components:   make(map[string]map[string]ComponentJSON, len(m.Stages)),
		StageDetails: make(map[string]StageTemps, len(m.Stages)),
		TotalPower:   make(map[string]float64, len(m.Stages)),
	}
	for i := range m.Stages {
		s := &m.Stages[i]
		f.StageDetails[s.Name] = StageTemps{LowT: s.LowT, HighT: s.HighT}
		f.TotalPower[s.Name] = s.Power().Float()
		comps := make(map[string]ComponentJSON, len(s.Components))
		for _, c := range s.Components {
			comps[c.Name] = componentJSON(c)
		}
		f.Components[s.Name] = comps
	}
	return f
}

// resolveLegacy fills unset keys from their dash GUI aliases. On a coax the
// old "OD" is the case OD and "material" names the core.
func (cj *ComponentJSON) resolveLegacy() {
	orF := func(p, alias *float64) *float64 {
		if p == nil {
			return alias
		}
		return p
	}
	orS := func(s, alias string) string {
		if s == "" {
			return alias
		}
		return s
	}

	cj.Length = orF(cj.Length, cj.LegacyLength)
	cj.AOverL = orF(cj.AOverL, cj.LegacyAOverL)
	if Kind(cj.Type) == KindCoax {
		cj.CaseOD = orF(cj.CaseOD, cj.LegacyOD)
		cj.InsulatorOD = orF(cj.InsulatorOD, cj.LegacyInsOD)
		cj.CoreOD = orF(cj.CoreOD, cj.LegacyCoreOD)
		cj.CasingMaterial = orS(cj.CasingMaterial, cj.LegacyCaseMat)
		cj.InsulatorMaterial = orS(cj.InsulatorMaterial, cj.LegacyInsMat)
		cj.CoreMaterial = orS(cj.CoreMaterial, cj.Material)
		return
	}
	cj.OD = orF(cj.OD, cj.LegacyOD)
	cj.ID = orF(cj.ID, cj.LegacyID)
}

func (cj ComponentJSON) component(name string) (Component, error) {
	cj.resolveLegacy()
	c := Component{Name: name, Number: 1, ProvidingVapor: cj.ProvidingVapor}
	if cj.Number != nil {
		c.Number = int(math.Round(*cj.Number))
	}
	if cj.PowerTotal != nil {
		c.PowerTotal = types.Watts(*cj.PowerTotal)
	}
	if cj.PowerPerPart != nil {
		c.PowerPerPart = types.Watts(*cj.PowerPerPart)
	}

	kind := Kind(cj.Type)
	switch cj.Type {
	case "Component", "Standard":
		kind = KindStandard
	case "":
		switch {
		case cj.OD != nil:
			kind = KindStandard
		case cj.AOverL != nil:
			kind = KindAOverL
		case cj.PowerPerPart != nil:
			kind = KindFixedPower
		}
	}

	switch kind {
	case KindStandard:
		c.Part = Standard{
			Material: source(cj.Material, cj.FitChoice, cj.Interpolate),
			OD:       val(cj.OD), ID: val(cj.ID), Length: val(cj.Length),
		}
	case KindAOverL:
		c.Part = AOverL{Material: source(cj.Material, cj.FitChoice, cj.Interpolate), AOverL: val(cj.AOverL)}
	case KindCoax:
		c.Part = Coax{
			Casing:      source(cj.CasingMaterial, cj.CasingFitChoice, cj.CasingInterpolate),
			Insulator:   source(cj.InsulatorMaterial, cj.InsulatorFitChoice, cj.InsulatorInterpolate),
			Core:        source(cj.CoreMaterial, cj.CoreFitChoice, cj.CoreInterpolate),
			CaseOD:      val(cj.CaseOD),
			InsulatorOD: val(cj.InsulatorOD),
			CoreOD:      val(cj.CoreOD),
			Length:      val(cj.Length),
		}
	case KindFixedPower:
		c.Part = FixedPower{Watts: types.Watts(val(cj.PowerPerPart))}
	default:
		return Component{}, fmt.Errorf("%w: component %q has type %q", ErrUnknownComponentType, name, cj.Type)
	}
	return c, nil
}

func componentJSON(c Component) ComponentJSON {
	num := float64(c.Number)
	ppp, total := c.PowerPerPart.Float(), c.PowerTotal.Float()
	cj := ComponentJSON{
		Number:         &num,
		PowerPerPart:   &ppp,
		PowerTotal:     &total,
		ProvidingVapor: c.ProvidingVapor,
	}
	if c.Part != nil {
		cj.Type = string(c.Part.Kind())
	}
	switch p := c.Part.(type) {
	case Standard:
		cj.Material, cj.FitChoice, cj.Interpolate = fromSource(p.Material)
		cj.OD, cj.ID, cj.Length = &p.OD, &p.ID, &p.Length
	case AOverL:
		cj.Material, cj.FitChoice, cj.Interpolate = fromSource(p.Material)
		cj.AOverL = &p.AOverL
	case Coax:
		cj.CasingMaterial, cj.CasingFitChoice, cj.CasingInterpolate = fromSource(p.Casing)
		cj.InsulatorMaterial, cj.InsulatorFitChoice, cj.InsulatorInterpolate = fromSource(p.Insulator)
		cj.CoreMaterial, cj.CoreFitChoice, cj.CoreInterpolate = fromSource(p.Core)
		cj.CaseOD, cj.InsulatorOD, cj.CoreOD, cj.Length = &p.CaseOD, &p.InsulatorOD, &p.CoreOD, &p.Length
	}
	return cj
}

// source maps the GUI's material keys; "None" is its empty fit choice.
func source(mat, fitChoice string, interpolate bool) conductivity.Source {
	if strings.EqualFold(fitChoice, "none") {
		fitChoice = ""
	}
	return conductivity.Source{Material: mat, Fit: fitChoice, Interpolate: interpolate}
}

func fromSource(s conductivity.Source) (string, string, bool) {
	return s.Material, s.Fit, s.Interpolate
}

func val(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
