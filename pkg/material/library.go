package material

import (
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ja7ad/cryotherm/pkg/fit"
)

// Point is a single measured (temperature, conductivity) pair.
type Point struct {
	Temperature  float64 `yaml:"temperature"`
	Conductivity float64 `yaml:"conductivity"`
}

// Material carries every fit known for one substance.
type Material struct {
	Name     string
	RoomTemp *Point
	Fits     []Record
}

// FitByName returns the fit named material_source, or false when absent.
func (m *Material) FitByName(name string) (Record, bool) {
	for _, r := range m.Fits {
		if r.Name() == name {
			return r, true
		}
	}
	return Record{}, false
}

// Library is the multi-fit material store loaded from YAML. Interpolations
// are built on first use and cached; the library is safe for concurrent use.
type Library struct {
	materials map[string]*Material
	names     []string

	mu     sync.Mutex
	interp map[interpKey]*interpEntry
}

type interpKey struct {
	material, preferred string
}

type interpEntry struct {
	once sync.Once
	ip   *Interpolation
	err  error
}

type libraryFile struct {
	Materials []struct {
		Name     string `yaml:"name"`
		RoomTemp *Point `yaml:"room_temperature"`
		Fits     []struct {
			Source    string     `yaml:"source"`
			FitType   string     `yaml:"fit_type"`
			Range     []float64  `yaml:"range"`
			Low       []float64  `yaml:"low"`
			High      []float64  `yaml:"high"`
			ErfLoc    float64    `yaml:"erf_loc"`
			Steepness float64    `yaml:"steepness"`
			PercErr   float64    `yaml:"perc_err"`
			Reference string     `yaml:"reference"`
		} `yaml:"fits"`
	} `yaml:"materials"`
}

// LoadLibrary reads a fit library from a YAML file.
func LoadLibrary(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	defer f.Close()
	return ParseLibrary(f)
}

// ParseLibrary decodes and validates a YAML fit library.
func ParseLibrary(r io.Reader) (*Library, error) {
	var doc libraryFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTable, err)
	}

	var mats []*Material
	for _, m := range doc.Materials {
		mat := &Material{Name: m.Name, RoomTemp: m.RoomTemp}
		for _, f := range m.Fits {
			if len(f.Range) != 2 {
				return nil, fmt.Errorf("%w: %s_%s: range needs two temperatures", ErrMalformedRecord, m.Name, f.Source)
			}
			typ, err := fit.ParseType(f.FitType)
			if err != nil {
				return nil, fmt.Errorf("%w: %s_%s: %w: %q", ErrMalformedRecord, m.Name, f.Source, err, f.FitType)
			}
			mat.Fits = append(mat.Fits, Record{
				Material:  m.Name,
				Source:    f.Source,
				Type:      typ,
				TLow:      f.Range[0],
				THigh:     f.Range[1],
				Params:    fit.Params{Low: f.Low, High: f.High, ErfLoc: f.ErfLoc, Steepness: f.Steepness},
				PercErr:   f.PercErr,
				Reference: f.Reference,
			})
		}
		mats = append(mats, mat)
	}
	return NewLibrary(mats...)
}

// NewLibrary validates materials assembled in code.
func NewLibrary(materials ...*Material) (*Library, error) {
	l := &Library{
		materials: make(map[string]*Material, len(materials)),
		interp:    make(map[interpKey]*interpEntry),
	}
	for _, m := range materials {
		if m.Name == "" {
			return nil, fmt.Errorf("%w: missing material name", ErrMalformedRecord)
		}
		if _, dup := l.materials[m.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate material %q", ErrMalformedRecord, m.Name)
		}
		cp := &Material{Name: m.Name, Fits: make([]Record, 0, len(m.Fits))}
		if m.RoomTemp != nil {
			rt := *m.RoomTemp
			cp.RoomTemp = &rt
		}
		seen := make(map[string]bool, len(m.Fits))
		for _, r := range m.Fits {
			r.Material = m.Name
			nr, err := r.normalize()
			if err != nil {
				return nil, err
			}
			if seen[nr.Name()] {
				return nil, fmt.Errorf("%w: duplicate fit %q", ErrMalformedRecord, nr.Name())
			}
			seen[nr.Name()] = true
			cp.Fits = append(cp.Fits, nr)
		}
		l.materials[m.Name] = cp
		l.names = append(l.names, m.Name)
	}
	slices.Sort(l.names)
	return l, nil
}

// Material returns the named material.
func (l *Library) Material(name string) (*Material, error) {
	m, ok := l.materials[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	return m, nil
}

// Materials lists material names in sorted order.
func (l *Library) Materials() []string { return slices.Clone(l.names) }

// FitByName returns the named fit of a material.
func (l *Library) FitByName(material, name string) (Record, bool) {
	m, ok := l.materials[material]
	if !ok {
		return Record{}, false
	}
	return m.FitByName(name)
}

// Interpolation returns the cached interpolation of material, building it
// on first use. An empty preferred name means no preferred fit. The build
// runs outside the library lock; concurrent callers for the same key wait
// on that key only and share one instance.
func (l *Library) Interpolation(material, preferred string) (*Interpolation, error) {
	m, err := l.Material(material)
	if err != nil {
		return nil, err
	}
	key := interpKey{material, preferred}
	l.mu.Lock()
	e, ok := l.interp[key]
	if !ok {
		e = &interpEntry{}
		l.interp[key] = e
	}
	l.mu.Unlock()

	e.once.Do(func() {
		e.ip, e.err = m.Interpolate(preferred)
	})
	return e.ip, e.err
}
