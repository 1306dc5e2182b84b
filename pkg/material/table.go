package material

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ja7ad/cryotherm/pkg/fit"
)

// Table is the compiled single-fit-per-material table. It is read-only
// after construction and safe for concurrent use.
type Table struct {
	records map[string]Record
	names   []string
}

// NewTable builds a table from records assembled in code. Each record is
// validated the same way as a parsed row.
func NewTable(records ...Record) (*Table, error) {
	t := &Table{records: make(map[string]Record, len(records))}
	for _, r := range records {
		nr, err := r.normalize()
		if err != nil {
			return nil, err
		}
		if _, dup := t.records[nr.Material]; dup {
			return nil, fmt.Errorf("%w: duplicate material %q", ErrMalformedRecord, nr.Material)
		}
		t.records[nr.Material] = nr
		t.names = append(t.names, nr.Material)
	}
	slices.Sort(t.names)
	return t, nil
}

// LoadTable reads a compiled table from a CSV file.
func LoadTable(path string, log *zap.Logger) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()
	return ParseTable(f, log)
}

// ParseTable reads a compiled table. Columns are matched by header:
// "Material Name", "Fit Type", "Low Temp", "High Temp", optional
// "Perc Err" and "erf param", then one single-letter column per parameter
// slot. Lowercase letters fill the low-regime group, uppercase the high
// group, each at the index of the letter in the alphabet. Empty and "^"
// cells read as zero. Every row is validated before the table is returned.
func ParseTable(r io.Reader, log *zap.Logger) (*Table, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrMalformedTable, err)
	}
	lay, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	t := &Table{records: make(map[string]Record)}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedTable, line, err)
		}
		if blank(row) {
			continue
		}
		rec, err := lay.record(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if _, dup := t.records[rec.Material]; dup {
			log.Warn("duplicate material row ignored",
				zap.String("material", rec.Material), zap.Int("line", line))
			continue
		}
		t.records[rec.Material] = rec
		t.names = append(t.names, rec.Material)
	}
	slices.Sort(t.names)
	return t, nil
}

// Parameters returns the fit record stored for material.
func (t *Table) Parameters(material string) (Record, error) {
	r, ok := t.records[material]
	if !ok {
		return Record{}, fmt.Errorf("%w: %q", ErrUnknownMaterial, material)
	}
	r.Params = r.Params.Clone()
	return r, nil
}

// Materials lists the material names in sorted order.
func (t *Table) Materials() []string { return slices.Clone(t.names) }

// Len returns the number of materials.
func (t *Table) Len() int { return len(t.names) }

type paramCol struct {
	col, idx int
}

type layout struct {
	name, typ, lo, hi, perc, erf int
	low, high                    []paramCol
}

func parseHeader(header []string) (layout, error) {
	lay := layout{name: -1, typ: -1, lo: -1, hi: -1, perc: -1, erf: -1}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch strings.ToLower(h) {
		case "material name":
			lay.name = i
			continue
		case "fit type":
			lay.typ = i
			continue
		case "low temp":
			lay.lo = i
			continue
		case "high temp":
			lay.hi = i
			continue
		case "perc err":
			lay.perc = i
			continue
		case "erf param":
			lay.erf = i
			continue
		}
		if len(h) != 1 {
			continue
		}
		switch c := h[0]; {
		case c >= 'a' && c <= 'z':
			lay.low = append(lay.low, paramCol{col: i, idx: int(c - 'a')})
		case c >= 'A' && c <= 'Z':
			lay.high = append(lay.high, paramCol{col: i, idx: int(c - 'A')})
		}
	}
	for _, req := range []struct {
		col string
		idx int
	}{
		{"Material Name", lay.name}, {"Fit Type", lay.typ}, {"Low Temp", lay.lo}, {"High Temp", lay.hi},
	} {
		if req.idx < 0 {
			return layout{}, fmt.Errorf("%w: missing %q column", ErrMalformedTable, req.col)
		}
	}
	return lay, nil
}

func (l layout) record(row []string) (Record, error) {
	name := strings.TrimSpace(cell(row, l.name))
	if name == "" {
		return Record{}, fmt.Errorf("%w: missing material name", ErrMalformedRecord)
	}
	typ, err := fit.ParseType(cell(row, l.typ))
	if err != nil {
		return Record{}, fmt.Errorf("%w: %s: %w: %q", ErrMalformedRecord, name, err, cell(row, l.typ))
	}

	rec := Record{Material: name, Type: typ}
	for _, f := range []struct {
		col int
		dst *float64
	}{
		{l.lo, &rec.TLow}, {l.hi, &rec.THigh}, {l.erf, &rec.Params.ErfLoc},
	} {
		if f.col < 0 {
			continue
		}
		if *f.dst, err = number(cell(row, f.col)); err != nil {
			return Record{}, fmt.Errorf("%w: %s: %w", ErrMalformedRecord, name, err)
		}
	}
	// compiled tables carry "??" when no error estimate exists
	if v, err := number(cell(row, l.perc)); err == nil {
		rec.PercErr = v
	}
	if rec.Params.Low, err = l.group(row, l.low); err != nil {
		return Record{}, fmt.Errorf("%w: %s: %w", ErrMalformedRecord, name, err)
	}
	if rec.Params.High, err = l.group(row, l.high); err != nil {
		return Record{}, fmt.Errorf("%w: %s: %w", ErrMalformedRecord, name, err)
	}
	return rec.normalize()
}

func (l layout) group(row []string, cols []paramCol) ([]float64, error) {
	var out []float64
	for _, pc := range cols {
		v, err := number(cell(row, pc.col))
		if err != nil {
			return nil, err
		}
		if v == 0 {
			continue
		}
		if pc.idx >= len(out) {
			out = append(out, make([]float64, pc.idx+1-len(out))...)
		}
		out[pc.idx] = v
	}
	return out, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func number(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "^" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
