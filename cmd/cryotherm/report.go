package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/ja7ad/cryotherm/pkg/cryo"
	"github.com/ja7ad/cryotherm/pkg/optimize"
	"github.com/ja7ad/cryotherm/pkg/thermal"
	"github.com/ja7ad/cryotherm/pkg/types"
)

// outputs are the optional report files shared by power, holdtime and optimize.
type outputs struct {
	csvPath  string
	jsonPath string
	htmlPath string
}

type componentRow struct {
	Stage          string      `json:"stage"`
	Component      string      `json:"component"`
	Kind           string      `json:"kind"`
	Number         int         `json:"number"`
	PowerPerPart   types.Watts `json:"power_per_part_w"`
	PowerTotal     types.Watts `json:"power_total_w"`
	ProvidingVapor bool        `json:"providing_vapor"`
}

type stageRow struct {
	Stage string       `json:"stage"`
	LowT  types.Kelvin `json:"low_t_k"`
	HighT types.Kelvin `json:"high_t_k"`
	Power types.Watts  `json:"power_w"`
}

// report is everything a run can render. Sections left empty are skipped.
type report struct {
	Title       string            `json:"title"`
	At          time.Time         `json:"time"`
	RunID       string            `json:"run_id,omitempty"`
	Stages      []stageRow        `json:"stages"`
	Components  []componentRow    `json:"components"`
	Total       types.Watts       `json:"total_w"`
	Diagnostics []cryo.Diagnostic `json:"diagnostics,omitempty"`
	Best        *optimize.Point   `json:"optimum,omitempty"`
	Model       *thermal.File     `json:"model"`
}

func newReport(title string, m *thermal.Model) *report {
	r := &report{Title: title, At: time.Now(), Total: m.Total(), Model: thermal.NewFile(m)}
	for _, s := range m.Stages {
		r.Stages = append(r.Stages, stageRow{
			Stage: s.Name,
			LowT:  types.Kelvin(s.LowT),
			HighT: types.Kelvin(s.HighT),
			Power: s.Power(),
		})
		for _, c := range s.Components {
			r.Components = append(r.Components, componentRow{
				Stage:          s.Name,
				Component:      c.Name,
				Kind:           string(c.Part.Kind()),
				Number:         c.Number,
				PowerPerPart:   c.PowerPerPart,
				PowerTotal:     c.PowerTotal,
				ProvidingVapor: c.ProvidingVapor,
			})
		}
	}
	return r
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printStages(w io.Writer, r *report) {
	tw := newTable(w)
	fmt.Fprintln(tw, "STAGE\tLOW T\tHIGH T\tPOWER")
	fmt.Fprintln(tw, "-----\t-----\t------\t-----")
	for _, s := range r.Stages {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Stage, s.LowT.Humanized(), s.HighT.Humanized(), s.Power.Humanized())
	}
	fmt.Fprintf(tw, "total\t\t\t%s\n", r.Total.Humanized())
	tw.Flush()
}

func printComponents(w io.Writer, r *report) {
	tw := newTable(w)
	fmt.Fprintln(tw, "STAGE\tCOMPONENT\tTYPE\tN\tPER PART\tTOTAL\tVAPOR")
	fmt.Fprintln(tw, "-----\t---------\t----\t-\t--------\t-----\t-----")
	for _, c := range r.Components {
		vapor := ""
		if c.ProvidingVapor {
			vapor = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			c.Stage, c.Component, c.Kind, c.Number, c.PowerPerPart.Humanized(), c.PowerTotal.Humanized(), vapor)
	}
	tw.Flush()
}

func printDiagnostics(w io.Writer, diags []cryo.Diagnostic) {
	tw := newTable(w)
	for _, d := range diags {
		fmt.Fprintf(tw, "%s\t%.6g\n", d.Name, d.Value)
	}
	tw.Flush()
}

// write emits every requested report file.
func (o outputs) write(r *report) error {
	if o.csvPath != "" {
		if err := writeFile(o.csvPath, func(w io.Writer) error { return writeCSV(w, r) }); err != nil {
			return fmt.Errorf("csv report: %w", err)
		}
	}
	if o.jsonPath != "" {
		if err := writeFile(o.jsonPath, func(w io.Writer) error { return writeJSON(w, r) }); err != nil {
			return fmt.Errorf("json report: %w", err)
		}
	}
	if o.htmlPath != "" {
		if err := writeFile(o.htmlPath, func(w io.Writer) error { return writeHTML(w, r) }); err != nil {
			return fmt.Errorf("html report: %w", err)
		}
	}
	return nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeCSV(w io.Writer, r *report) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"stage", "component", "type", "number", "power_per_part_w", "power_total_w", "providing_vapor"})
	for _, c := range r.Components {
		_ = cw.Write([]string{
			c.Stage, c.Component, c.Kind, strconv.Itoa(c.Number),
			fmtFloat(c.PowerPerPart.Float()), fmtFloat(c.PowerTotal.Float()),
			strconv.FormatBool(c.ProvidingVapor),
		})
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeHTML(w io.Writer, r *report) error {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, r); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func writeGridCSV(w io.Writer, points []optimize.Point) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"vcs2_k", "vcs1_k", "mismatch_w"})
	for _, p := range points {
		_ = cw.Write([]string{fmtFloat(p.VCS2), fmtFloat(p.VCS1), fmtFloat(p.Mismatch)})
	}
	cw.Flush()
	return cw.Error()
}

func fmtFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

var tpl = template.Must(template.New("rep").Parse(`<!doctype html>
<html lang="en"><meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{font-family:system-ui,Segoe UI,Roboto,Helvetica,Arial,sans-serif;margin:20px}
h1,h2{margin:0 0 8px}
table{border-collapse:collapse;width:100%;font-size:14px;margin-bottom:16px}
th,td{border:1px solid #ddd;padding:6px 8px;text-align:right}
th:first-child,td:first-child,th:nth-child(2),td:nth-child(2){text-align:left}
.small{color:#555}
</style>

<h1><a href="https://github.com/ja7ad/cryotherm" target="_blank" rel="noopener noreferrer" style="color:inherit;text-decoration:none;">{{.Title}}</a></h1>

<p class="small">
{{.At.Format "2006-01-02 15:04:05"}}{{if .RunID}} &nbsp;|&nbsp; run {{.RunID}}{{end}} &nbsp;|&nbsp;
Total: {{.Total.Humanized}}
</p>

{{if .Best}}
<h2>Optimum</h2>
<ul>
<li>VCS 2: {{printf "%.2f" .Best.VCS2}} K</li>
<li>VCS 1: {{printf "%.2f" .Best.VCS1}} K</li>
<li>Mismatch: {{printf "%.4g" .Best.Mismatch}} W</li>
</ul>
{{end}}

{{if .Diagnostics}}
<h2>Hold time</h2>
<table>
<tbody>
{{range .Diagnostics}}
<tr><td>{{.Name}}</td><td>{{printf "%.6g" .Value}}</td></tr>
{{end}}
</tbody>
</table>
{{end}}

<h2>Stages</h2>
<table>
<thead><tr><th>stage</th><th>low T</th><th>high T</th><th>power</th></tr></thead>
<tbody>
{{range .Stages}}
<tr><td>{{.Stage}}</td><td>{{.LowT.Humanized}}</td><td>{{.HighT.Humanized}}</td><td>{{.Power.Humanized}}</td></tr>
{{end}}
</tbody>
</table>

<h2>Components</h2>
<table>
<thead>
<tr><th>stage</th><th>component</th><th>type</th><th>N</th><th>per part</th><th>total</th><th>vapor</th></tr>
</thead>
<tbody>
{{range .Components}}
<tr>
<td>{{.Stage}}</td><td>{{.Component}}</td><td>{{.Kind}}</td><td>{{.Number}}</td>
<td>{{.PowerPerPart.Humanized}}</td><td>{{.PowerTotal.Humanized}}</td><td>{{if .ProvidingVapor}}yes{{end}}</td>
</tr>
{{end}}
</tbody>
</table>
</html>`))
