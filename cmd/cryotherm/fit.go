package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/ja7ad/cryotherm/pkg/fit"
	"github.com/ja7ad/cryotherm/pkg/material"
)

type fitOpts struct {
	material  string
	erfLoc    float64
	lowOrder  int
	highOrder int
}

func newFitCmd() *cobra.Command {
	var o fitOpts
	cmd := &cobra.Command{
		Use:   "fit SAMPLES.csv",
		Short: "Fit measured (T, k) samples and print a compiled table row",
		Long: `fit reads two-column CSV samples of temperature [K] and conductivity
[W/(m·K)]. Samples below --erf-loc are fitted as a polynomial in T of k/T,
the rest as a polynomial in log10 T of log10 k, and the pair is printed as a
comppoly row that --table accepts. Lines starting with # and a non-numeric
header are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error { return runFit(a, o, args[0], os.Stdout) })
		},
	}
	cmd.Flags().StringVar(&o.material, "material", "sample", "material name written to the row")
	cmd.Flags().Float64Var(&o.erfLoc, "erf-loc", 20, "crossover temperature between the low and high branches [K]")
	cmd.Flags().IntVar(&o.lowOrder, "low-order", 3, "polynomial order of the low-temperature branch")
	cmd.Flags().IntVar(&o.highOrder, "high-order", 3, "polynomial order of the high-temperature branch")
	return cmd
}

func runFit(a *app, o fitOpts, path string, w io.Writer) error {
	ts, ks, err := readSamples(path)
	if err != nil {
		return err
	}
	p, err := fit.DualFit(ts, ks, o.erfLoc, o.lowOrder, o.highOrder)
	if err != nil {
		return err
	}

	rec, err := material.NewRecord(material.Record{
		Material: o.material,
		Type:     fit.CompPoly,
		TLow:     floats.Min(ts),
		THigh:    floats.Max(ts),
		Params:   p,
	})
	if err != nil {
		return err
	}

	for i, t := range ts {
		if ks[i] > 0 {
			rec.PercErr = math.Max(rec.PercErr, 100*math.Abs(rec.Eval(t)-ks[i])/ks[i])
		}
	}
	a.log.Info("samples fitted",
		zap.String("material", o.material),
		zap.Int("samples", len(ts)),
		zap.Float64("max_error_pct", rec.PercErr),
	)
	return material.WriteTable(w, rec)
}

func readSamples(path string) (ts, ks []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("samples: %w", err)
		}
		if len(row) < 2 {
			return nil, nil, fmt.Errorf("samples: line %d: want T,k", line)
		}
		t, terr := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		k, kerr := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if terr != nil || kerr != nil {
			if line == 1 {
				continue
			}
			return nil, nil, fmt.Errorf("samples: line %d: %q is not numeric", line, strings.Join(row, ","))
		}
		ts = append(ts, t)
		ks = append(ks, k)
	}
	if len(ts) < 2 {
		return nil, nil, fmt.Errorf("samples: %w", fit.ErrShortData)
	}
	return ts, ks, nil
}
