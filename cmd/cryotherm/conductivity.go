package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ja7ad/cryotherm/pkg/conductivity"
)

type conductivityOpts struct {
	fit         string
	interpolate bool
	integral    []float64
}

func newConductivityCmd() *cobra.Command {
	var o conductivityOpts
	cmd := &cobra.Command{
		Use:   "conductivity MATERIAL [TEMP...]",
		Short: "Evaluate k(T) of a material, or its integral over a range",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error { return runConductivity(a, o, args) })
		},
	}
	cmd.Flags().StringVar(&o.fit, "fit", "", "library fit name (material_source); the preferred fit with --interpolate")
	cmd.Flags().BoolVar(&o.interpolate, "interpolate", false, "use the interpolation stitched across the library fits")
	cmd.Flags().Float64SliceVar(&o.integral, "integral", nil, "integrate k over LOW,HIGH Kelvin")
	return cmd
}

func runConductivity(a *app, o conductivityOpts, args []string) error {
	src := conductivity.Source{Material: args[0], Fit: o.fit, Interpolate: o.interpolate}

	temps := make([]float64, 0, len(args)-1)
	for _, s := range args[1:] {
		t, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("temperature %q: %w", s, err)
		}
		temps = append(temps, t)
	}
	if len(temps) == 0 && o.integral == nil {
		return fmt.Errorf("give at least one temperature or --integral LOW,HIGH")
	}

	lo, hi, err := a.eval.ValidRange(src)
	if err != nil {
		return err
	}
	fmt.Printf("%s valid from %g K to %g K\n\n", src, lo, hi)

	tw := newTable(os.Stdout)
	if len(temps) > 0 {
		fmt.Fprintln(tw, "T (K)\tk (W/m·K)")
		fmt.Fprintln(tw, "-----\t---------")
		for _, t := range temps {
			k, err := a.eval.Conductivity(t, src)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%g\t%.6g\n", t, k)
		}
		tw.Flush()
	}

	if o.integral != nil {
		if len(o.integral) != 2 {
			return fmt.Errorf("--integral takes LOW,HIGH, got %d values", len(o.integral))
		}
		v, err := a.eval.Integral(o.integral[0], o.integral[1], src)
		if err != nil {
			return err
		}
		fmt.Printf("\n∫k dT from %g K to %g K = %.6g W/m\n", o.integral[0], o.integral[1], v)
	}
	return nil
}
