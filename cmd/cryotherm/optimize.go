package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ja7ad/cryotherm/pkg/cryo"
	"github.com/ja7ad/cryotherm/pkg/optimize"
	"github.com/ja7ad/cryotherm/pkg/thermal"
)

type optimizeOpts struct {
	modelOpts
	gridCSV string
}

func newOptimizeCmd() *cobra.Command {
	var o optimizeOpts
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Grid-search the VCS 1 and VCS 2 temperatures that balance vapor cooling and load",
		Long: `optimize evaluates every pair of VCS 2 and VCS 1 temperatures on a uniform
grid (see --points, --vcs2-min/max, --vcs1-min/max), re-computing all stage
powers at each pair, and keeps the pair where the vapor cooling capacity of
both shields best matches their conducted load. The model must contain the
stages "VCS 2", "VCS 1" and "4K - LHe".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error { return runOptimize(cmd, a, o) })
		},
	}
	addModelFlags(cmd, &o.modelOpts)
	cmd.Flags().StringVar(&o.gridCSV, "grid-csv", "", "write every grid point and its mismatch to CSV file")
	return cmd
}

func runOptimize(cmd *cobra.Command, a *app, o optimizeOpts) error {
	m, err := thermal.LoadModel(o.model)
	if err != nil {
		return err
	}

	opt := optimize.New(a.eval, a.est, a.cfg.Optimize,
		optimize.WithLogger(a.log),
		optimize.WithMetrics(a.metrics),
	)
	res, err := opt.Run(cmd.Context(), m)
	if err != nil {
		return err
	}

	fmt.Printf("run %s\n", res.RunID)
	fmt.Printf("optimum: VCS 2 = %.2f K, VCS 1 = %.2f K, mismatch %.4g W (initial %.4g W)\n\n",
		res.Best.VCS2, res.Best.VCS1, res.Best.Mismatch, res.Initial.Mismatch)

	r := newReport("Cryotherm Optimizer Report", res.Model)
	r.RunID = res.RunID.String()
	r.Best = &res.Best
	printStages(os.Stdout, r)

	est, err := a.est.EstimateModel(res.Model)
	switch {
	case err == nil:
		a.metrics.HoldTime(est.CryoHoldTime)
		r.Diagnostics = est.Diagnostics()
		fmt.Println()
		printDiagnostics(os.Stdout, r.Diagnostics)
	case errors.Is(err, cryo.ErrNonPositiveLoad):
		a.log.Warn("hold time not estimated", zap.Error(err))
	default:
		return err
	}

	if o.gridCSV != "" {
		if err := writeFile(o.gridCSV, func(w io.Writer) error { return writeGridCSV(w, res.Points()) }); err != nil {
			return fmt.Errorf("grid csv: %w", err)
		}
	}
	if err := saveModel(o.outPath, res.Model); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	return o.write(r)
}
