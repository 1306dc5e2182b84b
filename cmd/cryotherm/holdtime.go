package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newHoldTimeCmd() *cobra.Command {
	var o modelOpts
	cmd := &cobra.Command{
		Use:   "holdtime",
		Short: "Estimate vapor cooling and liquid helium hold time at the model's temperatures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error { return runHoldTime(a, o) })
		},
	}
	addModelFlags(cmd, &o)
	return cmd
}

func runHoldTime(a *app, o modelOpts) error {
	m, err := aggregate(a, o)
	if err != nil {
		return err
	}
	est, err := a.est.EstimateModel(m)
	if err != nil {
		return err
	}
	a.metrics.HoldTime(est.CryoHoldTime)
	a.log.Info("hold time estimated",
		zap.Float64("days", est.CryoHoldTime),
		zap.Float64("mismatch_w", est.Mismatch),
	)

	r := newReport("Cryotherm Hold Time Report", m)
	r.Diagnostics = est.Diagnostics()

	printStages(os.Stdout, r)
	fmt.Println()
	printDiagnostics(os.Stdout, r.Diagnostics)
	fmt.Printf("\nVCS mismatch: %.4g W\n", est.Mismatch)

	if err := saveModel(o.outPath, m); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	return o.write(r)
}
