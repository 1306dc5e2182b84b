package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ja7ad/cryotherm/pkg/thermal"
)

type modelOpts struct {
	model   string
	outPath string
	outputs
}

func addModelFlags(cmd *cobra.Command, o *modelOpts) {
	cmd.Flags().StringVarP(&o.model, "model", "m", "", "thermal model JSON file")
	cmd.Flags().StringVarP(&o.outPath, "out", "o", "", "write the model with computed powers to this JSON file")
	cmd.Flags().StringVar(&o.csvPath, "csv", "", "write per-component powers to CSV file")
	cmd.Flags().StringVar(&o.jsonPath, "json", "", "write the full report to JSON file")
	cmd.Flags().StringVar(&o.htmlPath, "html", "", "write the full report to HTML file")
	_ = cmd.MarkFlagRequired("model")
}

func newPowerCmd() *cobra.Command {
	var o modelOpts
	cmd := &cobra.Command{
		Use:   "power",
		Short: "Compute the conducted power of every component and stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error { return runPower(a, o) })
		},
	}
	addModelFlags(cmd, &o)
	return cmd
}

// aggregate loads o.model and fills in its powers.
func aggregate(a *app, o modelOpts) (*thermal.Model, error) {
	m, err := thermal.LoadModel(o.model)
	if err != nil {
		return nil, err
	}
	agg, err := thermal.Aggregate(a.eval, m)
	if err != nil {
		return nil, err
	}
	a.log.Info("model aggregated",
		zap.String("model", o.model),
		zap.Int("stages", len(agg.Stages)),
		zap.Float64("total_w", agg.Total().Float()),
	)
	return agg, nil
}

func saveModel(path string, m *thermal.Model) error {
	if path == "" {
		return nil
	}
	return writeFile(path, func(w io.Writer) error { return thermal.EncodeModel(w, m) })
}

func runPower(a *app, o modelOpts) error {
	m, err := aggregate(a, o)
	if err != nil {
		return err
	}
	r := newReport("Cryotherm Power Report", m)

	printComponents(os.Stdout, r)
	fmt.Println()
	printStages(os.Stdout, r)

	if err := saveModel(o.outPath, m); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	return o.write(r)
}
