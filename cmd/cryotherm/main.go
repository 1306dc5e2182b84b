package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ja7ad/cryotherm/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRoot().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "cryotherm: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "cryotherm",
		Short: "Cryostat heat-load, hold-time and shield temperature tool",
		Long: `cryotherm estimates the static heat load conducted through the supports,
tubes and cables of a multi-stage cryostat from temperature-dependent thermal
conductivity fits, balances the boil-off vapor cooling of the two vapor-cooled
shields against that load and estimates how long the liquid helium lasts.

Conductivity fits come from a compiled CSV table (--table) and/or a
per-material YAML library (--library). Models are JSON files of components
keyed by stage plus per-stage temperatures.

Every flag can also be set in a YAML file (--config) or through CRYOTHERM_*
environment variables, e.g. CRYOTHERM_CRYO_HELIUM_CAPACITY=250.

Examples:
  cryotherm conductivity --table fits.csv G10 4 77 300
  cryotherm conductivity --table fits.csv G10 --integral 4,300
  cryotherm power --table fits.csv --model spider.json --html power.html
  cryotherm holdtime --table fits.csv --model spider.json
  cryotherm optimize --table fits.csv --model spider.json --points 20 --grid-csv grid.csv
  cryotherm fit --material G10 --erf-loc 20 samples.csv`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newConductivityCmd(),
		newPowerCmd(),
		newHoldTimeCmd(),
		newOptimizeCmd(),
		newFitCmd(),
	)
	return root
}
