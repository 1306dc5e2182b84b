package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ja7ad/cryotherm/pkg/conductivity"
	"github.com/ja7ad/cryotherm/pkg/config"
	"github.com/ja7ad/cryotherm/pkg/cryo"
	"github.com/ja7ad/cryotherm/pkg/logging"
	"github.com/ja7ad/cryotherm/pkg/material"
	"github.com/ja7ad/cryotherm/pkg/metrics"
)

// app is what every subcommand shares: merged config, logger, metrics and
// the conductivity evaluator over the loaded fits.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Recorder
	eval    *conductivity.Evaluator
	est     *cryo.Estimator
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	a := &app{
		cfg:     cfg,
		log:     log,
		metrics: metrics.New(),
		est:     cryo.New(&cfg.Cryo),
	}

	var table *material.Table
	if cfg.Table != "" {
		if table, err = material.LoadTable(cfg.Table, log); err != nil {
			return nil, err
		}
		log.Debug("fit table loaded", zap.String("path", cfg.Table), zap.Int("materials", table.Len()))
	}
	opts := []conductivity.Option{conductivity.WithLogger(log), conductivity.WithMetrics(a.metrics)}
	if cfg.Library != "" {
		lib, err := material.LoadLibrary(cfg.Library)
		if err != nil {
			return nil, err
		}
		log.Debug("fit library loaded", zap.String("path", cfg.Library), zap.Int("materials", len(lib.Materials())))
		opts = append(opts, conductivity.WithLibrary(lib))
	}
	a.eval = conductivity.New(table, opts...)
	return a, nil
}

// close flushes the logger and writes the metrics textfile when configured.
func (a *app) close() error {
	var errs []error
	if a.cfg.MetricsTextfile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
			errs = append(errs, fmt.Errorf("metrics textfile: %w", err))
		}
	}
	// stderr cannot be synced on most terminals
	_ = a.log.Sync()
	return errors.Join(errs...)
}

// withApp runs fn with a fresh app and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(a *app) error) (err error) {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(); err == nil {
			err = cerr
		}
	}()
	return fn(a)
}
