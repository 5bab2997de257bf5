package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/unlock/batch"
	"github.com/katalvlaran/unlock/config"
	"github.com/katalvlaran/unlock/observe"
)

// app carries state shared by every subcommand for one invocation.
type app struct {
	configPath string
	check      bool

	cfg      config.Config
	log      *slog.Logger
	observer batch.Observer
	progress *observe.LogObserver

	metrics *http.Server
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "unlock",
		Short:        "Find minimum button presses for unlock-puzzle machines",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	def := config.Default()
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to a YAML config file")
	pf.Int("workers", def.Workers, "concurrent searches (0 = one per CPU)")
	pf.Bool("fail-fast", def.FailFast, "stop on the first failing machine")
	pf.Int("max-states", def.MaxStates, "cap on states per toggle search (0 = none)")
	pf.Int("max-expansions", def.MaxExpansions, "cap on expansions per accumulation search (0 = none)")
	pf.String("log-level", def.Log.Level, "log level: debug, info, warn, error")
	pf.String("log-format", def.Log.Format, "log format: text or json")
	pf.String("metrics-addr", def.Metrics.Addr, "serve Prometheus /metrics on this address")
	pf.BoolVar(&a.check, "check", false, "verify the built-in sample answers before solving")

	root.AddCommand(
		newSolveCmd(a, partToggle),
		newSolveCmd(a, partAccumulate),
		newSolveCmd(a, partToggle|partAccumulate),
	)

	return root
}

// setup resolves configuration (flags > env > file > defaults) and builds
// the logger and observers.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if a.log, err = cfg.Logger(cmd.ErrOrStderr()); err != nil {
		return err
	}
	a.progress = observe.NewLogObserver(a.log, cfg.ProgressInterval)
	meter, err := observe.NewMeterObserver(nil)
	if err != nil {
		return err
	}
	observers := []batch.Observer{a.progress, meter}

	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		prom, err := observe.NewPromObserver(reg)
		if err != nil {
			return err
		}
		observers = append(observers, prom)
		if err := a.serveMetrics(cfg.Metrics.Addr, reg); err != nil {
			return err
		}
	}
	a.observer = batch.Observers(observers...)

	return nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("workers") {
		cfg.Workers, err = flags.GetInt("workers")
	}
	if err == nil && flags.Changed("fail-fast") {
		cfg.FailFast, err = flags.GetBool("fail-fast")
	}
	if err == nil && flags.Changed("max-states") {
		cfg.MaxStates, err = flags.GetInt("max-states")
	}
	if err == nil && flags.Changed("max-expansions") {
		cfg.MaxExpansions, err = flags.GetInt("max-expansions")
	}
	if err == nil && flags.Changed("log-level") {
		cfg.Log.Level, err = flags.GetString("log-level")
	}
	if err == nil && flags.Changed("log-format") {
		cfg.Log.Format, err = flags.GetString("log-format")
	}
	if err == nil && flags.Changed("metrics-addr") {
		cfg.Metrics.Addr, err = flags.GetString("metrics-addr")
	}

	return err
}

func (a *app) serveMetrics(addr string, reg *prometheus.Registry) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	a.metrics = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := a.metrics.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server stopped", slog.Any("error", err))
		}
	}()
	a.log.Info("serving metrics", slog.String("addr", ln.Addr().String()))

	return nil
}

func (a *app) teardown(ctx context.Context) error {
	if a.metrics == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	return a.metrics.Shutdown(ctx)
}
