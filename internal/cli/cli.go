// Package cli holds the flag, configuration and infrastructure wiring shared
// by the search binaries.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/sgaliamov/ergo-balance/genetic"
	"github.com/sgaliamov/ergo-balance/metrics"
	"github.com/sgaliamov/ergo-balance/progress"
	"github.com/sgaliamov/ergo-balance/storage"
)

const metricsNamespace = "ergo_balance"

// Command parses the shared flags. Search parameters given on the command line
// override the [Genetic] section of the configuration file, store flags
// override the [Storage] section.
type Command struct {
	Flags *pflag.FlagSet

	configPath  string
	search      genetic.Context
	store       storage.Config
	checkpoint  string
	metricsAddr string
	quiet       bool
}

// New registers the shared flags, klog's included, on a new flag set.
func New(name string) *Command {
	c := &Command{Flags: pflag.NewFlagSet(name, pflag.ContinueOnError)}
	defaults := genetic.DefaultContext()
	fs := c.Flags

	fs.StringVar(&c.configPath, "config", "", "INI configuration file")
	fs.IntVarP(&c.search.MutationsCount, "mutations-count", "m", defaults.MutationsCount, "maximum edits per mutation, also the crossover replay cap")
	fs.IntVarP(&c.search.PopulationSize, "population-size", "p", defaults.PopulationSize, "individuals kept per generation")
	fs.IntVarP(&c.search.ChildrenCount, "children-count", "c", defaults.ChildrenCount, "mutated children per parent")
	fs.IntVarP(&c.search.GenerationsCount, "generations-count", "g", defaults.GenerationsCount, "generation budget, 0 only rescores saved results")
	fs.IntVarP(&c.search.ResultsCount, "results-count", "r", defaults.ResultsCount, "size of the reported top set")
	fs.IntVar(&c.search.RepeatsCount, "repeats-count", defaults.RepeatsCount, "stop after the top set stays unchanged this many times, 0 never stops early")
	fs.IntVar(&c.search.Workers, "workers", defaults.Workers, "worker pool size")
	fs.Uint64Var(&c.search.Seed, "seed", 0, "random seed, 0 picks one")
	fs.DurationVar(&c.search.ReportInterval, "report-interval", defaults.ReportInterval, "minimum time between saved and printed results")
	fs.StringVar(&c.store.Kind, "store", "file", "result store: file, memory or sqlite")
	fs.StringVar(&c.store.Path, "store-path", storage.DefaultDir, "result directory, or database file for sqlite")
	fs.StringVar(&c.checkpoint, "checkpoint", "", "checkpoint file, resumed from when it exists")
	fs.StringVar(&c.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fs.BoolVarP(&c.quiet, "quiet", "q", false, "do not print reports")

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	fs.AddGoFlagSet(klogFlags)
	return c
}

func (c *Command) Parse(args []string) error {
	return c.Flags.Parse(args)
}

// Config loads the configuration file, if any, and applies the flags set on
// the command line.
func (c *Command) Config() (*genetic.Config, error) {
	config := genetic.DefaultConfig()
	if c.configPath != "" {
		loaded, err := genetic.LoadConfig(c.configPath)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	search := &config.Genetic
	overrides := []struct {
		flag  string
		apply func()
	}{
		{"mutations-count", func() { search.MutationsCount = c.search.MutationsCount }},
		{"population-size", func() { search.PopulationSize = c.search.PopulationSize }},
		{"children-count", func() { search.ChildrenCount = c.search.ChildrenCount }},
		{"generations-count", func() { search.GenerationsCount = c.search.GenerationsCount }},
		{"results-count", func() { search.ResultsCount = c.search.ResultsCount }},
		{"repeats-count", func() { search.RepeatsCount = c.search.RepeatsCount }},
		{"workers", func() { search.Workers = c.search.Workers }},
		{"seed", func() { search.Seed = c.search.Seed }},
		{"report-interval", func() { search.ReportInterval = c.search.ReportInterval }},
	}
	for _, o := range overrides {
		if c.Flags.Changed(o.flag) {
			o.apply()
		}
	}
	if err := search.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Changed reports whether a flag was set on the command line.
func (c *Command) Changed(name string) bool {
	return c.Flags.Changed(name)
}

// Store opens and initialises the configured result store.
func (c *Command) Store(ctx context.Context, config *genetic.Config) (storage.Store, error) {
	settings := storage.Config{Kind: "file", Path: storage.DefaultDir}
	if err := config.MapSection("Storage", &settings); err != nil {
		return nil, err
	}
	if c.Changed("store") {
		settings.Kind = c.store.Kind
	}
	if c.Changed("store-path") {
		settings.Path = c.store.Path
	}

	store, err := storage.NewStore(settings.Kind, settings.Path)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, errors.Join(err, storage.CloseIfSupported(store))
	}
	klog.FromContext(ctx).V(2).Info("Result store ready", "kind", settings.Kind, "path", settings.Path)
	return store, nil
}

// Options builds the search options: a progress printer on stdout unless
// quiet, the checkpoint file and, when an address is set, a metrics recorder
// served over HTTP. The returned function stops the metrics server.
func Options[I fmt.Stringer](ctx context.Context, c *Command) (genetic.Options[I], func(), error) {
	options := genetic.Options[I]{Checkpoint: c.checkpoint}
	if !c.quiet {
		options.Reporters = append(options.Reporters, progress.NewPrinter[I](os.Stdout))
	}
	if c.metricsAddr == "" {
		return options, func() {}, nil
	}

	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(registry, metricsNamespace)
	if err != nil {
		return options, nil, err
	}
	options.Observers = append(options.Observers, recorder)

	stop, err := serveMetrics(ctx, c.metricsAddr, registry)
	if err != nil {
		return options, nil, err
	}
	return options, stop, nil
}

func serveMetrics(ctx context.Context, addr string, gatherer prometheus.Gatherer) (func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for metrics on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(gatherer))
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	logger := klog.FromContext(ctx)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(err, "Metrics server stopped")
		}
	}()
	logger.Info("Serving metrics", "addr", listener.Addr().String())

	return func() {
		shutdown, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdown); err != nil {
			logger.Error(err, "Failed to stop the metrics server")
		}
	}, nil
}
