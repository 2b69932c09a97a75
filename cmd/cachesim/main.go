// Command cachesim runs a cache trace script and prints what the script asks
// for.
//
// Usage:
//
//	cachesim [flags] TRACEFILE
//
// Example:
//
//	# Run a trace with reproducible random replacement
//	cachesim --seed 42 fused.trace
//
//	# Record every access into SQLite and compare against Akita
//	cachesim --record --reference unfused.trace
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/internal/cli"
	"github.com/sarchlab/cachesim/metrics"
	"github.com/sarchlab/cachesim/recording"
	"github.com/sarchlab/cachesim/reference"
	"github.com/sarchlab/cachesim/trace"
)

type options struct {
	seed        uint64
	record      bool
	recordPath  string
	metricsFile string
	reference   bool
	cpuProfile  string
	logLevel    string
}

func main() {
	if err := cli.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		atexit.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "cachesim TRACEFILE",
		Short: "Simulate a memory cache over a trace script.",
		Long: `cachesim reads a trace script (set count, line size and cache ` +
			`organization, then one command per line) and simulates the cache, ` +
			`printing hit/miss details, cache contents and hit rates on request.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.Uint64Var(&opts.seed, "seed", 0,
		"Seed for random replacement (default: $"+cli.EnvSeed+", else random)")
	f.BoolVar(&opts.record, "record", false,
		"Record every access into a SQLite database")
	f.StringVar(&opts.recordPath, "record-path", "",
		"Database file for --record (default: cachesim_<id>.sqlite3)")
	f.StringVar(&opts.metricsFile, "metrics-file", "",
		"Write Prometheus metrics to this file after the run")
	f.BoolVar(&opts.reference, "reference", false,
		"Also run the Akita LRU reference model and log its hit rate")
	f.StringVar(&opts.cpuProfile, "cpuprofile", "",
		"Write a CPU profile to this file")
	f.StringVar(&opts.logLevel, "log-level", cli.LogLevelDefault(),
		"Log level (debug, info, warning, error)")

	return cmd
}

func run(cmd *cobra.Command, path string, opts *options) error {
	log, err := cli.NewLogger(opts.logLevel)
	if err != nil {
		return err
	}

	stopProfile, err := startCPUProfile(opts.cpuProfile)
	if err != nil {
		return err
	}
	defer stopProfile()

	f, err := trace.LoadFile(path)
	if err != nil {
		return err
	}

	engineOpts, err := seedOption(cmd, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	engineOpts = append(engineOpts, cache.WithOutput(out))

	engine, err := f.NewEngine(engineOpts...)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"trace":        filepath.Base(path),
		"sets":         f.Header.SetCount,
		"line_size":    f.Header.LineSize,
		"organization": f.Header.Organization.String(),
		"commands":     len(f.Commands),
	}).Debug("trace loaded")

	var ref *reference.Model
	if opts.reference {
		ref = reference.New(reference.ConfigFromGeometry(engine.Geometry()))
		engine.AddHook(ref)
	}

	var collector *metrics.Collector
	if opts.metricsFile != "" {
		collector, err = metrics.NewCollector(metrics.Config{
			Namespace: "cachesim",
			ConstLabels: prometheus.Labels{
				"organization": f.Header.Organization.String(),
			},
		})
		if err != nil {
			return err
		}
		engine.AddHook(collector)
	}

	var rec *recording.Recorder
	if opts.record {
		rec, err = recording.New(opts.recordPath, recording.RunInfo{
			Geometry:     engine.Geometry(),
			Organization: engine.Organization(),
			Trace:        path,
		})
		if err != nil {
			return err
		}
		engine.AddHook(rec)
		log.WithField("path", rec.Path()).Info("database created for recording")
	}

	runErr := trace.NewRunner(engine, out).Run(f)

	if rec != nil {
		if err := rec.Close(); err != nil {
			log.WithError(err).Error("failed to finish recording")
		}
	}

	if collector != nil {
		if err := collector.WriteTextfile(opts.metricsFile); err != nil {
			log.WithError(err).Error("failed to write metrics")
		}
	}

	if ref != nil {
		logReference(log, engine, ref)
	}

	return runErr
}

func seedOption(cmd *cobra.Command, opts *options) ([]cache.Option, error) {
	if cmd.Flags().Changed("seed") {
		return []cache.Option{cache.WithSeed(opts.seed)}, nil
	}

	seed, ok, err := cli.SeedFromEnv()
	if err != nil {
		return nil, err
	}
	if ok {
		return []cache.Option{cache.WithSeed(seed)}, nil
	}

	return nil, nil
}

func logReference(log logrus.FieldLogger, engine *cache.Engine, ref *reference.Model) {
	engineRate, err := engine.HitRate()
	if err != nil {
		log.Info("no accesses, skipping reference comparison")
		return
	}

	refRate, _ := ref.Stats().HitRate()

	log.WithFields(logrus.Fields{
		"engine_hit_rate":    engineRate,
		"reference_hit_rate": refRate,
	}).Info("reference comparison")
}
