// Command benchmark sweeps the loop fusion traces over a range of loop sizes
// and prints the hit rate of each variant.
//
// Usage:
//
//	go run ./cmd/benchmark [flags] [SET-COUNT LINE-SIZE ORGANIZATION]
//
// Flags:
//
//	--config     YAML sweep configuration (loops, seed, reference)
//	--csv        Output results in CSV format (default: human-readable)
//	--json       Output results as a JSON report
//	--reference  Also run the Akita reference model
//
// Example:
//
//	# Sweep a 2-way LRU cache with the default loop sizes
//	go run ./cmd/benchmark 64 4 2l
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark --config sweep.yaml --csv > results.csv
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/benchmarks"
	"github.com/sarchlab/cachesim/internal/cli"
)

type options struct {
	configPath string
	csv        bool
	json       bool
	reference  bool
	seed       uint64
	logLevel   string
}

func main() {
	if err := cli.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "benchmark [SET-COUNT LINE-SIZE ORGANIZATION]",
		Short: "Sweep fused and unfused loop traces over loop sizes.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 3 {
				return fmt.Errorf("accepts 0 or 3 arg(s), received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML sweep configuration file")
	f.BoolVar(&opts.csv, "csv", false, "Output results in CSV format")
	f.BoolVar(&opts.json, "json", false, "Output results as JSON")
	f.BoolVar(&opts.reference, "reference", false,
		"Also run the Akita LRU reference model")
	f.Uint64Var(&opts.seed, "seed", 0,
		"Seed for random replacement (default: $"+cli.EnvSeed+", else config)")
	f.StringVar(&opts.logLevel, "log-level", cli.LogLevelDefault(),
		"Log level (debug, info, warning, error)")
	cmd.MarkFlagsMutuallyExclusive("csv", "json")

	return cmd
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	log, err := cli.NewLogger(opts.logLevel)
	if err != nil {
		return err
	}

	sweep, err := sweepConfig(cmd, args, opts)
	if err != nil {
		return err
	}

	harness := benchmarks.NewHarness(benchmarks.HarnessConfig{
		Sweep:  sweep,
		Output: cmd.OutOrStdout(),
		Logger: log,
	})

	results, err := harness.RunAll()
	if err != nil {
		return err
	}

	switch {
	case opts.json:
		return harness.PrintJSON(results)
	case opts.csv:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}

	return nil
}

// sweepConfig applies the config file, then positional arguments, then flags.
func sweepConfig(
	cmd *cobra.Command,
	args []string,
	opts *options,
) (*benchmarks.SweepConfig, error) {
	sweep := benchmarks.DefaultSweepConfig()
	if opts.configPath != "" {
		loaded, err := benchmarks.LoadSweepConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		sweep = loaded
	}

	if len(args) == 3 {
		setCount, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid set count %q: %w", args[0], err)
		}

		lineSize, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("invalid line size %q: %w", args[1], err)
		}

		sweep.SetCount = setCount
		sweep.LineSize = lineSize
		sweep.Organization = args[2]
	}

	if opts.reference {
		sweep.Reference = true
	}

	if cmd.Flags().Changed("seed") {
		sweep.Seed = opts.seed
	} else {
		seed, ok, err := cli.SeedFromEnv()
		if err != nil {
			return nil, err
		}
		if ok {
			sweep.Seed = seed
		}
	}

	return sweep, nil
}
