// Command gentrace writes a fused and an unfused trace for the same loop
// workload, so the two can be compared with cachesim.
//
// Usage:
//
//	gentrace [--dir DIR] SET-COUNT LINE-SIZE ORGANIZATION LOOP-SIZE
//
// Example:
//
//	gentrace 64 4 2l 30
//	cachesim fused.trace && cachesim unfused.trace
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/internal/cli"
	"github.com/sarchlab/cachesim/trace"
)

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
	var dir, logLevel string

	cmd := &cobra.Command{
		Use:   "gentrace SET-COUNT LINE-SIZE ORGANIZATION LOOP-SIZE",
		Short: "Generate fused and unfused loop traces.",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			gen, err := parseGenerator(args)
			if err != nil {
				return err
			}

			log, err := cli.NewLogger(logLevel)
			if err != nil {
				return err
			}

			if err := gen.WriteFiles(dir); err != nil {
				return err
			}

			log.WithField("dir", dir).Infof("wrote %s and %s",
				trace.UnfusedFileName, trace.FusedFileName)

			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to write the traces into")
	cmd.Flags().StringVar(&logLevel, "log-level", cli.LogLevelDefault(),
		"Log level (debug, info, warning, error)")

	return cmd
}

func parseGenerator(args []string) (trace.Generator, error) {
	var ints [3]int
	for i, arg := range []string{args[0], args[1], args[3]} {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return trace.Generator{}, fmt.Errorf("invalid integer %q: %w", arg, err)
		}
		ints[i] = v
	}

	org, err := cache.ParseOrganization(args[2])
	if err != nil {
		return trace.Generator{}, err
	}

	if err := org.Geometry(ints[0], ints[1]).Validate(); err != nil {
		return trace.Generator{}, err
	}

	if ints[2] <= 0 {
		return trace.Generator{}, fmt.Errorf("loop size %d must be > 0", ints[2])
	}

	return trace.Generator{
		SetCount:     ints[0],
		LineSize:     ints[1],
		Organization: org.String(),
		Loop:         ints[2],
	}, nil
}
