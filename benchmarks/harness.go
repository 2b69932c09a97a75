// Package benchmarks sweeps generated fused and unfused traces over a range
// of loop sizes to show how loop fusion changes the hit rate.
package benchmarks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/reference"
	"github.com/sarchlab/cachesim/trace"
)

// TraceResult holds the outcome of running one generated trace.
type TraceResult struct {
	Accesses uint64  `json:"accesses"`
	Hits     uint64  `json:"hits"`
	HitRate  float64 `json:"hit_rate"`

	// ReferenceHitRate is the Akita reference model hit rate, if enabled.
	ReferenceHitRate float64 `json:"reference_hit_rate,omitempty"`
}

// SweepResult holds the results for one loop size.
type SweepResult struct {
	Loop    int         `json:"loop"`
	Unfused TraceResult `json:"unfused"`
	Fused   TraceResult `json:"fused"`

	// WallTime is the time taken to generate and run both traces.
	WallTime time.Duration `json:"wall_time_ns"`
}

// HarnessConfig configures the sweep harness.
type HarnessConfig struct {
	Sweep *SweepConfig

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Logger receives progress at debug level (default: logrus standard
	// logger).
	Logger logrus.FieldLogger
}

// Harness runs the sweep and reports results.
type Harness struct {
	config HarnessConfig
}

// NewHarness creates a new sweep harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Sweep == nil {
		config.Sweep = DefaultSweepConfig()
	}
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}

	return &Harness{config: config}
}

// RunAll runs the fused and unfused traces for every loop size.
func (h *Harness) RunAll() ([]SweepResult, error) {
	if err := h.config.Sweep.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sweep config: %w", err)
	}

	results := make([]SweepResult, 0, len(h.config.Sweep.Loops))

	for _, loop := range h.config.Sweep.Loops {
		result, err := h.runLoop(loop)
		if err != nil {
			return results, err
		}

		results = append(results, result)
	}

	return results, nil
}

func (h *Harness) runLoop(loop int) (SweepResult, error) {
	sweep := h.config.Sweep
	gen := trace.Generator{
		SetCount:     sweep.SetCount,
		LineSize:     sweep.LineSize,
		Organization: sweep.Organization,
		Loop:         loop,
	}

	log := h.config.Logger.WithField("loop", loop)
	log.Debug("running sweep point")

	start := time.Now()

	unfused, err := h.runTrace(gen.WriteUnfused)
	if err != nil {
		return SweepResult{}, fmt.Errorf("unfused trace, loop %d: %w", loop, err)
	}

	fused, err := h.runTrace(gen.WriteFused)
	if err != nil {
		return SweepResult{}, fmt.Errorf("fused trace, loop %d: %w", loop, err)
	}

	result := SweepResult{
		Loop:     loop,
		Unfused:  unfused,
		Fused:    fused,
		WallTime: time.Since(start),
	}

	log.WithFields(logrus.Fields{
		"unfused": unfused.HitRate,
		"fused":   fused.HitRate,
	}).Debug("sweep point done")

	return result, nil
}

// runTrace generates a trace in memory, parses it back and runs it.
func (h *Harness) runTrace(write func(io.Writer) error) (TraceResult, error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return TraceResult{}, err
	}

	f, err := trace.Parse(&buf)
	if err != nil {
		return TraceResult{}, err
	}

	engine, err := f.NewEngine(
		cache.WithOutput(io.Discard),
		cache.WithSeed(h.config.Sweep.Seed),
	)
	if err != nil {
		return TraceResult{}, err
	}

	var ref *reference.Model
	if h.config.Sweep.Reference {
		ref = reference.New(reference.ConfigFromGeometry(engine.Geometry()))
		engine.AddHook(ref)
	}

	if err := trace.NewRunner(engine, io.Discard).Run(f); err != nil {
		return TraceResult{}, err
	}

	stats := engine.Stats()
	result := TraceResult{
		Accesses: stats.Accesses,
		Hits:     stats.Hits,
	}

	// Generated traces always contain accesses.
	result.HitRate, _ = stats.HitRate()
	if ref != nil {
		result.ReferenceHitRate, _ = ref.Stats().HitRate()
	}

	return result, nil
}

// PrintResults outputs results as "loop | unfused | fused" rows.
func (h *Harness) PrintResults(results []SweepResult) {
	out := h.config.Output
	sweep := h.config.Sweep

	_, _ = fmt.Fprintf(out, "=== Loop Fusion Sweep (sets=%d line=%d org=%s) ===\n",
		sweep.SetCount, sweep.LineSize, sweep.Organization)
	_, _ = fmt.Fprintln(out, "loop | unfused | fused")

	for _, r := range results {
		_, _ = fmt.Fprintf(out, "%d | %f%% | %f%%\n",
			r.Loop, r.Unfused.HitRate, r.Fused.HitRate)
	}

	if sweep.Reference {
		_, _ = fmt.Fprintln(out, "")
		_, _ = fmt.Fprintln(out, "--- Reference (Akita LRU directory) ---")
		for _, r := range results {
			_, _ = fmt.Fprintf(out, "%d | %f%% | %f%%\n",
				r.Loop, r.Unfused.ReferenceHitRate, r.Fused.ReferenceHitRate)
		}
	}
}

// PrintCSV outputs results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []SweepResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"loop,unfused_hit_rate,fused_hit_rate,unfused_accesses,fused_accesses,unfused_reference_hit_rate,fused_reference_hit_rate")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%d,%.6f,%.6f,%d,%d,%.6f,%.6f\n",
			r.Loop,
			r.Unfused.HitRate,
			r.Fused.HitRate,
			r.Unfused.Accesses,
			r.Fused.Accesses,
			r.Unfused.ReferenceHitRate,
			r.Fused.ReferenceHitRate,
		)
	}
}

// SweepReport is the complete JSON output of a sweep.
type SweepReport struct {
	Metadata ReportMetadata `json:"metadata"`
	Results  []SweepResult  `json:"results"`
}

// ReportMetadata contains information about the sweep run.
type ReportMetadata struct {
	// Timestamp when the sweep was run
	Timestamp string `json:"timestamp"`

	// Config is the sweep configuration used
	Config SweepConfig `json:"config"`

	// TotalWallTime is the total wall clock time for all loop sizes
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// PrintJSON outputs results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []SweepResult) error {
	var total time.Duration
	for _, r := range results {
		total += r.WallTime
	}

	report := SweepReport{
		Metadata: ReportMetadata{
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			Config:        *h.config.Sweep,
			TotalWallTime: total,
		},
		Results: results,
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
