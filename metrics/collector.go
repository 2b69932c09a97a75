// Package metrics exposes simulation counters as Prometheus metrics.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sarchlab/cachesim/cache"
)

// Config controls metric naming.
type Config struct {
	Namespace string
	// ConstLabels are attached to every metric, e.g. the organization code.
	ConstLabels prometheus.Labels
}

// DefaultConfig returns the default metric naming.
func DefaultConfig() Config {
	return Config{Namespace: "cachesim"}
}

// Collector is a cache.AccessHook that counts accesses in a private
// registry.
type Collector struct {
	registry  *prometheus.Registry
	accesses  *prometheus.CounterVec
	evictions prometheus.Counter
	hitRatio  prometheus.Gauge

	total uint64
	hits  uint64
}

// NewCollector creates a collector and registers its metrics.
func NewCollector(config Config) (*Collector, error) {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		accesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "accesses_total",
			Help:        "Number of simulated cache accesses.",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "outcome"}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "evictions_total",
			Help:        "Number of resident lines replaced by a different line.",
			ConstLabels: config.ConstLabels,
		}),
		hitRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "hit_ratio",
			Help:        "Fraction of accesses that hit.",
			ConstLabels: config.ConstLabels,
		}),
	}

	for _, m := range []prometheus.Collector{c.accesses, c.evictions, c.hitRatio} {
		if err := c.registry.Register(m); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	return c, nil
}

// Registry returns the registry holding the metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// OnAccess implements cache.AccessHook.
func (c *Collector) OnAccess(result cache.AccessResult) {
	c.accesses.WithLabelValues(result.Op.String(), result.Outcome()).Inc()

	if result.Evicted {
		c.evictions.Inc()
	}

	c.total++
	if result.Hit {
		c.hits++
	}

	c.hitRatio.Set(float64(c.hits) / float64(c.total))
}

// Accesses returns the counter for one op and outcome.
func (c *Collector) Accesses(op cache.Op, outcome string) prometheus.Counter {
	return c.accesses.WithLabelValues(op.String(), outcome)
}

// Evictions returns the eviction counter.
func (c *Collector) Evictions() prometheus.Counter {
	return c.evictions
}

// HitRatio returns the hit ratio gauge.
func (c *Collector) HitRatio() prometheus.Gauge {
	return c.hitRatio
}

// WriteTextfile writes the metrics in the text exposition format, for the
// node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}

	return nil
}
