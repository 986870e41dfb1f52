package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ormfactory"

// Build outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder receives one observation per factory build.
type Recorder interface {
	ObserveBuild(section, class, outcome string, elapsed time.Duration)
}

// Collector exports factory build counts and latencies to Prometheus.
type Collector struct {
	builds   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollector creates the collectors and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Number of factory builds by section, class and outcome.",
		}, []string{"section", "class", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Time spent building cache and driver objects.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"section"}),
	}

	if reg == nil {
		return c, nil
	}

	for _, col := range []prometheus.Collector{c.builds, c.duration} {
		if err := reg.Register(col); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				// Reuse collectors registered by another factory on the same registry.
				switch existing := are.ExistingCollector.(type) {
				case *prometheus.CounterVec:
					c.builds = existing
				case *prometheus.HistogramVec:
					c.duration = existing
				}
				continue
			}
			return nil, err
		}
	}

	return c, nil
}

// ObserveBuild records a single build.
func (c *Collector) ObserveBuild(section, class, outcome string, elapsed time.Duration) {
	if class == "" {
		class = "unknown"
	}
	c.builds.WithLabelValues(section, class, outcome).Inc()
	c.duration.WithLabelValues(section).Observe(elapsed.Seconds())
}

// Builds exposes the build counter for inspection.
func (c *Collector) Builds() *prometheus.CounterVec {
	return c.builds
}

type noop struct{}

// NewNoop returns a Recorder that discards observations.
func NewNoop() Recorder {
	return noop{}
}

func (noop) ObserveBuild(string, string, string, time.Duration) {}
