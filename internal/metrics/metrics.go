// Package metrics records seed runs as Prometheus metrics and pushes them to
// a Pushgateway. A seed run is a batch job, so nothing is served.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/octofit/tracker/seed/internal/fixture"
	"github.com/octofit/tracker/seed/internal/model"
)

const namespace = "octofit"
const subsystem = "seed"

// Recorder holds the seed metrics on a private registry
type Recorder struct {
	registry    *prometheus.Registry
	inserted    *prometheus.CounterVec
	skipped     *prometheus.CounterVec
	runs        *prometheus.CounterVec
	duration    prometheus.Gauge
	lastSuccess prometheus.Gauge
}

// NewRecorder creates and registers the seed metrics
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		inserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "documents_inserted_total",
			Help:      "Documents written per collection.",
		}, []string{"collection"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "documents_skipped_total",
			Help:      "Sample records skipped per collection because a reference did not resolve.",
		}, []string{"collection"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "runs_total",
			Help:      "Seed runs by result.",
		}, []string{"result"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "duration_seconds",
			Help:      "Wall time of the last successful load.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the last successful load finished.",
		}),
	}
	r.registry.MustRegister(r.inserted, r.skipped, r.runs, r.duration, r.lastSuccess)
	return r
}

// Registry exposes the registry, e.g. for tests
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveSuccess records a completed load
func (r *Recorder) ObserveSuccess(summary *fixture.Summary) {
	for _, c := range model.Collections {
		r.inserted.WithLabelValues(c).Add(float64(summary.Inserted[c]))
		r.skipped.WithLabelValues(c).Add(float64(summary.SkippedIn(c)))
	}
	r.runs.WithLabelValues("success").Inc()
	r.duration.Set(summary.Duration().Seconds())
	if !summary.FinishedAt.IsZero() {
		r.lastSuccess.Set(float64(summary.FinishedAt.Unix()))
	}
}

// ObserveFailure records a load that returned an error
func (r *Recorder) ObserveFailure() {
	r.runs.WithLabelValues("failure").Inc()
}

// Push replaces the job's metrics on the Pushgateway at url
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
