// Package metrics exposes queue manager counters and gauges in Prometheus
// format. A nil *Collector disables collection; every method is nil-safe so
// callers never have to guard.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the queue manager's Prometheus instruments. Each Collector
// owns its registry so independent managers (and tests) never collide on
// metric registration.
type Collector struct {
	registry *prometheus.Registry

	jobsEnqueued  prometheus.Counter
	jobsSubmitted prometheus.Counter
	jobsResolved  *prometheus.CounterVec
	submitErrors  prometheus.Counter
	queryErrors   prometheus.Counter

	jobsPending  prometheus.Gauge
	jobsAdmitted prometheus.Gauge
}

// NewCollector creates a Collector with all instruments registered.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		jobsEnqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slurmq_jobs_enqueued_total",
			Help: "Jobs added to the queue manager.",
		}),
		jobsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slurmq_jobs_submitted_total",
			Help: "Jobs accepted by sbatch.",
		}),
		jobsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slurmq_jobs_resolved_total",
			Help: "Jobs that reached a final outcome, labelled by outcome.",
		}, []string{"outcome"}),
		submitErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slurmq_submit_errors_total",
			Help: "Failed sbatch submissions (retried on the next iteration).",
		}),
		queryErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slurmq_query_errors_total",
			Help: "Failed squeue status queries (retried on the next iteration).",
		}),
		jobsPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "slurmq_jobs_pending",
			Help: "Jobs waiting for an admission slot.",
		}),
		jobsAdmitted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "slurmq_jobs_admitted",
			Help: "Jobs currently submitted or running under Slurm.",
		}),
	}

	c.registry.MustRegister(
		c.jobsEnqueued, c.jobsSubmitted, c.jobsResolved,
		c.submitErrors, c.queryErrors,
		c.jobsPending, c.jobsAdmitted,
	)
	return c
}

// Handler returns the HTTP handler serving this collector's registry.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// JobEnqueued counts one job added to the queue.
func (c *Collector) JobEnqueued() {
	if c == nil {
		return
	}
	c.jobsEnqueued.Inc()
}

// JobSubmitted counts one successful sbatch submission.
func (c *Collector) JobSubmitted() {
	if c == nil {
		return
	}
	c.jobsSubmitted.Inc()
}

// JobResolved counts one job reaching its final outcome.
func (c *Collector) JobResolved(outcome string) {
	if c == nil {
		return
	}
	c.jobsResolved.WithLabelValues(outcome).Inc()
}

// SubmitError counts one failed submission attempt.
func (c *Collector) SubmitError() {
	if c == nil {
		return
	}
	c.submitErrors.Inc()
}

// QueryError counts one failed status query.
func (c *Collector) QueryError() {
	if c == nil {
		return
	}
	c.queryErrors.Inc()
}

// SetQueueDepth records the current pending and admitted job counts.
func (c *Collector) SetQueueDepth(pending, admitted int) {
	if c == nil {
		return
	}
	c.jobsPending.Set(float64(pending))
	c.jobsAdmitted.Set(float64(admitted))
}
