// Package metrics exposes Prometheus instrumentation for evaluation passes.
package metrics

import (
	"net/http"

	"github.com/aretw0/dtree/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so several servers (and tests) never
// collide on the global one.
type Collector struct {
	Registry *prometheus.Registry

	evaluations *prometheus.CounterVec
	duration    prometheus.Histogram
	nodes       prometheus.Histogram
	paths       *prometheus.CounterVec
}

// New creates and registers the dtree metrics.
func New() *Collector {
	c := &Collector{
		Registry: prometheus.NewRegistry(),
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dtree_evaluations_total",
				Help: "Evaluation passes by outcome (ok, cycle, reference, non_finite, error).",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dtree_evaluation_duration_seconds",
			Help:    "Wall time of successful evaluation passes.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		nodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dtree_evaluated_nodes",
			Help:    "Nodes evaluated per successful pass.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		paths: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dtree_optimal_paths_total",
				Help: "Optimal path extractions by goal.",
			},
			[]string{"goal"},
		),
	}

	c.Registry.MustRegister(
		c.evaluations, c.duration, c.nodes, c.paths,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Hooks returns lifecycle hooks that feed this collector.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEvaluate: c.ObserveEvaluation,
		OnPath:     c.ObservePath,
	}
}

// ObserveEvaluation records one pass.
func (c *Collector) ObserveEvaluation(ev *domain.EvaluationEvent) {
	c.evaluations.WithLabelValues(Outcome(ev.Err)).Inc()
	if ev.Err != nil {
		return
	}
	c.duration.Observe(ev.Duration.Seconds())
	c.nodes.Observe(float64(ev.Nodes))
}

// ObservePath records one successful path extraction.
func (c *Collector) ObservePath(ev *domain.PathEvent) {
	if ev.Err != nil {
		return
	}
	c.paths.WithLabelValues(ev.Goal).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{Registry: c.Registry})
}
