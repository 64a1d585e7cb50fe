// Package metrics provides the Prometheus collector for pipeline and
// adapter instrumentation. This package is internal and should not be
// imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/BaSui01/researchflow/llm"
	"github.com/BaSui01/researchflow/pipeline"
)

// Stage outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeError    = "error"
)

// Collector holds the pipeline metrics. It implements pipeline.Observer
// for stage and run events and llm.AdapterObserver for adapter calls.
type Collector struct {
	runsTotal       prometheus.Counter
	runDuration     prometheus.Histogram
	stageExecutions *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	adapterRequests *prometheus.CounterVec
}

var (
	_ pipeline.Observer   = (*Collector)(nil)
	_ llm.AdapterObserver = (*Collector)(nil)
)

// NewCollector registers the pipeline metrics with the given registerer.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		runsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Total number of completed pipeline runs.",
		}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_run_duration_seconds",
			Help:      "End-to-end pipeline run duration.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		stageExecutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_executions_total",
			Help:      "Stage executions by stage name and outcome.",
		}, []string{"stage", "outcome"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Stage execution duration by stage name.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"stage"}),
		adapterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adapter_requests_total",
			Help:      "External adapter calls by adapter name and outcome.",
		}, []string{"adapter", "outcome"}),
	}
}

// StageCompleted records one stage execution.
func (c *Collector) StageCompleted(stage string, degraded bool, duration time.Duration) {
	outcome := OutcomeOK
	if degraded {
		outcome = OutcomeDegraded
	}
	c.stageExecutions.WithLabelValues(stage, outcome).Inc()
	c.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RunCompleted records one finished pipeline run.
func (c *Collector) RunCompleted(duration time.Duration) {
	c.runsTotal.Inc()
	c.runDuration.Observe(duration.Seconds())
}

// AdapterRequest records one external adapter call.
func (c *Collector) AdapterRequest(adapter string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	c.adapterRequests.WithLabelValues(adapter, outcome).Inc()
}
