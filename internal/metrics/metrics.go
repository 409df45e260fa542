// Package metrics exposes prometheus counters for pipeline runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RunsTotal counts pipeline runs by passing style and outcome.
	RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "calcflow",
		Name:      "runs_total",
		Help:      "Pipeline runs by passing style and outcome.",
	}, []string{"style", "outcome"})

	// StagesTotal counts executed stages by operation.
	StagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "calcflow",
		Name:      "stages_total",
		Help:      "Executed stages by operation.",
	}, []string{"op"})

	// StageFailuresTotal counts failed stages by stable reason code.
	StageFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "calcflow",
		Name:      "stage_failures_total",
		Help:      "Failed stages by reason.",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(RunsTotal, StagesTotal, StageFailuresTotal)
}

// Handler serves the default registry, including the counters above.
func Handler() http.Handler {
	return promhttp.Handler()
}
