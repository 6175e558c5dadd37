// Package metrics records build outcomes as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/stratum/internal/core/domain"
)

const namespace = "stratum"

// Outcome labels.
const (
	resultSuccess = "success"
	resultFailed  = "failed"
)

// PrometheusRecorder implements ports.Metrics on its own registry.
type PrometheusRecorder struct {
	registry      *prom.Registry
	phaseDuration *prom.HistogramVec
	buildDuration *prom.HistogramVec
	phaseResults  *prom.CounterVec
	buildOutcome  *prom.CounterVec
	inFlight      prom.Gauge
}

// NewPrometheusRecorder constructs and registers the build metrics.
// A nil registry creates a private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.phaseDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "phase_duration_seconds",
		Help:      "Duration of individual build phases",
		Buckets:   prom.DefBuckets,
	}, []string{"target", "phase"})
	pr.buildDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "build_duration_seconds",
		Help:      "Total build duration",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"target"})
	pr.phaseResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "phase_results_total",
		Help:      "Phase result counts by outcome",
	}, []string{"target", "phase", "result"})
	pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "build_outcomes_total",
		Help:      "Build outcomes by target and failure kind",
	}, []string{"target", "result", "kind"})
	pr.inFlight = prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "builds_in_flight",
		Help:      "Number of builds currently running",
	})
	reg.MustRegister(
		pr.phaseDuration,
		pr.buildDuration,
		pr.phaseResults,
		pr.buildOutcome,
		pr.inFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return pr
}

// ObservePhase records the duration and outcome of one build phase.
func (p *PrometheusRecorder) ObservePhase(target domain.Target, phase string, d time.Duration, err error) {
	if p == nil {
		return
	}
	p.phaseDuration.WithLabelValues(target.String(), phase).Observe(d.Seconds())
	p.phaseResults.WithLabelValues(target.String(), phase, result(err)).Inc()
}

// ObserveBuild records the duration and outcome of a whole build.
func (p *PrometheusRecorder) ObserveBuild(target domain.Target, d time.Duration, err error) {
	if p == nil {
		return
	}
	p.buildDuration.WithLabelValues(target.String()).Observe(d.Seconds())
	kind := ""
	if err != nil {
		kind = string(domain.KindOf(err))
	}
	p.buildOutcome.WithLabelValues(target.String(), result(err), kind).Inc()
}

// InFlight adjusts the number of builds currently running.
func (p *PrometheusRecorder) InFlight(delta int) {
	if p == nil {
		return
	}
	p.inFlight.Add(float64(delta))
}

// Handler exposes the registry in the Prometheus text format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return resultFailed
	}
	return resultSuccess
}
