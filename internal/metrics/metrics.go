package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics. A nil *Registry is valid and every
// method on it is a no-op, so components can take metrics optionally.
type Registry struct {
	*prometheus.Registry

	symbolsScanned prometheus.Counter
	signalsFired   *prometheus.CounterVec
	fetchFailures  prometheus.Counter
	scanDuration   prometheus.Histogram
	sweepDuration  prometheus.Histogram
	outcomesFilled *prometheus.CounterVec
	pendingSignals prometheus.Gauge
}

// NewRegistry creates a metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		symbolsScanned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sigscan_symbols_scanned_total",
				Help: "Total number of symbols evaluated across all scans",
			},
		),
		signalsFired: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sigscan_signals_fired_total",
				Help: "Total number of signals fired",
			},
			[]string{"strategy"},
		),
		fetchFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sigscan_fetch_failures_total",
				Help: "Total number of failed price fetches",
			},
		),
		scanDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sigscan_scan_duration_seconds",
				Help:    "Scan run duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
			},
		),
		sweepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sigscan_sweep_duration_seconds",
				Help:    "Outcome sweep duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
			},
		),
		outcomesFilled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sigscan_outcomes_filled_total",
				Help: "Total number of forward outcomes filled",
			},
			[]string{"horizon", "result"},
		),
		pendingSignals: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sigscan_pending_signals",
				Help: "Number of signals still awaiting a forward outcome",
			},
		),
	}

	reg.MustRegister(r.symbolsScanned)
	reg.MustRegister(r.signalsFired)
	reg.MustRegister(r.fetchFailures)
	reg.MustRegister(r.scanDuration)
	reg.MustRegister(r.sweepDuration)
	reg.MustRegister(r.outcomesFilled)
	reg.MustRegister(r.pendingSignals)

	return r
}

// RecordSymbolScanned counts one evaluated symbol.
func (r *Registry) RecordSymbolScanned() {
	if r == nil {
		return
	}
	r.symbolsScanned.Inc()
}

// RecordSignalFired counts a fired signal for a strategy.
func (r *Registry) RecordSignalFired(strategy string) {
	if r == nil {
		return
	}
	r.signalsFired.WithLabelValues(strategy).Inc()
}

// RecordFetchFailure counts a failed price fetch.
func (r *Registry) RecordFetchFailure() {
	if r == nil {
		return
	}
	r.fetchFailures.Inc()
}

// RecordScan records a completed scan run.
func (r *Registry) RecordScan(duration float64) {
	if r == nil {
		return
	}
	r.scanDuration.Observe(duration)
}

// RecordSweep records a completed outcome sweep.
func (r *Registry) RecordSweep(duration float64) {
	if r == nil {
		return
	}
	r.sweepDuration.Observe(duration)
}

// RecordOutcomeFilled counts a filled forward outcome.
func (r *Registry) RecordOutcomeFilled(horizon, result string) {
	if r == nil {
		return
	}
	r.outcomesFilled.WithLabelValues(horizon, result).Inc()
}

// SetPendingSignals sets the count of signals awaiting outcomes.
func (r *Registry) SetPendingSignals(n int) {
	if r == nil {
		return
	}
	r.pendingSignals.Set(float64(n))
}

// Handler returns an HTTP handler exposing the registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{})
}
