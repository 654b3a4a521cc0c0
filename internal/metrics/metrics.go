// Package metrics exposes Prometheus collectors for the sampler daemon.
// Collectors live on a private registry so tests never collide.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweeney/water-sampler/internal/sequence"
)

// Metrics holds the daemon's collectors.
type Metrics struct {
	registry *prometheus.Registry

	pumpStarts   *prometheus.CounterVec
	pumpStops    *prometheus.CounterVec
	waterEvents  *prometheus.CounterVec
	commits      prometheus.Counter
	sequences    prometheus.Counter
	staleDropped prometheus.Counter
	activePump   prometheus.Gauge
	armed        prometheus.Gauge

	lastStale int
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		pumpStarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sampler_pump_starts_total",
			Help: "Pump activations, by 1-based pump number.",
		}, []string{"pump"}),
		pumpStops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sampler_pump_stops_total",
			Help: "Pump deactivations, by 1-based pump number.",
		}, []string{"pump"}),
		waterEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sampler_water_events_total",
			Help: "Debounced float-switch transitions, by state.",
		}, []string{"state"}),
		commits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sampler_config_commits_total",
			Help: "Configuration commits from the button editor.",
		}),
		sequences: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sampler_sequences_completed_total",
			Help: "Sampling sequences run to completion.",
		}),
		staleDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sampler_stale_events_dropped_total",
			Help: "Scheduled starts dropped because their generation expired.",
		}),
		activePump: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sampler_active_pump",
			Help: "1-based number of the active pump, 0 when idle.",
		}),
		armed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sampler_armed",
			Help: "1 while a sampling sequence is armed.",
		}),
	}
	m.registry.MustRegister(
		m.pumpStarts, m.pumpStops, m.waterEvents,
		m.commits, m.sequences, m.staleDropped,
		m.activePump, m.armed,
	)
	return m
}

// RecordEvent updates counters for one sequencer event.
func (m *Metrics) RecordEvent(ev sequence.Event) {
	switch ev.Type {
	case sequence.EventPumpStart:
		m.pumpStarts.WithLabelValues(strconv.Itoa(ev.Pump + 1)).Inc()
	case sequence.EventPumpStop:
		m.pumpStops.WithLabelValues(strconv.Itoa(ev.Pump + 1)).Inc()
	case sequence.EventWaterPresent:
		m.waterEvents.WithLabelValues("present").Inc()
	case sequence.EventWaterAbsent:
		m.waterEvents.WithLabelValues("absent").Inc()
	case sequence.EventSequenceDone:
		m.sequences.Inc()
	}
}

// RecordCommit counts one editor commit.
func (m *Metrics) RecordCommit() {
	m.commits.Inc()
}

// UpdateEngine refreshes the gauges and the stale counter from engine state.
func (m *Metrics) UpdateEngine(activePump int, armed bool, counts sequence.Counts) {
	m.activePump.Set(float64(activePump + 1))
	if armed {
		m.armed.Set(1)
	} else {
		m.armed.Set(0)
	}
	// Counter semantics: the engine tracks the absolute count, only the
	// delta since the last update is added.
	if counts.StaleDropped > m.lastStale {
		m.staleDropped.Add(float64(counts.StaleDropped - m.lastStale))
		m.lastStale = counts.StaleDropped
	}
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
