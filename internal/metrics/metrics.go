// Package metrics exposes ledger activity as Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics methods are safe to call on a nil receiver.
type Metrics struct {
	eventsPublished     *prometheus.CounterVec
	alertsRaised        prometheus.Counter
	commands            *prometheus.CounterVec
	relayFailures       prometheus.Counter
	currentTransactions prometheus.Gauge
}

// New registers the collectors on reg. Each registry accepts one Metrics.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		eventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_published_total",
				Help: "Total number of events folded through the bus",
			},
			[]string{"channel"},
		),
		alertsRaised: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "alerts_raised_total",
				Help: "Total number of budget alerts recorded",
			},
		),
		commands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commands_total",
				Help: "Total number of state commands applied",
			},
			[]string{"operation"},
		),
		relayFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "event_relay_failures_total",
				Help: "Total number of events that could not be relayed to the broker",
			},
		),
		currentTransactions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "current_transactions",
				Help: "Number of transactions in the current snapshot",
			},
		),
	}
}

func (m *Metrics) RecordEventPublished(channel string) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(channel).Inc()
}

func (m *Metrics) RecordAlerts(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.alertsRaised.Add(float64(n))
}

func (m *Metrics) RecordCommand(operation string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(operation).Inc()
}

func (m *Metrics) RecordRelayFailure() {
	if m == nil {
		return
	}
	m.relayFailures.Inc()
}

func (m *Metrics) SetCurrentTransactions(n int) {
	if m == nil {
		return
	}
	m.currentTransactions.Set(float64(n))
}
