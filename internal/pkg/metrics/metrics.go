// Package metrics holds the service's Prometheus counters on a private
// registry and exposes them over HTTP.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	actions   *prometheus.CounterVec
	quotes    *prometheus.CounterVec
	published *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fulfillment_actions_total",
				Help: "Fulfillment actions by action name and outcome",
			},
			[]string{"action", "outcome"},
		),
		quotes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shipping_quotes_total",
				Help: "Shipping quotes by outcome",
			},
			[]string{"outcome"},
		),
		published: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "outbox_events_published_total",
				Help: "Outbox delivery attempts by result",
			},
			[]string{"result"},
		),
	}
	registry.MustRegister(m.actions, m.quotes, m.published)
	return m
}

// ObserveAction counts one coordinator call.
func (m *Metrics) ObserveAction(action, outcome string) {
	m.actions.WithLabelValues(action, outcome).Inc()
}

// ActionCounter returns the counter behind one action/outcome pair.
func (m *Metrics) ActionCounter(action, outcome string) prometheus.Counter {
	return m.actions.WithLabelValues(action, outcome)
}

func (m *Metrics) ObserveQuote(outcome string) {
	m.quotes.WithLabelValues(outcome).Inc()
}

// ObservePublish counts one relay attempt: "published", "failed" or
// "circuit_open".
func (m *Metrics) ObservePublish(result string) {
	m.published.WithLabelValues(result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
