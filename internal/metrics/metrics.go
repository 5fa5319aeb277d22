// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the server's Prometheus collectors.
type Metrics struct {
	ConnectedPlayers prometheus.Gauge
	ActiveRooms      prometheus.Gauge
	MessagesReceived *prometheus.CounterVec
	RuleRejections   *prometheus.CounterVec
	RoundsCompleted  prometheus.Counter
	MessageLatency   prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New builds the collectors and registers them with reg. A nil reg uses a fresh registry,
// which keeps tests from colliding on the default one.
func New(namespace string, reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		ConnectedPlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected_players",
			Help:      "Number of players with an open websocket",
		}),
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of live rooms",
		}),
		MessagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Inbound websocket messages by type",
		}, []string{"type"}),
		RuleRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_rejections_total",
			Help:      "Room operations rejected by the rules, by error code",
		}, []string{"code"}),
		RoundsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_completed_total",
			Help:      "Rounds played to a full finishing order",
		}),
		MessageLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "message_latency_seconds",
			Help:      "Time spent applying one inbound message",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 10),
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.ConnectedPlayers,
		m.ActiveRooms,
		m.MessagesReceived,
		m.RuleRejections,
		m.RoundsCompleted,
		m.MessageLatency,
	)
	return m
}

// Handler serves the registered collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveMessage counts one inbound message and how long it took to apply.
func (m *Metrics) ObserveMessage(msgType string, started time.Time) {
	m.MessagesReceived.WithLabelValues(msgType).Inc()
	m.MessageLatency.Observe(time.Since(started).Seconds())
}

// ObserveRejection counts a rule rejection by code.
func (m *Metrics) ObserveRejection(code string) {
	if code == "" {
		return
	}
	m.RuleRejections.WithLabelValues(code).Inc()
}
