package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the estimate service collectors.
type Metrics struct {
	Derivations  prometheus.Counter
	Exports      *prometheus.CounterVec
	SessionOps   *prometheus.CounterVec
	LiveSessions prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg, or the
// default registerer when reg is nil.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Derivations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "derivations_total",
			Help:      "Number of stateless totals derivations.",
		}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Count of PDF export outcomes.",
		}, []string{"source", "result"}),
		SessionOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_operations_total",
			Help:      "Count of editing session operations by outcome.",
		}, []string{"op", "result"}),
		LiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_sessions",
			Help:      "Editing sessions currently held in memory.",
		}),
	}
	reg.MustRegister(m.Derivations, m.Exports, m.SessionOps, m.LiveSessions)
	return m
}

func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
