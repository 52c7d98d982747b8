// Package metrics holds the server's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ActiveRooms    prometheus.Gauge
	ActiveSessions prometheus.Gauge
	Operations     *prometheus.CounterVec
	Broadcasts     prometheus.Counter
	SlowDrops      prometheus.Counter
}

// New registers the collectors on reg. Tests pass their own registry so
// parallel suites never collide on collector names.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ActiveRooms: factory.NewGauge(prometheus.GaugeOpts{
			Name: "canvas_active_rooms",
			Help: "Rooms currently live in the registry.",
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "canvas_active_sessions",
			Help: "Websocket sessions currently connected.",
		}),
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "canvas_operations_total",
			Help: "Log mutations applied, by kind.",
		}, []string{"kind"}),
		Broadcasts: factory.NewCounter(prometheus.CounterOpts{
			Name: "canvas_broadcasts_total",
			Help: "Messages fanned out to room members.",
		}),
		SlowDrops: factory.NewCounter(prometheus.CounterOpts{
			Name: "canvas_slow_session_drops_total",
			Help: "Sessions dropped because their send buffer was full.",
		}),
	}
}
