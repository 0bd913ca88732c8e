package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Rooms tracks the number of rooms currently in the store.
	Rooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gaterelay_rooms",
		Help: "Rooms currently reserved.",
	})

	// Connections tracks attached websocket connections by role.
	Connections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gaterelay_connections",
		Help: "Attached websocket connections.",
	}, []string{"role"})

	// MessagesRelayed counts messages fanned out, by message type.
	MessagesRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gaterelay_messages_relayed_total",
		Help: "Messages relayed between roles.",
	}, []string{"type"})

	// RoomsReaped counts idle rooms removed by the sweeper.
	RoomsReaped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gaterelay_rooms_reaped_total",
		Help: "Idle rooms deleted.",
	})

	// LivenessTerminations counts connections dropped for missed probes.
	LivenessTerminations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gaterelay_liveness_terminations_total",
		Help: "Connections terminated after failing a liveness cycle.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
