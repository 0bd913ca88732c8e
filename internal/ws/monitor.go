package ws

import (
	"context"
	"time"

	"log/slog"

	"gate-relay/pkg/metrics"
)

// LivenessMonitor probes every open connection once per period and drops
// peers that missed a full cycle. A connection has to ignore two
// consecutive probes before it is terminated, so worst-case detection is
// twice the period.
type LivenessMonitor struct {
	log    *slog.Logger
	hub    *Hub
	period time.Duration
}

func NewLivenessMonitor(logger *slog.Logger, hub *Hub, period time.Duration) *LivenessMonitor {
	return &LivenessMonitor{log: logger, hub: hub, period: period}
}

// Run sweeps until the context ends
func (m *LivenessMonitor) Run(ctx context.Context) {
	t := time.NewTicker(m.period)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			m.sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// sweep terminates sessions whose flag is still down from the previous
// cycle, then clears the rest and probes them. The flag comes back up
// only when the matching pong arrives.
func (m *LivenessMonitor) sweep(ctx context.Context) {
	for _, c := range m.hub.snapshotSessions() {
		if !c.alive.Load() {
			m.log.Info("ws.liveness.terminate", "session", c.id)
			metrics.LivenessTerminations.Inc()
			c.terminate()
			continue
		}
		c.alive.Store(false)
		go func(c *session) {
			pctx, cancel := context.WithTimeout(ctx, m.period)
			defer cancel()
			if c.ping(pctx) == nil {
				c.alive.Store(true)
			}
		}(c)
	}
}
