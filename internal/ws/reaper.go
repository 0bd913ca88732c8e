package ws

import (
	"context"
	"time"

	"log/slog"

	"gate-relay/pkg/metrics"
)

// IdleReaper deletes rooms that are both empty and stale. Occupancy wins
// over staleness: a room with any attached connection is never reaped.
type IdleReaper struct {
	log    *slog.Logger
	store  *RoomStore
	period time.Duration
	ttl    time.Duration
}

func NewIdleReaper(logger *slog.Logger, store *RoomStore, period, ttl time.Duration) *IdleReaper {
	return &IdleReaper{log: logger, store: store, period: period, ttl: ttl}
}

// Run sweeps until the context ends
func (r *IdleReaper) Run(ctx context.Context) {
	t := time.NewTicker(r.period)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			r.sweep(time.Now())
		case <-ctx.Done():
			return
		}
	}
}

func (r *IdleReaper) sweep(now time.Time) {
	for _, rm := range r.store.snapshot() {
		if now.Sub(rm.lastActive()) <= r.ttl {
			continue
		}
		// closeIfEmpty re-checks emptiness under the room lock, so a
		// member attaching right now either lands before the close and
		// pins the room, or finds it closed and is turned away
		if !rm.closeIfEmpty() {
			continue
		}
		r.store.Delete(rm.ID())
		metrics.RoomsReaped.Inc()
		r.log.Info("room.reaped", "room", rm.ID())
	}
}
