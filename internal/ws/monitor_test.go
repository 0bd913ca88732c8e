package ws

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/require"
)

func newTestMonitor(env *testEnv, period time.Duration) *LivenessMonitor {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLivenessMonitor(logger, env.hub, period)
}

// grabs the single tracked server-side session
func soleSession(t *testing.T, env *testEnv) *session {
	t.Helper()
	var s *session
	waitFor(t, func() bool {
		ss := env.hub.snapshotSessions()
		if len(ss) == 1 {
			s = ss[0]
			return true
		}
		return false
	})
	return s
}

func TestMonitorTerminatesUnresponsivePeer(t *testing.T) {
	env := newTestEnv(t)
	env.store.CreateOrGet("acme-214")
	rm := env.store.Get("acme-214")

	c := env.dial(t, "roomId=acme-214&role=device")
	readFrame(t, c)

	s := soleSession(t, env)
	s.ping = func(context.Context) error { return errors.New("no pong") }

	m := newTestMonitor(env, 50*time.Millisecond)
	ctx := context.Background()

	// First cycle: flag cleared, probe fails, flag stays down
	m.sweep(ctx)
	waitFor(t, func() bool { return !s.alive.Load() })

	// Second cycle: terminated, cleanup runs the normal disconnect path
	m.sweep(ctx)
	waitFor(t, func() bool { return len(env.hub.snapshotSessions()) == 0 })
	require.Empty(t, rm.members(RoleDevice))

	// The peer sees the connection die
	rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _, err := c.Read(rctx)
	require.Error(t, err)
}

func TestMonitorKeepsResponsivePeer(t *testing.T) {
	env := newTestEnv(t)
	env.store.CreateOrGet("acme-214")

	c := env.dial(t, "roomId=acme-214&role=viewer")
	readFrame(t, c)

	// Keep the client reading so its library answers pings
	go func() {
		for {
			if _, _, err := c.Read(context.Background()); err != nil {
				return
			}
		}
	}()

	s := soleSession(t, env)
	m := newTestMonitor(env, time.Second)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		m.sweep(ctx)
		// Pong must restore the flag before the next cycle
		waitFor(t, func() bool { return s.alive.Load() })
	}
	require.Len(t, env.hub.snapshotSessions(), 1)
}
