package ws

import (
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/require"
)

func TestSweepDeletesEmptyStaleRooms(t *testing.T) {
	st := NewRoomStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewIdleReaper(logger, st, time.Minute, 24*time.Hour)

	stale := st.CreateOrGet("stale-empty")
	stale.lastActivity.Store(time.Now().Add(-25 * time.Hour).UnixNano())

	fresh := st.CreateOrGet("fresh-empty")

	occupied := st.CreateOrGet("stale-occupied")
	occupied.lastActivity.Store(time.Now().Add(-48 * time.Hour).UnixNano())
	occupied.add(&session{}, RoleDevice)

	r.sweep(time.Now())

	require.Nil(t, st.Get("stale-empty"))
	require.Same(t, fresh, st.Get("fresh-empty"))
	// Occupancy wins over staleness
	require.Same(t, occupied, st.Get("stale-occupied"))
	require.Equal(t, 2, st.Size())
}

func TestSweepAfterLastMemberLeaves(t *testing.T) {
	st := NewRoomStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewIdleReaper(logger, st, time.Minute, 24*time.Hour)

	rm := st.CreateOrGet("acme-gate")
	rm.lastActivity.Store(time.Now().Add(-30 * time.Hour).UnixNano())
	c := &session{}
	rm.add(c, RoleViewer)

	r.sweep(time.Now())
	require.NotNil(t, st.Get("acme-gate"))

	rm.remove(c)
	r.sweep(time.Now())
	require.Nil(t, st.Get("acme-gate"))
}

func TestClosedRoomRejectsMembers(t *testing.T) {
	rm := newRoom("acme-gate")
	require.True(t, rm.closeIfEmpty())
	require.False(t, rm.add(&session{}, RoleDevice))
	require.Empty(t, rm.members(RoleDevice))

	occupied := newRoom("front-door")
	require.True(t, occupied.add(&session{}, RoleViewer))
	require.False(t, occupied.closeIfEmpty())
}

func TestSweepNeverReapsConcurrentlyJoinedRoom(t *testing.T) {
	st := NewRoomStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewIdleReaper(logger, st, time.Minute, 24*time.Hour)

	for i := 0; i < 5000; i++ {
		rm := st.CreateOrGet("stale")
		rm.lastActivity.Store(time.Now().Add(-25 * time.Hour).UnixNano())
		c := &session{}

		var attached atomic.Bool
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			// The realtime attach path: resolve, then join
			if got := st.Get("stale"); got != nil && got.add(c, RoleDevice) {
				attached.Store(true)
			}
		}()
		go func() {
			defer wg.Done()
			r.sweep(time.Now())
		}()
		wg.Wait()

		if attached.Load() {
			// A joined member pins the room in the store, however stale
			require.Same(t, rm, st.Get("stale"), "iteration %d", i)
			rm.remove(c)
			r.sweep(time.Now())
		}
		require.Nil(t, st.Get("stale"))
	}
}
