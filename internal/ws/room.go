package ws

import (
	"sync"
	"sync/atomic"
	"time"
)

// Room pairs device and viewer connections under one reserved id. The
// membership sets hold back-references only: deleting a room never closes
// its members, and a closing member can always remove itself even if the
// room was reaped meanwhile.
type Room struct {
	id string

	mu      sync.RWMutex
	devices map[*session]struct{}
	viewers map[*session]struct{}
	closed  bool // set by the reaper; no members may join afterwards

	lastActivity atomic.Int64 // unix nanos, set on create/attach/relay
}

func newRoom(id string) *Room {
	rm := &Room{
		id:      id,
		devices: map[*session]struct{}{},
		viewers: map[*session]struct{}{},
	}
	rm.touch()
	return rm
}

func (r *Room) ID() string { return r.id }

func (r *Room) touch() { r.lastActivity.Store(time.Now().UnixNano()) }

func (r *Room) lastActive() time.Time {
	return time.Unix(0, r.lastActivity.Load())
}

// add registers a connection under its role. It fails once the room has
// been reaped, so a racing attach cannot end up in a room that is gone
// from the store.
func (r *Room) add(c *session, role string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	if role == RoleDevice {
		r.devices[c] = struct{}{}
	} else {
		r.viewers[c] = struct{}{}
	}
	return true
}

// remove drops a connection from whichever set holds it; safe to call
// after the room has been deleted from the store
func (r *Room) remove(c *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.devices, c)
	delete(r.viewers, c)
}

// members snapshots one role's set so delivery never holds the lock
func (r *Room) members(role string) []*session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.viewers
	if role == RoleDevice {
		set = r.devices
	}
	out := make([]*session, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// closeIfEmpty marks the room dead when no members remain, under the same
// lock that guards add. Only a closed room may be deleted from the store.
func (r *Room) closeIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.devices) > 0 || len(r.viewers) > 0 {
		return false
	}
	r.closed = true
	return true
}
