package ws

import (
	"sync"

	"gate-relay/pkg/metrics"
)

// RoomStore is the single source of truth for which rooms exist. Rooms are
// only ever created through CreateOrGet (the reservation path); the
// realtime path resolves rooms with Get and can never create one.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: map[string]*Room{}}
}

// Create inserts an empty room under id if absent, reporting whether this
// call created it. The flag makes the reservation handler's uniqueness
// probe race-free: of two concurrent reservations only one sees true.
func (st *RoomStore) Create(id string) (*Room, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if rm, ok := st.rooms[id]; ok {
		return rm, false
	}
	rm := newRoom(id)
	st.rooms[id] = rm
	metrics.Rooms.Set(float64(len(st.rooms)))
	return rm, true
}

// CreateOrGet inserts an empty room under id if absent and returns it.
// Idempotent; reservation path only.
func (st *RoomStore) CreateOrGet(id string) *Room {
	rm, _ := st.Create(id)
	return rm
}

// Get is a pure lookup; returns nil for unknown ids and never creates
func (st *RoomStore) Get(id string) *Room {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.rooms[id]
}

// Has reports existence without creating; used by the reservation
// handler's uniqueness probe
func (st *RoomStore) Has(id string) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	_, ok := st.rooms[id]
	return ok
}

// Touch marks the room active now
func (st *RoomStore) Touch(rm *Room) { rm.touch() }

// Delete removes the entry unconditionally
func (st *RoomStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.rooms, id)
	metrics.Rooms.Set(float64(len(st.rooms)))
}

// Size reports the room count for status endpoints
func (st *RoomStore) Size() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.rooms)
}

// snapshot copies the current room list for sweep scans
func (st *RoomStore) snapshot() []*Room {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*Room, 0, len(st.rooms))
	for _, rm := range st.rooms {
		out = append(out, rm)
	}
	return out
}
