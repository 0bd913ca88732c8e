package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"log/slog"

	"nhooyr.io/websocket"

	"gate-relay/pkg/metrics"
)

// Hub accepts websocket connections, runs the attach protocol, and
// dispatches role-gated messages into the relay. It tracks every open
// session so the liveness monitor can probe them.
type Hub struct {
	log   *slog.Logger
	store *RoomStore

	readLimit int64

	mu       sync.Mutex
	sessions map[*session]struct{} // all open connections, attached or not
}

func NewHub(logger *slog.Logger, store *RoomStore, readLimit int64) *Hub {
	return &Hub{
		log:       logger,
		store:     store,
		readLimit: readLimit,
		sessions:  map[*session]struct{}{},
	}
}

// Store exposes the room store to the REST collaborators
func (h *Hub) Store() *RoomStore { return h.store }

type attachResult int

const (
	attachOK attachResult = iota
	attachAlready           // repeated register, ignored
	attachInvalid           // bad params, connection stays open
	attachUnknownRoom       // room was never reserved
)

// ServeWS handles a new /ws connection. Room and role may arrive as query
// parameters for immediate attachment, or later in a register frame.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	roomID := r.URL.Query().Get("roomId")
	role := r.URL.Query().Get("role")

	conn, err := Accept(w, r, h.readLimit)
	if err != nil {
		h.log.Error("ws.accept", "err", err)
		return
	}

	c := newSession(conn)
	h.track(c)
	defer func() {
		h.untrack(c)
		h.detach(c)
		c.closeWith(websocket.StatusNormalClosure, "bye")
	}()

	// Outbound writer for relayed frames
	go c.writeLoop(ctx)

	if roomID == "" && role == "" {
		c.sendNow(ctx, serverFrame{Type: typeInfo, Message: "send a register frame with roomId and role"})
	} else if h.attach(ctx, c, roomID, role) == attachUnknownRoom {
		// Reject immediately so the client can tell "reserve first"
		// apart from a flaky network
		c.closeWith(StatusUnknownRoom, "unknown room")
		return
	}

	// Inbound reader; malformed frames are dropped without comment
	for {
		data, ok := c.read(ctx)
		if !ok {
			break
		}
		var f clientFrame
		if err := json.Unmarshal(data, &f); err != nil {
			continue
		}
		h.dispatch(ctx, c, &f)
	}
}

// attach runs the one-shot attach protocol. Validation failures answer
// with an error frame and leave the session unattached for a retry.
func (h *Hub) attach(ctx context.Context, c *session, roomID, role string) attachResult {
	if c.attached() {
		return attachAlready
	}
	if roomID == "" || !validRole(role) {
		c.sendNow(ctx, serverFrame{Type: typeError, Message: "roomId and role (device|viewer) are required"})
		return attachInvalid
	}
	rm := h.store.Get(roomID)
	if rm == nil || !rm.add(c, role) {
		// Absent, or reaped between the lookup and the join
		c.sendNow(ctx, serverFrame{Type: typeError, Message: "unknown room " + roomID + ", reserve it first"})
		return attachUnknownRoom
	}
	c.rm, c.roomID, c.role = rm, roomID, role
	h.store.Touch(rm)
	metrics.Connections.WithLabelValues(role).Inc()
	c.sendNow(ctx, serverFrame{Type: typeRegistered, RoomID: roomID, Role: role})
	h.log.Debug("ws.attach", "session", c.id, "room", roomID, "role", role)
	return attachOK
}

// dispatch routes an inbound frame. Wrong-role, pre-attach, unknown-type
// and badly-valued frames are all ignored to tolerate noisy clients.
func (h *Hub) dispatch(ctx context.Context, c *session, f *clientFrame) {
	switch f.Type {
	case typeRegister:
		h.attach(ctx, c, f.RoomID, f.Role)

	case typeGateState:
		if c.role != RoleDevice {
			return
		}
		gate := strings.ToUpper(f.Gate)
		if gate != "OPEN" && gate != "CLOSED" {
			return
		}
		h.store.Touch(c.rm)
		h.relay(c, serverFrame{Type: typeGateState, RoomID: c.roomID, Gate: gate, TS: time.Now().UnixMilli()})

	case typeCommand:
		if c.role != RoleViewer {
			return
		}
		action := strings.ToUpper(f.Action)
		if action != "OPEN" && action != "CLOSE" {
			return
		}
		h.store.Touch(c.rm)
		h.relay(c, serverFrame{Type: typeCommand, RoomID: c.roomID, Action: action, TS: time.Now().UnixMilli()})
	}
}

// detach unconditionally removes the session from its room's sets; a
// concurrently reaped room makes this a no-op
func (h *Hub) detach(c *session) {
	if !c.attached() {
		return
	}
	c.rm.remove(c)
	metrics.Connections.WithLabelValues(c.role).Dec()
	h.log.Debug("ws.detach", "session", c.id, "room", c.roomID, "role", c.role)
}

func (h *Hub) track(c *session) {
	h.mu.Lock()
	h.sessions[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) untrack(c *session) {
	h.mu.Lock()
	delete(h.sessions, c)
	h.mu.Unlock()
}

// snapshotSessions copies the open-connection set for the liveness sweep
func (h *Hub) snapshotSessions() []*session {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*session, 0, len(h.sessions))
	for c := range h.sessions {
		out = append(out, c)
	}
	return out
}
