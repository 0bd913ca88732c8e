package ws

import (
	"encoding/json"

	"nhooyr.io/websocket"
)

// Roles a connection can attach as.
const (
	RoleDevice = "device"
	RoleViewer = "viewer"
)

// Frame types on the wire.
const (
	typeRegister   = "register"
	typeRegistered = "registered"
	typeGateState  = "gate_state"
	typeCommand    = "command"
	typeInfo       = "info"
	typeError      = "error"
)

// StatusUnknownRoom is the close code sent when connect-time parameters
// name a room that was never reserved, so clients can tell "reserve first"
// apart from ordinary failures.
const StatusUnknownRoom websocket.StatusCode = 4001

// clientFrame is every inbound message shape folded into one struct;
// unused fields stay empty.
type clientFrame struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId,omitempty"`
	Role   string `json:"role,omitempty"`
	Gate   string `json:"gate,omitempty"`
	Action string `json:"action,omitempty"`
}

type serverFrame struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId,omitempty"`
	Role    string `json:"role,omitempty"`
	Gate    string `json:"gate,omitempty"`
	Action  string `json:"action,omitempty"`
	Message string `json:"message,omitempty"`
	TS      int64  `json:"ts,omitempty"` // epoch millis on relayed frames
}

// marshalFrame serializes a frame once for fan-out
func marshalFrame(f serverFrame) []byte {
	b, _ := json.Marshal(f)
	return b
}

func validRole(role string) bool {
	return role == RoleDevice || role == RoleViewer
}
