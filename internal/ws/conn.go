package ws

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

// session is the per-connection state machine: unattached until a valid
// register, then bound to one room and role for the rest of its life.
type session struct {
	id  string // for log correlation
	ws  *websocket.Conn
	out chan []byte

	roomID string
	role   string
	rm     *Room

	alive atomic.Bool                     // cleared by each probe, set by the pong
	ping  func(ctx context.Context) error // overridable in tests

	closeOnce sync.Once
}

// Accept upgrades HTTP to websocket. All origins are allowed (the REST
// layer owns CORS policy); compression stays off for small frequent
// control frames.
func Accept(w http.ResponseWriter, r *http.Request, readLimit int64) (*websocket.Conn, error) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(readLimit)
	return conn, nil
}

func newSession(conn *websocket.Conn) *session {
	c := &session{
		id:   uuid.NewString(),
		ws:   conn,
		out:  make(chan []byte, 256),
		ping: conn.Ping,
	}
	c.alive.Store(true)
	return c
}

func (c *session) attached() bool { return c.rm != nil }

// read blocks for the next text/binary frame; false means the connection
// is gone
func (c *session) read(ctx context.Context) ([]byte, bool) {
	for {
		typ, data, err := c.ws.Read(ctx)
		if err != nil {
			return nil, false
		}
		if typ == websocket.MessageText || typ == websocket.MessageBinary {
			return data, true
		}
	}
}

// sendNow writes a frame synchronously, keeping control responses ordered
// ahead of any close frame; relayed traffic goes through enqueue instead
func (c *session) sendNow(ctx context.Context, f serverFrame) {
	_ = c.ws.Write(ctx, websocket.MessageText, marshalFrame(f))
}

// enqueue hands bytes to the write loop without blocking; a full buffer
// drops the frame (best-effort delivery)
func (c *session) enqueue(b []byte) {
	select {
	case c.out <- b:
	default:
	}
}

// writeLoop drains the outbound queue until the context ends
func (c *session) writeLoop(ctx context.Context) {
	for {
		select {
		case b := <-c.out:
			_ = c.ws.Write(ctx, websocket.MessageText, b)
		case <-ctx.Done():
			return
		}
	}
}

// closeWith sends a close frame with the given code, once
func (c *session) closeWith(code websocket.StatusCode, reason string) {
	c.closeOnce.Do(func() { _ = c.ws.Close(code, reason) })
}

// terminate tears the connection down without a close handshake; used when
// the peer is presumed unreachable
func (c *session) terminate() {
	c.closeOnce.Do(func() { _ = c.ws.CloseNow() })
}
