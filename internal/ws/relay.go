package ws

import "gate-relay/pkg/metrics"

// relay fans a frame out to the opposite role in the sender's room.
// The payload is serialized once and delivered from a single snapshot of
// the target set; per-recipient failures (full buffer, mid-close race)
// are swallowed. Fire and forget.
func (h *Hub) relay(from *session, f serverFrame) {
	target := RoleViewer
	if from.role == RoleViewer {
		target = RoleDevice
	}

	payload := marshalFrame(f)
	for _, c := range from.rm.members(target) {
		c.enqueue(payload)
	}
	metrics.MessagesRelayed.WithLabelValues(f.Type).Inc()
}
