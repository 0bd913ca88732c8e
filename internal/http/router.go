package httpx

import (
	"net/http"

	"log/slog"

	"gate-relay/internal/app"
	"gate-relay/internal/ws"
	"gate-relay/pkg/metrics"
)

// NewRouter wires up all HTTP routes, middleware, and handlers. The
// websocket endpoint sits outside the REST middleware: CORS and rate
// limits are for the reservation surface, not the realtime one.
func NewRouter(cfg app.Config, logger *slog.Logger, hub *ws.Hub) http.Handler {
	mw := NewMiddleware(cfg)
	api := &RoomsAPI{Store: hub.Store()}

	rest := http.NewServeMux()

	// Health / readiness / metrics
	rest.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	rest.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	rest.Handle("/metrics", metrics.Handler())

	// Room reservation + status
	rest.Handle("/api/rooms", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			api.Reserve(w, r)
			return
		}
		http.NotFound(w, r)
	}))
	rest.Handle("/api/status", http.HandlerFunc(api.Status))

	root := http.NewServeMux()
	root.Handle("/ws", http.HandlerFunc(hub.ServeWS))
	root.Handle("/", mw.Wrap(rest))
	return root
}
