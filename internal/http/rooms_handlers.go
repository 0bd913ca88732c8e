package httpx

import (
	"encoding/json"
	"net/http"

	"gate-relay/internal/ws"
	"gate-relay/pkg/slugid"
)

// maxSuffixProbes bounds the random-suffix search when a slug is taken
const maxSuffixProbes = 8

type RoomsAPI struct{ Store *ws.RoomStore }

type reserveReq struct {
	Name string `json:"name"`
}

type reserveResp struct {
	RoomID string `json:"roomId"`
}

type statusResp struct {
	Rooms int `json:"rooms"`
}

// Reserve creates a room from a human name: deterministic slug first,
// then random 3-digit suffixes until a free id is found. Reservation is
// the only path that ever creates a room.
func (a *RoomsAPI) Reserve(w http.ResponseWriter, r *http.Request) {
	var req reserveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	base := slugid.Make(req.Name)
	if base == "" {
		http.Error(w, "name has no usable characters", http.StatusBadRequest)
		return
	}

	id := base
	for i := 0; ; i++ {
		// Create is atomic, so two racing reservations of the same name
		// cannot both claim one id
		if _, created := a.Store.Create(id); created {
			break
		}
		if i == maxSuffixProbes {
			http.Error(w, "no free room id", http.StatusConflict)
			return
		}
		id = slugid.WithSuffix(base)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(reserveResp{RoomID: id})
}

// Status reports the current room count
func (a *RoomsAPI) Status(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(statusResp{Rooms: a.Store.Size()})
}
