package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type UnlockResponse struct {
	Unlocked bool `json:"unlocked"`
}

// handleUnlock force-finishes a group's round, the escape hatch for a
// round that wedges without its timer firing.
func handleUnlock(rounds *Rounds) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gid := chi.URLParam(r, "gid")
		rounds.Unlock(gid)
		writeJSON(w, http.StatusOK, UnlockResponse{Unlocked: true})
	}
}
