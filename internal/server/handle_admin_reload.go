package server

import (
	"net/http"

	"github.com/playverse/cardbot/internal/engine"
)

type ReloadResponse struct {
	Reloaded bool `json:"reloaded"`
}

func handleAdminReload(registry *engine.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		registry.Reload()
		writeJSON(w, http.StatusOK, ReloadResponse{Reloaded: true})
	}
}
