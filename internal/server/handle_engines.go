package server

import (
	"net/http"

	"github.com/playverse/cardbot/internal/engine"
)

func handleEngineList(registry *engine.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, registry.List())
	}
}
