package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func handleLookup(logger *slog.Logger, rounds *Rounds) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gid := chi.URLParam(r, "gid")

		var req RoundRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		data, err := rounds.Lookup(r.Context(), gid, cleanFilters(req.Filters))
		if errors.Is(err, ErrEmptyResult) {
			writeError(w, http.StatusNotFound, "no matching cards")
			return
		}
		if err != nil {
			logger.Error("rendering lookup", "group", gid, "error", err)
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
