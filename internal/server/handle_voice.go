package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func handleVoiceStart(logger *slog.Logger, rounds *Rounds) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gid := chi.URLParam(r, "gid")

		var req RoundRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		resp, err := rounds.StartVoice(r.Context(), gid, cleanFilters(req.Filters))
		if errors.Is(err, ErrEmptyResult) {
			writeJSON(w, http.StatusOK, VoiceStart{Candidates: 0})
			return
		}
		if err != nil {
			logger.Error("starting voice round", "group", gid, "error", err)
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
