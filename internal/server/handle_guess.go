package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type RoundRequest struct {
	Filters []string `json:"filters"`
}

// cleanFilters drops empty filter terms, mirroring how blank-separated
// chat text tokenizes.
func cleanFilters(filters []string) []string {
	out := filters[:0]
	for _, f := range filters {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func handleGuessStart(logger *slog.Logger, rounds *Rounds) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gid := chi.URLParam(r, "gid")

		var req RoundRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		resp, err := rounds.StartGuess(r.Context(), gid, cleanFilters(req.Filters))
		if errors.Is(err, ErrEmptyResult) {
			writeJSON(w, http.StatusOK, GuessStart{Candidates: 0})
			return
		}
		if err != nil {
			logger.Error("starting guess round", "group", gid, "error", err)
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type GuessCheckRequest struct {
	Participant int64  `json:"participant"`
	Text        string `json:"text"`
}

func handleGuessCheck(rounds *Rounds) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gid := chi.URLParam(r, "gid")

		var req GuessCheckRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Participant <= 0 {
			writeError(w, http.StatusBadRequest, "participant must be positive")
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}

		resp, err := rounds.CheckGuess(gid, req.Participant, req.Text)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
