package server

import (
	"errors"
	"net/http"

	"github.com/playverse/cardbot/internal/config"
	"github.com/playverse/cardbot/internal/engine"
)

// writeDomainError maps the packages' sentinel errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBusy):
		writeError(w, http.StatusConflict, "a round is already in progress")
	case errors.Is(err, ErrNoRound):
		writeError(w, http.StatusNotFound, "no round in progress")
	case errors.Is(err, engine.ErrUnsupported):
		writeError(w, http.StatusNotImplemented, "engine does not support this feature")
	case errors.Is(err, engine.ErrUnknownEngine):
		writeError(w, http.StatusBadRequest, "unknown engine")
	case errors.Is(err, config.ErrUnknownFeature):
		writeError(w, http.StatusNotFound, "unknown feature")
	case errors.Is(err, engine.ErrUnavailable):
		writeError(w, http.StatusBadGateway, "data fetch failed")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
