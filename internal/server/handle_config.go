package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playverse/cardbot/internal/config"
	"github.com/playverse/cardbot/internal/engine"
)

func handleConfigGet(groups *config.Groups) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gid := chi.URLParam(r, "gid")
		feature := chi.URLParam(r, "feature")

		fc, err := groups.Feature(gid, feature)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, fc)
	}
}

func handleConfigPut(groups *config.Groups, registry *engine.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gid := chi.URLParam(r, "gid")
		feature := chi.URLParam(r, "feature")

		var fc config.FeatureConfig
		if err := readJSON(r, &fc); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if fc.Engine != "" {
			if _, err := registry.Get(fc.Engine); err != nil {
				writeError(w, http.StatusBadRequest, "unknown engine")
				return
			}
		}
		if fc.TimeLimit < 0 {
			writeError(w, http.StatusBadRequest, "time_limit must not be negative")
			return
		}
		if info := fc.Info; info != nil {
			if info.FontSize < 0 || info.FontSpacing < 0 || info.CountMax < 0 ||
				info.LineSizeMax < 0 || info.CardMargin < 0 {
				writeError(w, http.StatusBadRequest, "info values must not be negative")
				return
			}
		}

		if err := groups.SetFeature(gid, feature, fc); err != nil {
			writeDomainError(w, err)
			return
		}

		stored, err := groups.Feature(gid, feature)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stored)
	}
}
