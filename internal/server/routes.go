package server

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playverse/cardbot/internal/config"
	"github.com/playverse/cardbot/internal/engine"
)

func addRoutes(r chi.Router, logger *slog.Logger, rounds *Rounds, registry *engine.Registry,
	groups *config.Groups, store RoundStore, broker *Broker, db *sql.DB, dataDir, adminTokenHash string) {

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Cardbot API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))
	r.Get("/artifacts/*", handleArtifacts(dataDir))

	r.Get("/api/engines", handleEngineList(registry))

	r.Route("/api/groups/{gid}", func(r chi.Router) {
		r.Get("/config/{feature}", handleConfigGet(groups))
		r.With(adminAuthMiddleware(adminTokenHash)).
			Put("/config/{feature}", handleConfigPut(groups, registry))

		r.Post("/guess", handleGuessStart(logger, rounds))
		r.Post("/guess/check", handleGuessCheck(rounds))
		r.Post("/voice", handleVoiceStart(logger, rounds))
		r.Post("/unlock", handleUnlock(rounds))
		r.Post("/lookup", handleLookup(logger, rounds))
		r.Get("/events", handleEvents(broker))
		r.Get("/history", handleHistory(logger, store))
	})

	r.With(adminAuthMiddleware(adminTokenHash)).
		Post("/api/admin/reload", handleAdminReload(registry))
}
