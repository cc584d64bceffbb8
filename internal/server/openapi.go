package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playverse/cardbot/internal/config"
	"github.com/playverse/cardbot/internal/engine"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Cardbot API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Card-data engines and guessing games for chat groups.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/engines
	listEngines, _ := r.NewOperationContext(http.MethodGet, "/api/engines")
	listEngines.SetSummary("List engines")
	listEngines.SetDescription("Returns the registered card-data engines with their source labels.")
	listEngines.AddRespStructure([]engine.Info{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listEngines)

	// GET /api/groups/{gid}/config/{feature}
	getConfig, _ := r.NewOperationContext(http.MethodGet, "/api/groups/{gid}/config/{feature}")
	getConfig.SetSummary("Get group feature config")
	getConfig.SetDescription("Returns the group's settings for a feature (guess, voice, lookup) with defaults filled in.")
	getConfig.AddRespStructure(config.FeatureConfig{}, openapi.WithHTTPStatus(http.StatusOK))
	getConfig.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getConfig)

	// PUT /api/groups/{gid}/config/{feature}
	putConfig, _ := r.NewOperationContext(http.MethodPut, "/api/groups/{gid}/config/{feature}")
	putConfig.SetSummary("Update group feature config")
	putConfig.SetDescription("Stores the group's settings for a feature. Requires admin bearer token.")
	putConfig.AddReqStructure(config.FeatureConfig{})
	putConfig.AddRespStructure(config.FeatureConfig{}, openapi.WithHTTPStatus(http.StatusOK))
	putConfig.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	putConfig.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(putConfig)

	// POST /api/groups/{gid}/guess
	postGuess, _ := r.NewOperationContext(http.MethodPost, "/api/groups/{gid}/guess")
	postGuess.SetSummary("Start a guess round")
	postGuess.SetDescription("Starts an image-crop guessing round. Zero candidates means no round was started.")
	postGuess.AddReqStructure(RoundRequest{})
	postGuess.AddRespStructure(GuessStart{}, openapi.WithHTTPStatus(http.StatusOK))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(postGuess)

	// POST /api/groups/{gid}/guess/check
	postCheck, _ := r.NewOperationContext(http.MethodPost, "/api/groups/{gid}/guess/check")
	postCheck.SetSummary("Check a guess")
	postCheck.SetDescription("Matches a participant's text against the pending answer. The first correct guess claims the win.")
	postCheck.AddReqStructure(GuessCheckRequest{})
	postCheck.AddRespStructure(GuessCheck{}, openapi.WithHTTPStatus(http.StatusOK))
	postCheck.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postCheck)

	// POST /api/groups/{gid}/voice
	postVoice, _ := r.NewOperationContext(http.MethodPost, "/api/groups/{gid}/voice")
	postVoice.SetSummary("Start a voice round")
	postVoice.SetDescription("Starts a voice-line guessing round. Only engines with voice data support this.")
	postVoice.AddReqStructure(RoundRequest{})
	postVoice.AddRespStructure(VoiceStart{}, openapi.WithHTTPStatus(http.StatusOK))
	postVoice.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postVoice.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotImplemented))
	_ = r.AddOperation(postVoice)

	// POST /api/groups/{gid}/unlock
	postUnlock, _ := r.NewOperationContext(http.MethodPost, "/api/groups/{gid}/unlock")
	postUnlock.SetSummary("Unlock a stuck round")
	postUnlock.SetDescription("Force-finishes the group's round.")
	postUnlock.AddRespStructure(UnlockResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postUnlock)

	// POST /api/groups/{gid}/lookup
	postLookup, _ := r.NewOperationContext(http.MethodPost, "/api/groups/{gid}/lookup")
	postLookup.SetSummary("Render card lookup")
	postLookup.SetDescription("Searches cards and renders them as one PNG info composite.")
	postLookup.AddReqStructure(RoundRequest{})
	postLookup.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("image/png"))
	postLookup.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postLookup)

	// GET /api/groups/{gid}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/groups/{gid}/events")
	getEvents.SetSummary("SSE round events")
	getEvents.SetDescription("Server-Sent Events stream of round outcomes for the group.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/groups/{gid}/history
	getHistory, _ := r.NewOperationContext(http.MethodGet, "/api/groups/{gid}/history")
	getHistory.SetSummary("Round history")
	getHistory.SetDescription("Returns the group's most recent rounds.")
	getHistory.AddRespStructure([]Round{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHistory)

	// POST /api/admin/reload
	postReload, _ := r.NewOperationContext(http.MethodPost, "/api/admin/reload")
	postReload.SetSummary("Reload engines")
	postReload.SetDescription("Rebuilds the engine registry, dropping cached catalogs. Requires admin bearer token.")
	postReload.AddRespStructure(ReloadResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postReload.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postReload)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
