package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/playverse/cardbot/internal/config"
	"github.com/playverse/cardbot/internal/engine"
	"github.com/playverse/cardbot/internal/render"
)

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestEngineList(t *testing.T) {
	env := stubEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/engines", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var list []engine.Info
	json.NewDecoder(w.Body).Decode(&list)
	if len(list) != 1 || list[0].Name != "stub" || list[0].Label != "Stub" {
		t.Errorf("engines = %+v", list)
	}
}

func TestConfigGetReturnsDefaults(t *testing.T) {
	env := stubEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/groups/fresh/config/guess", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var fc config.FeatureConfig
	json.NewDecoder(w.Body).Decode(&fc)
	if fc.Engine != "iyingdi" || fc.TimeLimit != 30 {
		t.Errorf("defaults = %+v", fc)
	}
}

func TestConfigGetUnknownFeature(t *testing.T) {
	env := stubEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/groups/g1/config/poker", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestConfigPutRequiresAuth(t *testing.T) {
	env := stubEnv(t)

	w := env.do(t, http.MethodPut, "/api/groups/g1/config/guess", "",
		config.FeatureConfig{Engine: "stub", TimeLimit: 45})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", w.Code)
	}

	w = env.do(t, http.MethodPut, "/api/groups/g1/config/guess", "wrong",
		config.FeatureConfig{Engine: "stub", TimeLimit: 45})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: expected 401, got %d", w.Code)
	}
}

func TestConfigPutStoresAndFillsDefaults(t *testing.T) {
	env := stubEnv(t)

	w := env.do(t, http.MethodPut, "/api/groups/g1/config/guess", testAdminToken,
		config.FeatureConfig{Engine: "stub", TimeLimit: 45})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var fc config.FeatureConfig
	json.NewDecoder(w.Body).Decode(&fc)
	if fc.Engine != "stub" || fc.TimeLimit != 45 {
		t.Errorf("stored = %+v", fc)
	}

	// Unknown engine names never reach the store.
	w = env.do(t, http.MethodPut, "/api/groups/g1/config/guess", testAdminToken,
		config.FeatureConfig{Engine: "nope"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown engine: expected 400, got %d", w.Code)
	}

	w = env.do(t, http.MethodPut, "/api/groups/g1/config/guess", testAdminToken,
		config.FeatureConfig{Engine: "stub", TimeLimit: -1})
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative time limit: expected 400, got %d", w.Code)
	}
}

func TestConfigPutRejectsNegativeLayoutValues(t *testing.T) {
	env := stubEnv(t)

	w := env.do(t, http.MethodPut, "/api/groups/g1/config/lookup", testAdminToken,
		config.FeatureConfig{Engine: "stub", Info: &render.InfoConfig{CountMax: -1}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative count_max: expected 400, got %d", w.Code)
	}

	// A partial layout with only positive fields is accepted, with the
	// rest filled from defaults on read.
	w = env.do(t, http.MethodPut, "/api/groups/g1/config/lookup", testAdminToken,
		config.FeatureConfig{Engine: "stub", Info: &render.InfoConfig{LineSizeMax: 20}})
	if w.Code != http.StatusOK {
		t.Fatalf("partial layout: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var fc config.FeatureConfig
	json.NewDecoder(w.Body).Decode(&fc)
	if fc.Info == nil || fc.Info.LineSizeMax != 20 || fc.Info.CountMax != render.DefaultInfoConfig().CountMax {
		t.Errorf("stored layout = %+v", fc.Info)
	}
}

func TestGuessCheckValidation(t *testing.T) {
	env := stubEnv(t)

	w := env.post(t, "/api/groups/g1/guess/check", GuessCheckRequest{Participant: 0, Text: "Goblin"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("zero participant: expected 400, got %d", w.Code)
	}

	w = env.post(t, "/api/groups/g1/guess/check", GuessCheckRequest{Participant: 7, Text: "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank text: expected 400, got %d", w.Code)
	}
}

func TestHistoryLimitValidation(t *testing.T) {
	env := stubEnv(t)

	for _, limit := range []string{"0", "101", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/groups/g1/history?limit="+limit, nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: expected 400, got %d", limit, w.Code)
		}
	}
}

func TestHistoryReturnsRecordedRounds(t *testing.T) {
	env := stubEnv(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := range 3 {
		err := env.store.RecordRound(context.Background(), Round{
			GroupID:   "g1",
			Feature:   config.FeatureGuess,
			Engine:    "stub",
			CardID:    "1",
			CardName:  "Genesis Dragon",
			Winner:    int64(i + 1),
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			EndedAt:   base.Add(time.Duration(i)*time.Minute + 30*time.Second),
		})
		if err != nil {
			t.Fatalf("recording round: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/groups/g1/history?limit=2", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var rounds []Round
	json.NewDecoder(w.Body).Decode(&rounds)
	if len(rounds) != 2 {
		t.Fatalf("got %d rounds, want 2", len(rounds))
	}
	if rounds[0].Winner != 3 || rounds[1].Winner != 2 {
		t.Errorf("order = %d, %d, want newest first", rounds[0].Winner, rounds[1].Winner)
	}
	if !rounds[0].StartedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("startedAt = %v", rounds[0].StartedAt)
	}
}

func TestAdminReload(t *testing.T) {
	env := stubEnv(t)

	if w := env.do(t, http.MethodPost, "/api/admin/reload", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", w.Code)
	}

	w := env.do(t, http.MethodPost, "/api/admin/reload", testAdminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp ReloadResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if !resp.Reloaded {
		t.Error("expected reloaded=true")
	}
}

func TestHealth(t *testing.T) {
	env := stubEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp HealthResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["sqlite"].Status != "ok" {
		t.Errorf("health = %+v", resp)
	}
}

func TestOpenAPISpec(t *testing.T) {
	env := stubEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var spec struct {
		Paths map[string]any `json:"paths"`
	}
	if err := json.NewDecoder(w.Body).Decode(&spec); err != nil {
		t.Fatalf("decoding spec: %v", err)
	}
	for _, p := range []string{
		"/healthz",
		"/api/engines",
		"/api/groups/{gid}/guess",
		"/api/groups/{gid}/guess/check",
		"/api/groups/{gid}/voice",
		"/api/groups/{gid}/lookup",
		"/api/groups/{gid}/history",
		"/api/admin/reload",
	} {
		if _, ok := spec.Paths[p]; !ok {
			t.Errorf("spec is missing %s", p)
		}
	}
}

func TestEventsStream(t *testing.T) {
	env := stubEnv(t)

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/groups/g1/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	// The subscription registers asynchronously, so publish until the
	// stream carries an event through.
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(20 * time.Millisecond):
				env.rounds.Unlock("g1")
			}
		}
	}()

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), "round_unlocked") {
			return
		}
	}
	t.Fatalf("stream closed without an event: %v", scanner.Err())
}
