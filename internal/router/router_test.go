package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"axiom/internal/service"
	"axiom/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	svcCtx := service.NewServiceContext(
		storage.NewMemoryExperimentRepository(),
		storage.NewMemoryRunRepository(),
	)
	return SetupRouter(svcCtx)
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return payload
}

func TestHealth(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	payload := decode(t, w)
	if payload["status"] != "ok" {
		t.Errorf("status field = %v, want ok", payload["status"])
	}
	if payload["strategies_available"] != 9.0 {
		t.Errorf("strategies_available = %v, want 9", payload["strategies_available"])
	}
}

func TestComputeEquilibrium(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, http.MethodPost, "/api/equilibrium", gin.H{
		"matrix": [][]float64{{3, 0}, {5, 1}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	payload := decode(t, w)
	if payload["num_equilibria"] != 1.0 {
		t.Errorf("num_equilibria = %v, want 1", payload["num_equilibria"])
	}
	if payload["is_unique"] != true {
		t.Errorf("is_unique = %v, want true", payload["is_unique"])
	}

	w = doJSON(t, r, http.MethodPost, "/api/equilibrium", gin.H{
		"matrix": [][]float64{{1, 2}, {3}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("ragged matrix: status = %d, want 400", w.Code)
	}
}

func TestStrategyEndpoints(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodGet, "/api/strategies", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status = %d", w.Code)
	}
	if payload := decode(t, w); payload["total"] != 9.0 {
		t.Errorf("total = %v, want 9", payload["total"])
	}

	w = doJSON(t, r, http.MethodPost, "/api/strategies/TitForTat/play", gin.H{
		"history": []gin.H{{"round": 1, "own_action": "C", "opponent_action": "D"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("play: status = %d, body = %s", w.Code, w.Body.String())
	}
	if payload := decode(t, w); payload["action"] != "D" {
		t.Errorf("action = %v, want D", payload["action"])
	}

	// Malformed actions are rejected rather than played.
	w = doJSON(t, r, http.MethodPost, "/api/strategies/TitForTat/play", gin.H{
		"history": []gin.H{{"round": 1, "own_action": "C", "opponent_action": "X"}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid action: status = %d, want 400", w.Code)
	}

	// Empty body means first move.
	w = doJSON(t, r, http.MethodPost, "/api/strategies/TitForTat/play", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("play with empty body: status = %d, body = %s", w.Code, w.Body.String())
	}
	if payload := decode(t, w); payload["action"] != "C" {
		t.Errorf("first move = %v, want C", payload["action"])
	}

	w = doJSON(t, r, http.MethodPost, "/api/strategies/NoSuchStrategy/play", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown strategy: status = %d, want 404", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/strategies/Cooperator/analyze", gin.H{"turns": 10})
	if w.Code != http.StatusOK {
		t.Fatalf("analyze: status = %d, body = %s", w.Code, w.Body.String())
	}
	if payload := decode(t, w); payload["cooperation_rate"] != 1.0 {
		t.Errorf("cooperation_rate = %v, want 1", payload["cooperation_rate"])
	}
}

func TestTournamentEndpoint(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/tournament", gin.H{
		"strategies":  []string{"Cooperator", "Defector"},
		"turns":       10,
		"repetitions": 1,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	payload := decode(t, w)
	if payload["winner"] != "Defector" {
		t.Errorf("winner = %v, want Defector", payload["winner"])
	}
	if payload["total_matches"] != 2.0 {
		t.Errorf("total_matches = %v, want 2", payload["total_matches"])
	}

	w = doJSON(t, r, http.MethodPost, "/api/tournament", gin.H{
		"strategies": []string{"Cooperator"},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("single strategy: status = %d, want 400", w.Code)
	}
}

func TestExperimentLifecycle(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/experiments", gin.H{
		"name":       "tft-dominance",
		"hypothesis": "TitForTat beats Defector over long horizons",
		"tags":       []string{"pd"},
		"config": gin.H{
			"strategies":  []string{"TitForTat", "Defector"},
			"turns":       10,
			"repetitions": 1,
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", w.Code, w.Body.String())
	}
	created := decode(t, w)
	experimentID, _ := created["id"].(string)
	if experimentID == "" {
		t.Fatal("expected an experiment id")
	}
	if created["status"] != "draft" {
		t.Errorf("status = %v, want draft", created["status"])
	}

	w = doJSON(t, r, http.MethodGet, "/api/experiments?tags=pd", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status = %d", w.Code)
	}
	if payload := decode(t, w); payload["total"] != 1.0 {
		t.Errorf("list total = %v, want 1", payload["total"])
	}

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/experiments/%s/runs", experimentID), gin.H{"count": 2})
	if w.Code != http.StatusCreated {
		t.Fatalf("create runs: status = %d, body = %s", w.Code, w.Body.String())
	}
	runsPayload := decode(t, w)
	if runsPayload["total"] != 2.0 {
		t.Errorf("runs total = %v, want 2", runsPayload["total"])
	}
	first := runsPayload["runs"].([]any)[0].(map[string]any)
	runID, _ := first["id"].(string)
	if runID == "" {
		t.Fatal("expected a run id")
	}
	if first["status"] != "pending" {
		t.Errorf("run status = %v, want pending", first["status"])
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/experiments/%s/runs/%s", experimentID, runID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get run: status = %d", w.Code)
	}

	// A run is only addressable under its own experiment.
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/experiments/%s/runs/%s", "wrong-experiment", runID), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-experiment run access: status = %d, want 404", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/experiments/%s/runs/%s/execute", experimentID, runID), nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("execute run: status = %d, body = %s", w.Code, w.Body.String())
	}
	if payload := decode(t, w); payload["status"] != "running" {
		t.Errorf("dispatched run status = %v, want running", payload["status"])
	}

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/experiments/%s", experimentID), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/experiments/%s", experimentID), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", w.Code)
	}
}

func TestExperimentValidation(t *testing.T) {
	r := newTestRouter()

	// Name, hypothesis and config are required.
	w := doJSON(t, r, http.MethodPost, "/api/experiments", gin.H{"name": "incomplete"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/experiments/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
