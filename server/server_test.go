package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/optigo-xyz/go-optigo/engine"
	"github.com/optigo-xyz/go-optigo/history"
	"github.com/optigo-xyz/go-optigo/results"
	"github.com/optigo-xyz/go-optigo/solver"
)

const solveBody = `{
	"variables": [
		{"id": "x", "lower": 0, "upper": 4},
		{"id": "y", "lower": 0, "upper": 7}
	],
	"constraints": [
		{"terms": [{"id": "x", "coeff": 1}, {"id": "y", "coeff": 1}], "op": "<=", "rhs": 10}
	],
	"objective": {"direction": "maximize", "terms": [{"id": "x", "coeff": 1}, {"id": "y", "coeff": 1}]}
}`

func newTestServer(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	eng := engine.New(solver.New(1))
	return NewServer(eng, opts...).Mux()
}

func TestSolveEndpoint(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader(solveBody))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected json content type, got %q", ct)
	}

	var resp results.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Outcome != "optimal" {
		t.Errorf("expected optimal, got %q", resp.Outcome)
	}
	if resp.ObjectiveValue == nil || *resp.ObjectiveValue < 9.999 {
		t.Errorf("unexpected objective: %v", resp.ObjectiveValue)
	}
	if resp.Version != results.SchemaVersion {
		t.Errorf("expected schema version %q, got %q", results.SchemaVersion, resp.Version)
	}
}

func TestSolveEndpointValidation(t *testing.T) {
	h := newTestServer(t)
	body := `{
		"variables": [{"id": "x", "lower": 0, "upper": 1}],
		"constraints": [{"terms": [{"id": "z", "coeff": 1}], "op": "<=", "rhs": 1}],
		"objective": {"direction": "minimize", "terms": [{"id": "x", "coeff": 1}]}
	}`

	req := httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp results.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Outcome != results.OutcomeValidationError {
		t.Errorf("expected validation_error, got %q", resp.Outcome)
	}
	if resp.Error == nil || resp.Error.Field != "constraint.z" {
		t.Errorf("unexpected error detail: %+v", resp.Error)
	}
}

func TestSolveEndpointMethodNotAllowed(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/solve", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestDefaultsEndpoint(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/defaults", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var lim map[string]float64
	if err := json.Unmarshal(w.Body.Bytes(), &lim); err != nil {
		t.Fatalf("unmarshal defaults: %v", err)
	}
	if lim["timeLimitSeconds"] != 30 {
		t.Errorf("expected 30s default, got %v", lim["timeLimitSeconds"])
	}
	if lim["relativeGapTolerance"] != 1e-6 {
		t.Errorf("expected 1e-6 default gap, got %v", lim["relativeGapTolerance"])
	}
}

func TestRootEndpoint(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal root: %v", err)
	}
	if body["message"] == "" {
		t.Error("expected a greeting message")
	}

	req = httptest.NewRequest(http.MethodGet, "/nope", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown path, got %d", w.Code)
	}
}

func TestSolvesEndpoint(t *testing.T) {
	store := history.NewMemoryStore(10)
	eng := engine.New(solver.New(1), engine.WithHistory(store))
	h := NewServer(eng, WithHistory(store)).Mux()

	// Without any solves the history is an empty list, not null.
	req := httptest.NewRequest(http.MethodGet, "/solves", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("expected empty list, got %s", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/solve", strings.NewReader(solveBody))
	h.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/solves?limit=5", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var recs []history.Record
	if err := json.Unmarshal(w.Body.Bytes(), &recs); err != nil {
		t.Fatalf("unmarshal records: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Outcome != "optimal" {
		t.Errorf("expected optimal record, got %q", recs[0].Outcome)
	}
}

func TestSolvesEndpointNotConfigured(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/solves", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 without a store, got %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	h := newTestServer(t, WithCORS())

	req := httptest.NewRequest(http.MethodOptions, "/solve", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 preflight, got %d", w.Code)
	}
	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("expected allow-all origin, got %q", origin)
	}

	req = httptest.NewRequest(http.MethodGet, "/defaults", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("expected cors header on normal responses, got %q", origin)
	}
}
