package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mapmatch/pkg/geom"
	"mapmatch/pkg/graph"
	"mapmatch/pkg/match"
	"mapmatch/pkg/topo"
)

func testHandlers(t *testing.T) *Handlers {
	t.Helper()
	f := geom.NewFactory(topo.Planar{})
	g, err := graph.New(f, 1e-6)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	a, _ := f.CreatePoint(0, 0)
	b, _ := f.CreatePoint(0, 100)
	pl, _ := f.CreatePolyline(a, b)
	if _, err := g.AddDirectEdge("e0", pl); err != nil {
		t.Fatalf("AddDirectEdge: %v", err)
	}
	g.BuildIndex()

	cfg := match.Config{Kernel: match.Gaussian, Sigma: 15, Plugins: []match.Plugin{{Kind: match.Topological}}, CandidateRadius: 200}
	return NewHandlers(g, cfg, StatsResponse{NumNodes: g.NumNodes(), NumEdges: g.NumEdges()})
}

func TestHandleMatch_Success(t *testing.T) {
	h := testHandlers(t)

	body := `{"points":[{"lat":10,"lng":1},{"lat":30,"lng":1}]}`
	req := httptest.NewRequest("POST", "/api/v1/match", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleMatch(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. body: %s", w.Code, w.Body.String())
	}
	var resp MatchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.DecodedEdgeIDs) != 2 {
		t.Errorf("DecodedEdgeIDs length = %d, want 2", len(resp.DecodedEdgeIDs))
	}
}

func TestHandleMatch_InvalidJSON(t *testing.T) {
	h := testHandlers(t)

	req := httptest.NewRequest("POST", "/api/v1/match", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleMatch(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleMatch_MissingContentType(t *testing.T) {
	h := testHandlers(t)

	body := `{"points":[{"lat":10,"lng":1}]}`
	req := httptest.NewRequest("POST", "/api/v1/match", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.HandleMatch(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleMatch_OutOfBounds(t *testing.T) {
	h := testHandlers(t)

	body := `{"points":[{"lat":91.0,"lng":1}]}`
	req := httptest.NewRequest("POST", "/api/v1/match", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleMatch(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleMatch_EmptyPoints(t *testing.T) {
	h := testHandlers(t)

	body := `{"points":[]}`
	req := httptest.NewRequest("POST", "/api/v1/match", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleMatch(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	h := testHandlers(t)

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()

	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	var resp HealthResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want 'ok'", resp.Status)
	}
}

func TestHandleStats(t *testing.T) {
	h := testHandlers(t)

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()

	h.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	var resp StatsResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.NumNodes != 2 {
		t.Errorf("NumNodes = %d, want 2", resp.NumNodes)
	}
}
