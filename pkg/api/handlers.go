package api

import (
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"

	"mapmatch/pkg/geom"
	"mapmatch/pkg/graph"
	"mapmatch/pkg/ioformat"
	"mapmatch/pkg/match"
)

// Handlers holds the HTTP handlers and their dependencies: a pre-built
// road graph and the matcher configuration applied to every request.
type Handlers struct {
	graph  *graph.Graph
	config match.Config
	stats  StatsResponse
}

// NewHandlers creates handlers bound to g and cfg.
func NewHandlers(g *graph.Graph, cfg match.Config, stats StatsResponse) *Handlers {
	return &Handlers{graph: g, config: cfg, stats: stats}
}

const defaultProximityRadius = 200.0

// HandleMatch handles POST /api/v1/match.
func (h *Handlers) HandleMatch(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	var req MatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}
	if len(req.Points) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "points")
		return
	}

	points := make([]geom.Point, len(req.Points))
	for i, ll := range req.Points {
		if err := validateCoord(ll); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_coordinates", "points")
			return
		}
		pt, err := h.graph.Factory().CreatePoint(ll.Lng, ll.Lat)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_coordinates", "points")
			return
		}
		points[i] = pt
	}

	proximityRadius := req.ProximityRadius
	if proximityRadius <= 0 {
		proximityRadius = defaultProximityRadius
	}

	m := match.New(h.graph, h.config)
	result, err := m.Match(points, proximityRadius)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	resp := MatchResponse{
		DecodedEdgeIDs:     edgeIDStrings(h.graph, result.Decoded),
		ConnectedEdgeIDs:   edgeIDStrings(h.graph, result.Connected),
		AverageErrorMeters: m.AverageOrthogonalError(points, result.Decoded),
	}
	if result.Path.Len() > 0 {
		resp.PathWKT = ioformat.WriteWKT(result.Path)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.stats)
}

func edgeIDStrings(g *graph.Graph, edges []graph.EdgeID) []string {
	out := make([]string, len(edges))
	for i, e := range edges {
		if e < 0 {
			out[i] = ""
			continue
		}
		out[i] = g.Edge(e).ID
	}
	return out
}

func validateCoord(ll LatLngJSON) error {
	if math.IsNaN(ll.Lat) || math.IsNaN(ll.Lng) || math.IsInf(ll.Lat, 0) || math.IsInf(ll.Lng, 0) {
		return errors.New("coordinates must be finite numbers")
	}
	if ll.Lat < -90 || ll.Lat > 90 || ll.Lng < -180 || ll.Lng > 180 {
		return errors.New("coordinates out of range")
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
