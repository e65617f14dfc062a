// Command matchd is an optional thin HTTP JSON wrapper around the
// matcher: it builds a road graph from a WKT file at startup and serves
// match requests over /api/v1/match. The core matcher has no network
// dependency; this binary is strictly peripheral.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"mapmatch/pkg/api"
	"mapmatch/pkg/geom"
	"mapmatch/pkg/graph"
	"mapmatch/pkg/ioformat"
	"mapmatch/pkg/match"
	"mapmatch/pkg/topo"
)

func main() {
	roadsPath := flag.String("roads", "", "Path to a WKT roads file")
	port := flag.Int("port", 8080, "HTTP port")
	tau := flag.Float64("tau", 1.0, "node-coalescing merge threshold, metres")
	sigma := flag.Float64("sigma", 15.0, "emission kernel sigma, metres")
	candidateRadius := flag.Float64("candidate-radius", 200.0, "candidate-edge search radius, metres")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	if *roadsPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: matchd --roads <roads.wkt> [--port 8080]")
		os.Exit(1)
	}

	start := time.Now()

	log.Printf("Loading roads from %s...", *roadsPath)
	f := geom.NewFactory(topo.Geoidal{})
	roadsFile, err := os.Open(*roadsPath)
	if err != nil {
		log.Fatalf("opening roads file: %v", err)
	}
	roads, err := ioformat.ReadWKTRoads(roadsFile, f)
	roadsFile.Close()
	if err != nil {
		log.Fatalf("parsing roads file: %v", err)
	}

	log.Println("Building graph...")
	g, err := graph.New(f, *tau)
	if err != nil {
		log.Fatalf("building graph: %v", err)
	}
	for _, r := range roads {
		if _, err := g.AddDirectEdge(r.ID, r.Polyline); err != nil {
			log.Fatalf("adding road %s: %v", r.ID, err)
		}
	}
	g.BuildIndex()
	log.Printf("Ready in %s: %d nodes, %d edges", time.Since(start).Round(time.Millisecond), g.NumNodes(), g.NumEdges())

	cfg := api.DefaultConfig(fmt.Sprintf(":%d", *port))
	cfg.CORSOrigin = *corsOrigin

	stats := api.StatsResponse{NumNodes: g.NumNodes(), NumEdges: g.NumEdges()}
	matchCfg := match.Config{
		Kernel:          match.Gaussian,
		Sigma:           *sigma,
		Plugins:         []match.Plugin{{Kind: match.Topological}, {Kind: match.Direction}},
		CandidateRadius: *candidateRadius,
	}

	handlers := api.NewHandlers(g, matchCfg, stats)
	srv := api.NewServer(cfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
