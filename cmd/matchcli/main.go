// Command matchcli is the map-matcher's batch harness (spec.md §6): it
// takes a trajectory id and a WKT roads file, decodes the trajectory
// against the road graph built from that file, and prints the decoded
// edge sequence, the connected edge sequence, the concatenated path as
// WKT, and the average orthogonal positioning error.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"mapmatch/pkg/geom"
	"mapmatch/pkg/graph"
	"mapmatch/pkg/ioformat"
	"mapmatch/pkg/match"
	"mapmatch/pkg/topo"
)

func main() {
	trajDir := flag.String("traj-dir", ".", "directory containing <trajectory-id>.csv files")
	tau := flag.Float64("tau", 1.0, "node-coalescing merge threshold, metres")
	sigma := flag.Float64("sigma", 15.0, "emission kernel sigma, metres")
	candidateRadius := flag.Float64("candidate-radius", 200.0, "candidate-edge search radius, metres")
	proximityRadius := flag.Float64("proximity-radius", 200.0, "observation prefilter radius, metres")
	smooth := flag.Bool("smooth", false, "pre-smooth the trajectory with a Kalman filter before matching")
	smoothSigmaObs := flag.Float64("smooth-sigma-obs", 10.0, "Kalman pre-smoother observation noise, metres")
	smoothSigmaProc := flag.Float64("smooth-sigma-proc", 2.0, "Kalman pre-smoother process noise, metres")
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: matchcli [flags] <trajectory-id> <roads.wkt>")
		os.Exit(1)
	}
	trajectoryID, roadsPath := args[0], args[1]

	f := geom.NewFactory(topo.Geoidal{})

	roadsFile, err := os.Open(roadsPath)
	if err != nil {
		log.Fatalf("opening roads file: %v", err)
	}
	defer roadsFile.Close()

	roads, err := ioformat.ReadWKTRoads(roadsFile, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "malformed roads file: %v\n", err)
		os.Exit(1)
	}

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
	log.Printf("matchcli: graph built: %d nodes, %d edges", g.NumNodes(), g.NumEdges())

	trajPath := filepath.Join(*trajDir, trajectoryID+".csv")
	trajFile, err := os.Open(trajPath)
	if err != nil {
		log.Fatalf("opening trajectory %s: %v", trajPath, err)
	}
	defer trajFile.Close()

	fixes, err := ioformat.ReadTrajectoryCSV(trajFile, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "malformed trajectory: %v\n", err)
		os.Exit(1)
	}
	points := make([]geom.Point, len(fixes))
	timestamps := make([]time.Time, len(fixes))
	for i, fx := range fixes {
		points[i] = fx.Point
		timestamps[i] = fx.Timestamp
	}

	if *smooth {
		smoothed, err := match.SmoothTrajectory(f, points, timestamps, *smoothSigmaObs, *smoothSigmaProc)
		if err != nil {
			log.Fatalf("smoothing trajectory: %v", err)
		}
		points = smoothed
	}

	cfg := match.Config{
		Kernel:          match.Gaussian,
		Sigma:           *sigma,
		Plugins:         []match.Plugin{{Kind: match.Topological}, {Kind: match.Direction}},
		CandidateRadius: *candidateRadius,
	}
	m := match.New(g, cfg)

	res, err := m.Match(points, *proximityRadius)
	if err != nil {
		fmt.Fprintf(os.Stderr, "match failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("decoded:", edgeLabels(g, res.Decoded))
	fmt.Println("connected:", edgeLabels(g, res.Connected))
	if res.Path.Len() > 0 {
		fmt.Println("path:", ioformat.WriteWKT(res.Path))
	} else {
		fmt.Println("path: (empty)")
	}
	fmt.Printf("average orthogonal error: %.2f m\n", m.AverageOrthogonalError(points, res.Decoded))
}

func edgeLabels(g *graph.Graph, edges []graph.EdgeID) string {
	labels := make([]string, len(edges))
	for i, e := range edges {
		if e < 0 {
			labels[i] = "-"
			continue
		}
		labels[i] = g.Edge(e).ID
	}
	s := "["
	for i, l := range labels {
		if i > 0 {
			s += " "
		}
		s += l
	}
	return s + "]"
}
