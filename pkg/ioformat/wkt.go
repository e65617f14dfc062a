// Package ioformat reads and writes the matcher's input/output formats:
// WKT road files, CSV trajectories, and OSM PBF road networks.
package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mapmatch/pkg/geom"
	"mapmatch/pkg/matcherr"
)

// Road is one named polyline, ready for graph.AddDirectEdge or
// graph.AddBidirectionalEdge.
type Road struct {
	ID       string
	Polyline geom.Polyline
	Oneway   bool
}

// ReadWKTRoads reads one `LINESTRING (...)` per non-empty, non-comment
// line from r, building a Road per line with a synthetic "r<n>" ID.
// Only LINESTRING geometries are accepted; any other WKT tag is
// rejected. The parser is hand-rolled rather than built on orb's WKT
// encoding package; see DESIGN.md.
func ReadWKTRoads(r io.Reader, f *geom.Factory) ([]Road, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var roads []Road
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pl, err := parseWKTLineString(line, f)
		if err != nil {
			return nil, matcherr.New(matcherr.KindInvalidInput, "ioformat.ReadWKTRoads",
				fmt.Sprintf("line %d: %v", lineNo, err))
		}
		roads = append(roads, Road{ID: fmt.Sprintf("r%d", lineNo), Polyline: pl})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return roads, nil
}

func parseWKTLineString(s string, f *geom.Factory) (geom.Polyline, error) {
	const prefix = "LINESTRING"
	if !strings.HasPrefix(strings.ToUpper(s), prefix) {
		return geom.Polyline{}, fmt.Errorf("expected LINESTRING, got %q", firstToken(s))
	}
	rest := strings.TrimSpace(s[len(prefix):])
	if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
		return geom.Polyline{}, fmt.Errorf("malformed LINESTRING body: %q", s)
	}
	body := rest[1 : len(rest)-1]
	parts := strings.Split(body, ",")
	pts := make([]geom.Point, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		coords := strings.Fields(p)
		if len(coords) != 2 {
			return geom.Polyline{}, fmt.Errorf("malformed coordinate pair: %q", p)
		}
		x, err := strconv.ParseFloat(coords[0], 64)
		if err != nil {
			return geom.Polyline{}, fmt.Errorf("bad x coordinate %q: %w", coords[0], err)
		}
		y, err := strconv.ParseFloat(coords[1], 64)
		if err != nil {
			return geom.Polyline{}, fmt.Errorf("bad y coordinate %q: %w", coords[1], err)
		}
		pt, err := f.CreatePoint(x, y)
		if err != nil {
			return geom.Polyline{}, err
		}
		pts = append(pts, pt)
	}
	return f.CreatePolyline(pts...)
}

func firstToken(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return s
	}
	return f[0]
}

// WriteWKT renders a polyline as a `LINESTRING (...)` literal.
func WriteWKT(pl geom.Polyline) string {
	var b strings.Builder
	b.WriteString("LINESTRING (")
	for i, p := range pl.Points() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(p.X(), 'f', -1, 64))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(p.Y(), 'f', -1, 64))
	}
	b.WriteString(")")
	return b.String()
}
