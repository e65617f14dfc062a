package ioformat

import (
	"strings"
	"testing"

	"mapmatch/pkg/geom"
	"mapmatch/pkg/topo"
)

func testFactory() *geom.Factory {
	return geom.NewFactory(topo.Planar{})
}

func TestReadWKTRoads(t *testing.T) {
	input := "LINESTRING (0 0, 10 0, 10 10)\n# a comment\n\nLINESTRING(1 1, 2 2)\n"
	roads, err := ReadWKTRoads(strings.NewReader(input), testFactory())
	if err != nil {
		t.Fatalf("ReadWKTRoads: %v", err)
	}
	if len(roads) != 2 {
		t.Fatalf("expected 2 roads, got %d", len(roads))
	}
	if roads[0].Polyline.Len() != 3 {
		t.Fatalf("expected 3 points in first road, got %d", roads[0].Polyline.Len())
	}
	if x, y := roads[0].Polyline.StartPoint().X(), roads[0].Polyline.StartPoint().Y(); x != 0 || y != 0 {
		t.Fatalf("unexpected start point (%v, %v)", x, y)
	}
}

func TestReadWKTRoadsRejectsNonLineString(t *testing.T) {
	_, err := ReadWKTRoads(strings.NewReader("POINT (0 0)"), testFactory())
	if err == nil {
		t.Fatal("expected an error for a non-LINESTRING geometry")
	}
}

func TestWriteWKTRoundTrip(t *testing.T) {
	f := testFactory()
	a, _ := f.CreatePoint(0, 0)
	b, _ := f.CreatePoint(5, 5)
	pl, _ := f.CreatePolyline(a, b)
	wkt := WriteWKT(pl)
	roads, err := ReadWKTRoads(strings.NewReader(wkt), f)
	if err != nil {
		t.Fatalf("round trip parse: %v", err)
	}
	if !roads[0].Polyline.Equal(pl) {
		t.Fatalf("round trip mismatch: %v vs original", roads[0].Polyline)
	}
}

func TestReadTrajectoryCSV(t *testing.T) {
	input := "13.405;52.52;2026-07-29T10:00:00Z\n\n13.406;52.521;2026-07-29T10:00:05Z\n"
	fixes, err := ReadTrajectoryCSV(strings.NewReader(input), testFactory())
	if err != nil {
		t.Fatalf("ReadTrajectoryCSV: %v", err)
	}
	if len(fixes) != 2 {
		t.Fatalf("expected 2 fixes, got %d", len(fixes))
	}
	if fixes[1].Timestamp.Before(fixes[0].Timestamp) {
		t.Fatal("fixes out of order")
	}
}

func TestReadTrajectoryCSVRejectsMalformedLine(t *testing.T) {
	_, err := ReadTrajectoryCSV(strings.NewReader("13.405;52.52\n"), testFactory())
	if err == nil {
		t.Fatal("expected an error for a malformed line")
	}
}

func TestReadTrajectoryCSVRejectsBadTimestamp(t *testing.T) {
	_, err := ReadTrajectoryCSV(strings.NewReader("13.405;52.52;not-a-time\n"), testFactory())
	if err == nil {
		t.Fatal("expected an error for a malformed timestamp")
	}
}
