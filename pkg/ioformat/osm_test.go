package ioformat

import (
	"testing"

	"github.com/paulmach/osm"
)

func TestIsCarAccessible(t *testing.T) {
	tests := []struct {
		name string
		tags osm.Tags
		want bool
	}{
		{"residential road", osm.Tags{{Key: "highway", Value: "residential"}}, true},
		{"motorway", osm.Tags{{Key: "highway", Value: "motorway"}}, true},
		{"footway (not car accessible)", osm.Tags{{Key: "highway", Value: "footway"}}, false},
		{"private access", osm.Tags{
			{Key: "highway", Value: "residential"}, {Key: "access", Value: "private"},
		}, false},
		{"area=yes (pedestrian plaza)", osm.Tags{
			{Key: "highway", Value: "service"}, {Key: "area", Value: "yes"},
		}, false},
		{"no highway tag", osm.Tags{{Key: "name", Value: "Some Street"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isCarAccessible(tt.tags); got != tt.want {
				t.Errorf("isCarAccessible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDirectionFlags(t *testing.T) {
	tests := []struct {
		name         string
		tags         osm.Tags
		wantForward  bool
		wantBackward bool
	}{
		{"default bidirectional", osm.Tags{{Key: "highway", Value: "residential"}}, true, true},
		{"motorway implied oneway", osm.Tags{{Key: "highway", Value: "motorway"}}, true, false},
		{"explicit oneway=yes", osm.Tags{
			{Key: "highway", Value: "residential"}, {Key: "oneway", Value: "yes"},
		}, true, false},
		{"explicit oneway=-1", osm.Tags{
			{Key: "highway", Value: "residential"}, {Key: "oneway", Value: "-1"},
		}, false, true},
		{"reversible skipped entirely", osm.Tags{
			{Key: "highway", Value: "residential"}, {Key: "oneway", Value: "reversible"},
		}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fwd, bwd := directionFlags(tt.tags)
			if fwd != tt.wantForward || bwd != tt.wantBackward {
				t.Errorf("directionFlags() = (%v, %v), want (%v, %v)", fwd, bwd, tt.wantForward, tt.wantBackward)
			}
		})
	}
}

func TestBBoxContains(t *testing.T) {
	b := BBox{MinLat: 0, MaxLat: 10, MinLon: 0, MaxLon: 10}
	if !b.contains(5, 5) {
		t.Fatal("expected (5,5) inside bbox")
	}
	if b.contains(20, 5) {
		t.Fatal("expected (20,5) outside bbox")
	}
	if BBox{}.isZero() != true {
		t.Fatal("zero-value BBox should report isZero")
	}
}
