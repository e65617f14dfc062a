// Package hprtree implements a Hilbert-packed R-tree: a static,
// bulk-loaded spatial index over 2-D envelopes built by sorting items
// along a fixed-level Hilbert curve before packing. Once built the index
// never mutates.
package hprtree

import (
	"sort"

	"github.com/tidwall/rtree"

	"mapmatch/pkg/geom"
)

// hilbertLevel is the curve order used to derive Hilbert codes before
// sorting; spec fixes this at 12 (a 4096x4096 grid), giving ample
// resolution relative to envelope merge tolerances used elsewhere in the
// engine.
const hilbertLevel = 12

// Item is one entry stored in the tree: an envelope and an opaque value
// (typically a road polyline, or its identifying index).
type Item struct {
	Envelope geom.Envelope
	Value    interface{}
}

// Tree is a static, bulk-loaded Hilbert R-tree. The zero value is not
// usable; construct with Build.
type Tree struct {
	backing *rtree.RTreeG[interface{}]
	n       int
	extent  geom.Envelope
}

// Build packs items into a new Tree. Items are sorted by Hilbert code
// over the global extent of all envelopes, then inserted into the
// backing tree in that order, which approximates a bulk Hilbert pack
// (adjacent-in-curve-order items land in the same leaf).
func Build(items []Item) *Tree {
	t := &Tree{backing: &rtree.RTreeG[interface{}]{}, extent: geom.NullEnvelope()}
	if len(items) == 0 {
		return t
	}
	for _, it := range items {
		t.extent = t.extent.ExpandToIncludeEnvelope(it.Envelope)
	}

	ordered := make([]Item, len(items))
	copy(ordered, items)
	sort.Slice(ordered, func(i, j int) bool {
		return hilbertCode(t.extent, ordered[i].Envelope) < hilbertCode(t.extent, ordered[j].Envelope)
	})

	for _, it := range ordered {
		min := [2]float64{it.Envelope.MinX, it.Envelope.MinY}
		max := [2]float64{it.Envelope.MaxX, it.Envelope.MaxY}
		t.backing.Insert(min, max, it.Value)
	}
	t.n = len(items)
	return t
}

// Len returns the number of items stored.
func (t *Tree) Len() int { return t.n }

// Query returns every stored value whose envelope intersects q.
func (t *Tree) Query(q geom.Envelope) []interface{} {
	if t.backing == nil || t.n == 0 {
		return nil
	}
	var out []interface{}
	min := [2]float64{q.MinX, q.MinY}
	max := [2]float64{q.MaxX, q.MaxY}
	t.backing.Search(min, max, func(_, _ [2]float64, data interface{}) bool {
		out = append(out, data)
		return true
	})
	return out
}

// hilbertCode maps an envelope's center to a Hilbert curve index within
// extent, quantized to hilbertLevel bits per axis.
func hilbertCode(extent, e geom.Envelope) uint64 {
	side := uint32(1) << hilbertLevel
	cx, cy := e.CenterX(), e.CenterY()

	nx := normalize(cx, extent.MinX, extent.MaxX, side)
	ny := normalize(cy, extent.MinY, extent.MaxY, side)
	return hilbertD2XY(hilbertLevel, nx, ny)
}

func normalize(v, lo, hi float64, side uint32) uint32 {
	if hi <= lo {
		return 0
	}
	frac := (v - lo) / (hi - lo)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	q := uint32(frac * float64(side-1))
	if q >= side {
		q = side - 1
	}
	return q
}

// hilbertD2XY converts (x,y) grid coordinates at the given curve order
// into a single Hilbert distance, via the standard bit-rotation algorithm
// (Wikipedia "Hilbert curve", xy2d).
func hilbertD2XY(order int, x, y uint32) uint64 {
	side := uint32(1) << order
	var rx, ry uint32
	var d uint64
	for s := side / 2; s > 0; s >>= 1 {
		if (x & s) > 0 {
			rx = 1
		} else {
			rx = 0
		}
		if (y & s) > 0 {
			ry = 1
		} else {
			ry = 0
		}
		d += uint64(s) * uint64(s) * uint64((3*rx)^ry)
		x, y = rotate(side, x, y, rx, ry)
	}
	return d
}

func rotate(n uint32, x, y, rx, ry uint32) (uint32, uint32) {
	if ry == 0 {
		if rx == 1 {
			x = n - 1 - x
			y = n - 1 - y
		}
		x, y = y, x
	}
	return x, y
}
