// Package kdtree implements a balanced 2-D k-d tree over Points, built
// once from a fixed point set and addressed succinctly: node i has left
// child 2i+1 and right child 2i+2, with no parent pointers stored.
package kdtree

import (
	"sort"

	"mapmatch/pkg/geom"
	"mapmatch/pkg/matcherr"
)

const dims = 2

// maxAddressableDepth bounds the tree so that 2^depth fits in an int on
// any platform this engine targets; exceeding it during build raises
// KindTreeDepthExhausted rather than silently overflowing node indices.
const maxAddressableDepth = 56

// Tree is a balanced, bulk-built k-d tree over 2-D points. The zero value
// is not usable; construct with Build.
type Tree struct {
	nodes []geom.Point // index i: node i's point; zero Point at unused slots
	valid []bool
}

// Build constructs a balanced k-d tree from points via recursive median
// selection on axis depth%2: each level sorts its slice along the axis and
// takes the middle element (a full sort; no quickselect is used). Points
// equal to the median on that axis may land in either subtree. Returns KindTreeDepthExhausted
// if the point count would require an index depth beyond
// maxAddressableDepth.
func Build(points []geom.Point) (*Tree, error) {
	if len(points) == 0 {
		return &Tree{}, nil
	}
	depth := 0
	for n := len(points); n > 0; n >>= 1 {
		depth++
	}
	if depth > maxAddressableDepth {
		return nil, matcherr.New(matcherr.KindTreeDepthExhausted, "kdtree.Build",
			"point count requires a tree deeper than the addressable limit")
	}

	size := 1
	for size < len(points) {
		size <<= 1
	}
	size = size*2 - 1 // enough slots for a complete binary tree over len(points)

	t := &Tree{nodes: make([]geom.Point, size), valid: make([]bool, size)}
	pts := make([]geom.Point, len(points))
	copy(pts, points)
	t.build(0, pts, 0)
	return t, nil
}

func (t *Tree) build(idx int, pts []geom.Point, depth int) {
	if len(pts) == 0 {
		return
	}
	axis := depth % dims
	sort.Slice(pts, func(i, j int) bool {
		return axisValue(pts[i], axis) < axisValue(pts[j], axis)
	})
	mid := len(pts) / 2
	if idx >= len(t.nodes) {
		return // should not happen given Build's size computation
	}
	t.nodes[idx] = pts[mid]
	t.valid[idx] = true
	t.build(2*idx+1, pts[:mid], depth+1)
	t.build(2*idx+2, pts[mid+1:], depth+1)
}

func axisValue(p geom.Point, axis int) float64 {
	if axis == 0 {
		return p.X()
	}
	return p.Y()
}

// Contains reports whether an equal-within-precision point is stored.
func (t *Tree) Contains(p geom.Point) bool {
	return t.contains(0, p, 0)
}

func (t *Tree) contains(idx int, p geom.Point, depth int) bool {
	if idx >= len(t.nodes) || !t.valid[idx] {
		return false
	}
	node := t.nodes[idx]
	if node.Equal(p) {
		return true
	}
	axis := depth % dims
	pv, nv := axisValue(p, axis), axisValue(node, axis)
	if pv < nv-geom.PrecisionTolerance {
		return t.contains(2*idx+1, p, depth+1)
	}
	if pv > nv+geom.PrecisionTolerance {
		return t.contains(2*idx+2, p, depth+1)
	}
	// A tie on the splitting axis can sit in either subtree.
	return t.contains(2*idx+1, p, depth+1) || t.contains(2*idx+2, p, depth+1)
}

// NearestNeighbour returns the stored point closest to p by Euclidean
// squared distance, using best-first traversal with axis-distance
// pruning. Panics-free; returns false if the tree is empty.
func (t *Tree) NearestNeighbour(p geom.Point) (geom.Point, bool) {
	if len(t.nodes) == 0 || !t.valid[0] {
		return geom.Point{}, false
	}
	best := t.nodes[0]
	bestDist := sqDist(best, p)
	type frame struct {
		idx, depth int
	}
	stack := []frame{{0, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.idx >= len(t.nodes) || !t.valid[f.idx] {
			continue
		}
		node := t.nodes[f.idx]
		d := sqDist(node, p)
		if d < bestDist {
			bestDist = d
			best = node
		}
		if bestDist <= geom.PrecisionTolerance*geom.PrecisionTolerance {
			break
		}
		axis := f.depth % dims
		diff := axisValue(p, axis) - axisValue(node, axis)
		near, far := 2*f.idx+1, 2*f.idx+2
		if diff > 0 {
			near, far = far, near
		}
		// Push far first so the near subtree is popped (visited) first.
		if diff*diff < bestDist {
			stack = append(stack, frame{far, f.depth + 1})
		}
		stack = append(stack, frame{near, f.depth + 1})
	}
	return best, true
}

// RangeQuery returns every stored point within the axis-aligned box
// [rangeMin, rangeMax] (inclusive), via a stack traversal that visits a
// child only when its splitting-axis interval can intersect the query
// range.
func (t *Tree) RangeQuery(rangeMin, rangeMax geom.Point) []geom.Point {
	if len(t.nodes) == 0 {
		return nil
	}
	var out []geom.Point
	type frame struct {
		idx, depth int
	}
	stack := []frame{{0, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.idx >= len(t.nodes) || !t.valid[f.idx] {
			continue
		}
		node := t.nodes[f.idx]
		if node.X() >= rangeMin.X() && node.X() <= rangeMax.X() &&
			node.Y() >= rangeMin.Y() && node.Y() <= rangeMax.Y() {
			out = append(out, node)
		}
		axis := f.depth % dims
		nodeVal := axisValue(node, axis)
		minVal := axisValue(rangeMin, axis)
		maxVal := axisValue(rangeMax, axis)
		if minVal <= nodeVal {
			stack = append(stack, frame{2*f.idx + 1, f.depth + 1})
		}
		if maxVal >= nodeVal {
			stack = append(stack, frame{2*f.idx + 2, f.depth + 1})
		}
	}
	return out
}

func sqDist(a, b geom.Point) float64 {
	dx, dy := a.X()-b.X(), a.Y()-b.Y()
	return dx*dx + dy*dy
}
