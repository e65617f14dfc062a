// Package simplify provides input-preparation helpers — Douglas-Peucker
// line simplification and convex hull — listed by spec.md §1 as
// "available for input preparation; not part of the matcher." Neither
// function is called from pkg/match's decode path.
package simplify

import (
	"mapmatch/pkg/geom"
	"mapmatch/pkg/matcherr"
)

// DouglasPeucker simplifies a point sequence to within tolerance (same
// units as the bound Calculator's distance), using the perpendicular
// (cross-track) distance from each interior point to the chord between
// the sequence's endpoints. Grounded on the Douglas-Peucker reference in
// the example pack's shape-generation code, generalized to use the
// module's own Calculator instead of an ad-hoc lat/lon-to-metres
// conversion.
func DouglasPeucker(calc geom.Calculator, points []geom.Point, tolerance float64) ([]geom.Point, error) {
	if tolerance <= 0 {
		return nil, matcherr.New(matcherr.KindInvalidInput, "simplify.DouglasPeucker",
			"tolerance must be positive")
	}
	if len(points) <= 2 {
		return points, nil
	}
	return douglasPeucker(calc, points, tolerance)
}

func douglasPeucker(calc geom.Calculator, points []geom.Point, tolerance float64) ([]geom.Point, error) {
	if len(points) <= 2 {
		return points, nil
	}

	maxDist := 0.0
	maxIndex := 0
	start, end := points[0], points[len(points)-1]
	for i := 1; i < len(points)-1; i++ {
		dist, err := perpendicularDistance(calc, points[i], start, end)
		if err != nil {
			return nil, err
		}
		if dist > maxDist {
			maxDist = dist
			maxIndex = i
		}
	}

	if maxDist > tolerance {
		left, err := douglasPeucker(calc, points[:maxIndex+1], tolerance)
		if err != nil {
			return nil, err
		}
		right, err := douglasPeucker(calc, points[maxIndex:], tolerance)
		if err != nil {
			return nil, err
		}
		result := make([]geom.Point, len(left)+len(right)-1)
		copy(result, left)
		copy(result[len(left):], right[1:])
		return result, nil
	}

	return []geom.Point{start, end}, nil
}

// perpendicularDistance is the cross-track distance from point to the
// segment start-end, degrading to plain distance when start == end.
func perpendicularDistance(calc geom.Calculator, point, start, end geom.Point) (float64, error) {
	if start.Equal(end) {
		return calc.Distance(point, start), nil
	}
	onTrack, err := calc.OnTrackClosestPoint(start, end, point)
	if err != nil {
		return 0, err
	}
	return calc.Distance(point, onTrack), nil
}
