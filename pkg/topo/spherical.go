package topo

import (
	"math"

	"mapmatch/pkg/geom"
)

// Spherical trigonometry shared by Geoidal and GeoidalApprox for the
// operations that have no closed-form ellipsoidal solution: on-track
// projection, along-track distance and segment intersection. Ported from
// the great-circle formulae in latlon_spherical.go, operating on a sphere
// of radius meanEarthRadius.

func sphericalDistance(a, b geom.Point) float64 {
	phi1, phi2 := radians(a.Y()), radians(b.Y())
	dPhi := radians(b.Y() - a.Y())
	dLambda := radians(b.X() - a.X())

	sinDPhi2 := math.Sin(dPhi / 2)
	sinDLambda2 := math.Sin(dLambda / 2)
	h := sinDPhi2*sinDPhi2 + math.Cos(phi1)*math.Cos(phi2)*sinDLambda2*sinDLambda2
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return meanEarthRadius * c
}

func sphericalBearing(a, b geom.Point) float64 {
	phi1, phi2 := radians(a.Y()), radians(b.Y())
	dLambda := radians(b.X() - a.X())

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	return wrap360(degrees(math.Atan2(y, x)))
}

// crossTrackDistance returns the signed distance of p from the great
// circle through a and b (negative = left of the path a->b).
func crossTrackDistance(a, b, p geom.Point) float64 {
	delta13 := sphericalDistance(a, p) / meanEarthRadius
	theta13 := radians(sphericalBearing(a, p))
	theta12 := radians(sphericalBearing(a, b))
	return math.Asin(math.Sin(delta13)*math.Sin(theta13-theta12)) * meanEarthRadius
}

// alongTrackDistance returns the signed distance from a to the projection
// of p onto the great circle through a and b, measured along that circle;
// it is negative when the projection falls behind a (away from b).
func alongTrackDistance(a, b, p geom.Point) float64 {
	delta13 := sphericalDistance(a, p) / meanEarthRadius
	dXt := crossTrackDistance(a, b, p) / meanEarthRadius
	delta := math.Acos(math.Cos(delta13) / math.Cos(dXt))
	if math.IsNaN(delta) {
		delta = 0
	}
	theta13 := radians(sphericalBearing(a, p))
	theta12 := radians(sphericalBearing(a, b))
	if math.Cos(theta13-theta12) < 0 {
		delta = -delta
	}
	return delta * meanEarthRadius
}

// sphericalOnTrackClosestPoint projects p onto segment a-b, clamping to
// the segment's endpoints when the perpendicular foot falls outside it.
func sphericalOnTrackClosestPoint(a, b, p geom.Point) (geom.Point, error) {
	segLen := sphericalDistance(a, b)
	if segLen < 1e-9 {
		return a, nil
	}
	along := alongTrackDistance(a, b, p)
	if along <= 0 {
		return a, nil
	}
	if along >= segLen {
		return b, nil
	}
	brng := sphericalBearing(a, b)
	return geoidalDestination(a, brng, along)
}

func sphericalAlongTrackDistance(a, b, p geom.Point) (float64, error) {
	return alongTrackDistance(a, b, p), nil
}

// geoidalDestination is the Vincenty direct solution, reused here so the
// spherical on-track projection still returns a point expressed on the
// WGS84 ellipsoid rather than snapping back to a pure sphere.
func geoidalDestination(origin geom.Point, bearingDeg, distance float64) (geom.Point, error) {
	return Geoidal{}.Destination(origin, bearingDeg, distance)
}

func distanceToPolyline(calc geom.Calculator, p geom.Point, pl geom.Polyline) float64 {
	pts := pl.Points()
	best := math.Inf(1)
	for i := 0; i+1 < len(pts); i++ {
		cp, err := calc.OnTrackClosestPoint(pts[i], pts[i+1], p)
		if err != nil {
			continue
		}
		if d := calc.Distance(cp, p); d < best {
			best = d
		}
	}
	if math.IsInf(best, 1) {
		return 0
	}
	return best
}

func leftmostPoint(pl geom.Polyline) geom.Point {
	pts := pl.Points()
	left := pts[0]
	for _, p := range pts[1:] {
		if p.X() < left.X() {
			left = p
		}
	}
	return left
}

func rightmostPoint(pl geom.Polyline) geom.Point {
	pts := pl.Points()
	right := pts[0]
	for _, p := range pts[1:] {
		if p.X() > right.X() {
			right = p
		}
	}
	return right
}

// pairwiseIntersection tests every segment of a against every segment of
// b and returns each crossing point. O(n*m); no sweep-line, matching the
// engine's deliberately simple geometry layer (large-scale line overlay
// is out of scope).
func pairwiseIntersection(a, b geom.Polyline) []geom.Point {
	var out []geom.Point
	ap, bp := a.Points(), b.Points()
	for i := 0; i+1 < len(ap); i++ {
		for j := 0; j+1 < len(bp); j++ {
			if pt, ok := segmentIntersection(ap[i], ap[i+1], bp[j], bp[j+1]); ok {
				out = append(out, pt)
			}
		}
	}
	return out
}

// segmentIntersection solves the intersection of two great-circle segments
// via the spherical "intersection of two paths" formula, then checks the
// result falls within both segments' along-track extents.
func segmentIntersection(a1, a2, b1, b2 geom.Point) (geom.Point, bool) {
	brngA := radians(sphericalBearing(a1, a2))
	brngB := radians(sphericalBearing(b1, b2))

	phi1, lambda1 := radians(a1.Y()), radians(a1.X())
	phi2, lambda2 := radians(b1.Y()), radians(b1.X())

	dPhi := phi2 - phi1
	dLambda := lambda2 - lambda1

	sinDPhi2, sinDLambda2 := math.Sin(dPhi/2), math.Sin(dLambda/2)
	delta12 := 2 * math.Asin(math.Sqrt(sinDPhi2*sinDPhi2+math.Cos(phi1)*math.Cos(phi2)*sinDLambda2*sinDLambda2))
	if math.Abs(delta12) < 1e-12 {
		return geom.Point{}, false
	}

	cosThetaA := (math.Sin(phi2) - math.Sin(phi1)*math.Cos(delta12)) / (math.Sin(delta12) * math.Cos(phi1))
	cosThetaB := (math.Sin(phi1) - math.Sin(phi2)*math.Cos(delta12)) / (math.Sin(delta12) * math.Cos(phi2))
	cosThetaA = clamp(cosThetaA, -1, 1)
	cosThetaB = clamp(cosThetaB, -1, 1)
	thetaA := math.Acos(cosThetaA)
	thetaB := math.Acos(cosThetaB)

	var theta12, theta21 float64
	if math.Sin(lambda2-lambda1) > 0 {
		theta12, theta21 = thetaA, 2*math.Pi-thetaB
	} else {
		theta12, theta21 = 2*math.Pi-thetaA, thetaB
	}

	alpha1 := brngA - theta12
	alpha2 := theta21 - brngB

	sinAlpha1, sinAlpha2 := math.Sin(alpha1), math.Sin(alpha2)
	if sinAlpha1 == 0 && sinAlpha2 == 0 {
		return geom.Point{}, false // infinite intersections (coincident paths)
	}
	if sinAlpha1*sinAlpha2 < 0 {
		return geom.Point{}, false // ambiguous/antipodal intersection
	}

	cosAlpha3 := -math.Cos(alpha1)*math.Cos(alpha2) + math.Sin(alpha1)*math.Sin(alpha2)*math.Cos(delta12)
	delta13 := math.Atan2(math.Sin(delta12)*math.Sin(alpha1)*math.Sin(alpha2), math.Cos(alpha2)+math.Cos(alpha1)*cosAlpha3)

	phi3 := math.Asin(clamp(math.Sin(phi1)*math.Cos(delta13)+math.Cos(phi1)*math.Sin(delta13)*math.Cos(brngA), -1, 1))
	dLambda13 := math.Atan2(math.Sin(brngA)*math.Sin(delta13)*math.Cos(phi1), math.Cos(delta13)-math.Sin(phi1)*math.Sin(phi3))
	lambda3 := lambda1 + dLambda13

	pt, err := a1.Factory().CreatePoint(degrees(lambda3), degrees(phi3))
	if err != nil {
		return geom.Point{}, false
	}

	if !withinSegment(a1, a2, pt) || !withinSegment(b1, b2, pt) {
		return geom.Point{}, false
	}
	return pt, true
}

// withinSegment reports whether pt's along-track projection onto a-b lies
// within [0, len(a,b)], with an onTrackConvergenceMetres tolerance.
func withinSegment(a, b, pt geom.Point) bool {
	segLen := sphericalDistance(a, b)
	along := alongTrackDistance(a, b, pt)
	return along >= -onTrackConvergenceMetres && along <= segLen+onTrackConvergenceMetres
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
