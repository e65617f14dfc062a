package topo

import (
	"math"

	"mapmatch/pkg/geom"
	"mapmatch/pkg/matcherr"
)

// Geoidal implements geom.Calculator on the WGS84 ellipsoid using
// Vincenty's direct and inverse formulae. Ported from the classic
// chrisveness/geodesy nested-equations form.
type Geoidal struct{}

var _ geom.Calculator = Geoidal{}

func (Geoidal) Geographic() bool { return true }

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// wrap360 normalizes degrees into [0,360).
func wrap360(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// Distance returns the orthodromic (geodesic surface) distance in metres
// between a and b, via Vincenty's inverse formula. Coincident points
// (|sinσ| < 1e-16) return 0. The Calculator interface has no error
// return, so when the iteration fails to converge (near-antipodal points,
// or no settling within 10 iterations) Distance returns the spherical
// (Haversine) distance instead; DistanceE returns the KindConvergence
// error, for callers that must observe convergence.
func (g Geoidal) Distance(a, b geom.Point) float64 {
	d, err := g.inverse(a, b)
	if err != nil {
		return sphericalDistance(a, b)
	}
	return d
}

// DistanceE is Distance with an explicit convergence error.
func (g Geoidal) DistanceE(a, b geom.Point) (float64, error) {
	return g.inverse(a, b)
}

func (g Geoidal) inverse(p1, p2 geom.Point) (float64, error) {
	phi1, lambda1 := radians(p1.Y()), radians(p1.X())
	phi2, lambda2 := radians(p2.Y()), radians(p2.X())

	a, f := WGS84SemiMajorAxis, WGS84Flattening
	b := wgs84SemiMinorAxis

	L := lambda2 - lambda1
	tanU1 := (1 - f) * math.Tan(phi1)
	cosU1 := 1 / math.Sqrt(1+tanU1*tanU1)
	sinU1 := tanU1 * cosU1
	tanU2 := (1 - f) * math.Tan(phi2)
	cosU2 := 1 / math.Sqrt(1+tanU2*tanU2)
	sinU2 := tanU2 * cosU2

	antipodal := math.Abs(L) > math.Pi/2 || math.Abs(phi2-phi1) > math.Pi/2

	lambda := L
	sigma, sinSigma, cosSigma := 0.0, 0.0, 1.0
	if antipodal {
		sigma, cosSigma = math.Pi, -1
	}
	cos2SigmaM := 1.0
	sinAlpha, cosSqAlpha := 0.0, 1.0
	sinSqSigma := 0.0

	const coincidentSinSigma = 1e-16
	iterations := 0
	for {
		sinLambda, cosLambda := math.Sin(lambda), math.Cos(lambda)
		sinSqSigma = (cosU2*sinLambda)*(cosU2*sinLambda) +
			(cosU1*sinU2-sinU1*cosU2*cosLambda)*(cosU1*sinU2-sinU1*cosU2*cosLambda)
		if math.Sqrt(sinSqSigma) < coincidentSinSigma {
			break // coincident or antipodal on the same meridian
		}
		sinSigma = math.Sqrt(sinSqSigma)
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha = cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		} else {
			cos2SigmaM = 0
		}
		C := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
		lambdaPrime := lambda
		lambda = L + (1-C)*f*sinAlpha*(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		check := math.Abs(lambda)
		if antipodal {
			check = math.Abs(lambda) - math.Pi
		}
		if check > math.Pi {
			return 0, matcherr.New(matcherr.KindConvergence, "topo.Geoidal.Distance",
				"lambda diverged beyond pi for near-antipodal points")
		}
		iterations++
		if math.Abs(lambda-lambdaPrime) <= vincentyConvergence || iterations >= vincentyMaxIter {
			break
		}
	}
	if iterations >= vincentyMaxIter {
		return 0, matcherr.New(matcherr.KindConvergence, "topo.Geoidal.Distance",
			"vincenty inverse failed to converge within 10 iterations")
	}

	uSq := cosSqAlpha * (a*a - b*b) / (b * b)
	A := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	B := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := B * sinSigma * (cos2SigmaM + B/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
		B/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	return b * A * (sigma - deltaSigma), nil
}

// InitialBearing returns the initial bearing in degrees [0,360) from a to
// b, computed as a side effect of the Vincenty inverse solution.
func (g Geoidal) InitialBearing(a, b geom.Point) float64 {
	brng, _ := g.initialBearingE(a, b)
	return brng
}

func (g Geoidal) initialBearingE(p1, p2 geom.Point) (float64, error) {
	phi1, lambda1 := radians(p1.Y()), radians(p1.X())
	phi2, lambda2 := radians(p2.Y()), radians(p2.X())
	f := WGS84Flattening

	tanU1 := (1 - f) * math.Tan(phi1)
	cosU1 := 1 / math.Sqrt(1+tanU1*tanU1)
	sinU1 := tanU1 * cosU1
	tanU2 := (1 - f) * math.Tan(phi2)
	cosU2 := 1 / math.Sqrt(1+tanU2*tanU2)
	sinU2 := tanU2 * cosU2

	L := lambda2 - lambda1
	lambda := L
	var sinLambda, cosLambda, sinSigma, cosSigma, sigma, sinAlpha, cosSqAlpha, cos2SigmaM float64
	cos2SigmaM = 1
	const eps = 2.220446049250313e-16
	iterations := 0
	for {
		sinLambda, cosLambda = math.Sin(lambda), math.Cos(lambda)
		sinSqSigma := (cosU2*sinLambda)*(cosU2*sinLambda) +
			(cosU1*sinU2-sinU1*cosU2*cosLambda)*(cosU1*sinU2-sinU1*cosU2*cosLambda)
		if math.Abs(sinSqSigma) < eps {
			return 0, nil // coincident points: bearing undefined, default to 0
		}
		sinSigma = math.Sqrt(sinSqSigma)
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha = cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		} else {
			cos2SigmaM = 0
		}
		C := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
		lambdaPrime := lambda
		lambda = L + (1-C)*f*sinAlpha*(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		iterations++
		if math.Abs(lambda-lambdaPrime) <= vincentyConvergence || iterations >= vincentyMaxIter {
			break
		}
	}
	if iterations >= vincentyMaxIter {
		return 0, matcherr.New(matcherr.KindConvergence, "topo.Geoidal.InitialBearing",
			"vincenty inverse failed to converge")
	}
	alpha1 := math.Atan2(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda)
	return wrap360(degrees(alpha1)), nil
}

// Destination returns the point reached travelling distance metres from
// origin along bearingDeg, via Vincenty's direct formula.
func (g Geoidal) Destination(origin geom.Point, bearingDeg, distance float64) (geom.Point, error) {
	phi1, lambda1 := radians(origin.Y()), radians(origin.X())
	alpha1 := radians(bearingDeg)
	s := distance

	a, f := WGS84SemiMajorAxis, WGS84Flattening
	b := wgs84SemiMinorAxis

	sinAlpha1, cosAlpha1 := math.Sin(alpha1), math.Cos(alpha1)
	tanU1 := (1 - f) * math.Tan(phi1)
	cosU1 := 1 / math.Sqrt(1+tanU1*tanU1)
	sinU1 := tanU1 * cosU1

	sigma1 := math.Atan2(tanU1, cosAlpha1)
	sinAlpha := cosU1 * sinAlpha1
	cosSqAlpha := 1 - sinAlpha*sinAlpha
	uSq := cosSqAlpha * (a*a - b*b) / (b * b)
	A := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	B := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))

	sigma := s / (b * A)
	var sinSigma, cosSigma, cos2SigmaM, deltaSigma float64
	iterations := 0
	for {
		cos2SigmaM = math.Cos(2*sigma1 + sigma)
		sinSigma = math.Sin(sigma)
		cosSigma = math.Cos(sigma)
		deltaSigma = B * sinSigma * (cos2SigmaM + B/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
			B/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
		sigmaPrime := sigma
		sigma = s/(b*A) + deltaSigma
		iterations++
		if math.Abs(sigma-sigmaPrime) <= vincentyConvergence || iterations >= vincentyMaxIter {
			break
		}
	}
	if iterations >= vincentyMaxIter {
		return geom.Point{}, matcherr.New(matcherr.KindConvergence, "topo.Geoidal.Destination",
			"vincenty direct failed to converge")
	}

	x := sinU1*sinSigma - cosU1*cosSigma*cosAlpha1
	phi2 := math.Atan2(sinU1*cosSigma+cosU1*sinSigma*cosAlpha1, (1-f)*math.Sqrt(sinAlpha*sinAlpha+x*x))
	lambda := math.Atan2(sinSigma*sinAlpha1, cosU1*cosSigma-sinU1*sinSigma*cosAlpha1)
	C := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
	L := lambda - (1-C)*f*sinAlpha*(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
	lambda2 := lambda1 + L

	return origin.Factory().CreatePoint(degrees(lambda2), degrees(phi2))
}

// DistanceToPolyline returns the minimum distance from p to any segment of
// pl, via OnTrackClosestPoint on each segment.
func (g Geoidal) DistanceToPolyline(p geom.Point, pl geom.Polyline) float64 {
	return distanceToPolyline(g, p, pl)
}

// OnTrackClosestPoint, AlongTrackDistance, LeftmostPoint, RightmostPoint
// and Intersection have no closed-form ellipsoidal solution, so they are
// computed with the spherical trigonometry shared by the Haversine
// approximate variant (see spec §9 Open Question (i) analogue: the
// library's ellipsoidal calculator already falls back to spherical math
// for these, a documented accuracy trade rather than a bug).
func (g Geoidal) OnTrackClosestPoint(a, b, p geom.Point) (geom.Point, error) {
	return sphericalOnTrackClosestPoint(a, b, p)
}

func (g Geoidal) AlongTrackDistance(a, b, p geom.Point) (float64, error) {
	return sphericalAlongTrackDistance(a, b, p)
}

func (g Geoidal) LeftmostPoint(pl geom.Polyline) geom.Point  { return leftmostPoint(pl) }
func (g Geoidal) RightmostPoint(pl geom.Polyline) geom.Point { return rightmostPoint(pl) }

func (g Geoidal) Intersection(a, b geom.Polyline) []geom.Point {
	return pairwiseIntersection(a, b)
}
