package topo

import "mapmatch/pkg/geom"

// GeoidalApprox implements geom.Calculator on a sphere of radius
// meanEarthRadius: every operation except Distance is identical to
// Geoidal (they already fall back to spherical trigonometry), so this
// type embeds Geoidal and overrides Distance with the Haversine formula,
// plus DistanceToPolyline so that it measures with that Distance. Distance is roughly 0.3% cheaper to compute than Vincenty's
// inverse and avoids its iterative convergence failure mode near
// antipodal points, at the cost of the ellipsoid's ~0.3% flattening
// error.
type GeoidalApprox struct {
	Geoidal
}

var _ geom.Calculator = GeoidalApprox{}

func (GeoidalApprox) Distance(a, b geom.Point) float64 {
	return sphericalDistance(a, b)
}

func (g GeoidalApprox) DistanceToPolyline(p geom.Point, pl geom.Polyline) float64 {
	return distanceToPolyline(g, p, pl)
}
