// Package topo implements the Calculator contract declared by package
// geom: a planar (exact Euclidean) model and a geoidal (WGS84 Vincenty)
// model, the latter with a Haversine-approximate variant.
package topo

// WGS84 ellipsoid constants (NGA/NIMA TR8350.2).
const (
	WGS84SemiMajorAxis = 6_378_137.0          // a, metres
	WGS84Flattening    = 1 / 298.257_223_563  // f
	wgs84SemiMinorAxis = (1 - WGS84Flattening) * WGS84SemiMajorAxis
	wgs84EccentricitySq = (2 - WGS84Flattening) * WGS84Flattening

	// meanEarthRadius is used by the Haversine distance approximation and
	// by the spherical trigonometry shared between on-track projection
	// and intersection, for which no closed-form ellipsoidal solution
	// exists (see spec Open Question (i)).
	meanEarthRadius = 6_371_000.0

	vincentyConvergence = 1e-8
	vincentyMaxIter     = 10

	onTrackConvergenceMetres = 0.1
	onTrackMaxIter           = 50
)
