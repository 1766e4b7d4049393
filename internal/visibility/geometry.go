package visibility

import "math"

const (
	earthRadiusKm = 6378.137
	geoRadiusKm   = 42164.0
)

// LookAngle returns the elevation and azimuth, in degrees, at which a
// station at (lat, lon) sees a geostationary satellite parked over satLon.
// Azimuth is measured clockwise from true north in [0, 360).
func LookAngle(lat, lon, satLon float64) (elevation, azimuth float64) {
	phi := lat * math.Pi / 180
	dLambda := wrapDegrees(satLon-lon) * math.Pi / 180

	cosGamma := math.Cos(phi) * math.Cos(dLambda)
	sinGamma := math.Sqrt(1 - cosGamma*cosGamma)

	if sinGamma == 0 {
		elevation = 90
	} else {
		elevation = math.Atan((cosGamma-earthRadiusKm/geoRadiusKm)/sinGamma) * 180 / math.Pi
	}

	azimuth = math.Atan2(math.Sin(dLambda), -math.Sin(phi)*math.Cos(dLambda)) * 180 / math.Pi
	if azimuth < 0 {
		azimuth += 360
	}
	return elevation, azimuth
}

// wrapDegrees folds d into (-180, 180].
func wrapDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}
