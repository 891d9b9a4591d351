package geo

import "math"

const earthRadiusMeters = 6371000.0

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// DistanceMeters returns the great-circle distance between two WGS84
// coordinates using the haversine formula.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// BearingDegrees returns the initial bearing from point 1 to point 2,
// normalized to [0, 360). The direction is undefined when the points
// coincide; callers keep the prior course when distance is zero.
func BearingDegrees(lat1, lon1, lat2, lon2 float64) float64 {
	y := math.Sin(toRadians(lon2-lon1)) * math.Cos(toRadians(lat2))
	x := math.Cos(toRadians(lat1))*math.Sin(toRadians(lat2)) -
		math.Sin(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Cos(toRadians(lon2-lon1))
	bearing := math.Atan2(y, x) * 180 / math.Pi

	return math.Mod(bearing+360, 360)
}

// Knots converts a speed in meters per second to knots.
func Knots(metersPerSecond float64) float64 {
	return metersPerSecond * 1.943844
}
