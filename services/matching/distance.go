package matching

import (
	"math"
	"time"

	"tapstead/models"
)

const earthRadiusMiles = 3959

// DistanceMiles computes the great-circle distance between two coordinate
// pairs using the haversine formula. Symmetric, zero at identity.
func DistanceMiles(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)
	lat1Rad := lat1 * (math.Pi / 180)
	lat2Rad := lat2 * (math.Pi / 180)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMiles * c
}

// averageSpeedMph is the assumed travel speed before the urgency scaling.
const averageSpeedMph = 30.0

// EstimatedArrival projects when a provider would arrive: travel time at
// 30 mph, sped up by the urgency multiplier, added to the reference instant.
func EstimatedArrival(from time.Time, distanceMi float64, multiplier float64) time.Time {
	if multiplier <= 0 {
		multiplier = 1.0
	}
	travelMinutes := distanceMi / (averageSpeedMph * multiplier) * 60
	return from.Add(time.Duration(travelMinutes * float64(time.Minute)))
}

// geoDistanceMiles is DistanceMiles over two GeoPoints.
func geoDistanceMiles(a, b models.GeoPoint) float64 {
	return DistanceMiles(a.Latitude(), a.Longitude(), b.Latitude(), b.Longitude())
}
