package geo

import "github.com/umahmood/haversine"

// EarthRadiusKm is the mean Earth radius used by the haversine package.
const EarthRadiusKm = 6371

// Distance returns the great-circle distance in kilometres between two points
// given in decimal degrees.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	if lat1 == lat2 && lng1 == lng2 {
		return 0
	}

	_, km := haversine.Distance(
		haversine.Coord{Lat: lat1, Lon: lng1},
		haversine.Coord{Lat: lat2, Lon: lng2},
	)
	return km
}
