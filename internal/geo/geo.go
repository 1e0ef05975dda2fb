package geo

import "math"

const earthRadiusKm = 6371

// Distance returns the great-circle distance between two coordinates in
// kilometers, using the Haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Round1 rounds a distance to one decimal place for display.
func Round1(km float64) float64 {
	return math.Round(km*10) / 10
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
