package optimize

import "math"

const earthRadiusKm = 6371.0

type point struct {
	lat, lng float64
}

// haversineKm returns the great-circle distance between a and b.
func haversineKm(a, b point) float64 {
	p1 := a.lat * math.Pi / 180
	p2 := b.lat * math.Pi / 180
	dLat := (b.lat - a.lat) * math.Pi / 180
	dLng := (b.lng - a.lng) * math.Pi / 180

	x := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(p1)*math.Cos(p2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(x))
}

// travelMinutes estimates city driving time, never less than minTravelMinutes.
func travelMinutes(km, speedKmh float64) int {
	return max(minTravelMinutes, int(math.RoundToEven(km/speedKmh*60)))
}
