package service

import (
	"math"

	"github.com/shopspring/decimal"
)

// Fare model: flat base plus a per-kilometre rate, scaled by surge.
const (
	baseFare      = 50.0 // currency units
	perKmRate     = 10.0 // per kilometre
	earthRadiusKm = 6371.0
)

// haversineKm returns the great-circle distance between two coordinates.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// EstimateFare computes the upfront fare for a ride, rounded to 2 decimal
// places. Distance and rate arithmetic stay in float64; the result is
// converted to decimal once, at the end.
func EstimateFare(pickupLat, pickupLng, dropoffLat, dropoffLng, surgeMultiplier float64) decimal.Decimal {
	if surgeMultiplier < 1.0 {
		surgeMultiplier = 1.0
	}

	distance := haversineKm(pickupLat, pickupLng, dropoffLat, dropoffLng)
	fare := (baseFare + distance*perKmRate) * surgeMultiplier

	return decimal.NewFromFloat(fare).Round(2)
}
