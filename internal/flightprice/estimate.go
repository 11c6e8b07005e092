package flightprice

import (
	"github.com/neexbeast/wayfarer/internal/profile"
	"github.com/neexbeast/wayfarer/internal/scoring"
)

// distancePriceBrackets maps great-circle distance to a base round-trip
// price in EUR.
var distancePriceBrackets = []struct {
	maxKm float64
	price int
}{
	{1500, 120},  // short haul Europe
	{3000, 200},  // medium haul
	{5000, 400},  // long haul
	{8000, 600},  // very long haul
	{12000, 800}, // ultra long haul
	{0, 1000},    // beyond
}

// regionalPriceFactors adjust the distance-based estimate for typical
// route pricing patterns; subregion entries take precedence.
var regionalPriceFactors = map[string]float64{
	"Europe":             0.9,
	"Western Europe":     0.85,
	"Southern Europe":    0.9,
	"Eastern Europe":     0.95,
	"Northern Europe":    1.0,
	"Asia":               1.1,
	"Southeast Asia":     1.0,
	"East Asia":          1.15,
	"South Asia":         0.95,
	"Middle East":        1.05,
	"North America":      1.1,
	"South America":      1.2,
	"Central America":    1.15,
	"Caribbean":          1.1,
	"Africa":             1.25,
	"North Africa":       0.95,
	"Sub-Saharan Africa": 1.3,
	"Oceania":            1.2,
	"Pacific Islands":    1.35,
}

// regionalDefaultDistances give a typical distance from Western Europe
// when no airport coordinates exist for a destination.
var regionalDefaultDistances = map[string]float64{
	"Europe":        1000,
	"Asia":          8000,
	"North America": 6500,
	"South America": 10000,
	"Africa":        4500,
	"Oceania":       16000,
}

func bracketPrice(distanceKm float64) int {
	for _, b := range distancePriceBrackets {
		if b.maxKm > 0 && distanceKm <= b.maxKm {
			return b.price
		}
	}
	return distancePriceBrackets[len(distancePriceBrackets)-1].price
}

// EstimatePrice derives a round-trip price from the great-circle distance
// between the origin and the destination's main airport, adjusted by the
// destination's region and cost of living. This is the guaranteed floor
// of the price-fallback chain. origin may be nil (defaults to Paris CDG).
func EstimatePrice(countryCode string, p *profile.CountryProfile, origin *scoring.Coordinates) int {
	destCoords, ok := scoring.MainAirportCoords(countryCode)
	if !ok {
		// No airport mapping: fall back to a typical regional distance.
		distance := 5000.0
		if p != nil {
			if d, found := regionalDefaultDistances[p.Region]; found {
				distance = d
			}
		}
		return bracketPrice(distance)
	}

	originCoords := scoring.Coordinates{Lat: 49.0097, Lng: 2.5479} // CDG
	if origin != nil {
		originCoords = *origin
	}

	price := float64(bracketPrice(scoring.Haversine(originCoords, destCoords)))

	if p != nil {
		factor := 1.0
		if f, found := regionalPriceFactors[p.Subregion]; found {
			factor = f
		} else if f, found := regionalPriceFactors[p.Region]; found {
			factor = f
		}
		price *= factor

		// Cost of living nudges the estimate by up to ±15%.
		col := 100.0
		if p.Budget != nil {
			col = p.Budget.CostOfLivingIndex
		}
		price *= 1 + (col-100)*0.0015
	}

	return int(price)
}
