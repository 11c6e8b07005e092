// Package scoring implements the destination scoring engine: a pure,
// ten-dimension weighted evaluation of one country profile against one
// user preference vector.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/neexbeast/wayfarer/internal/profile"
)

// NeutralFlightPriceScore stands in for the flight-price dimension before
// real prices are known (phase 1) and when no price could be obtained.
const NeutralFlightPriceScore = 70

// MinScoreThreshold is the phase-1 cutoff below which a country is never
// recommended.
const MinScoreThreshold = 40

const maxKeyFactors = 5

// Result is the outcome of scoring one profile. Dimensions holds the raw
// per-dimension scores (0-100) and Weights the effective percentages used
// to combine them, so a caller can recombine after replacing a dimension.
type Result struct {
	Score      int
	Dimensions map[string]float64
	Weights    map[string]int
	Factors    []string
	DistanceKm *float64
}

// Score evaluates a country profile against the preferences for the given
// travel month. origin is the caller's resolved departure point, nil when
// unknown. The function is deterministic, tolerates any missing profile
// field, and never panics.
func Score(p *profile.CountryProfile, prefs Preferences, month int, origin *Coordinates) Result {
	dims := make(map[string]float64, len(Dimensions))
	var factors []string
	add := func(f string) { factors = append(factors, f) }

	// Style: position-weighted axis distance.
	styleScores := p.StyleScores
	if styleScores == nil {
		neutral := profile.StyleScores{ChillVsIntense: 50, CityVsNature: 50, EcoVsLuxury: 50, TouristVsLocal: 50}
		styleScores = &neutral
	}
	axisValues := map[string]int{
		AxisChillVsIntense: styleScores.ChillVsIntense,
		AxisCityVsNature:   styleScores.CityVsNature,
		AxisEcoVsLuxury:    styleScores.EcoVsLuxury,
		AxisTouristVsLocal: styleScores.TouristVsLocal,
	}
	posWeights := positionWeights(prefs.StyleAxesOrder)
	var weightedDist float64
	for axis, w := range posWeights {
		weightedDist += w * math.Abs(float64(axisValues[axis]-prefs.StyleAxes.Value(axis)))
	}
	dims[DimStyle] = math.Max(0, 100-weightedDist)
	if weightedDist < 15 {
		add("Style de voyage parfaitement adapte")
	} else if weightedDist < 25 {
		add("Ambiance correspondant a vos attentes")
	}

	// Interests: mean affinity over the caller's keywords.
	if len(prefs.Interests) > 0 {
		var sum float64
		for _, raw := range prefs.Interests {
			interest := strings.ToLower(strings.TrimSpace(raw))
			score, ok := p.InterestScores[interest]
			if !ok {
				score = 50
			}
			sum += float64(score)
			if score >= 85 {
				add(fmt.Sprintf("Excellent pour %s", interest))
			} else if score >= 75 {
				add(fmt.Sprintf("Tres bon pour %s", interest))
			}
		}
		dims[DimInterests] = sum / float64(len(prefs.Interests))
	} else {
		dims[DimInterests] = 70
	}

	// Must-haves: penalties for unmet requirements.
	mustHaves := p.MustHaves
	if mustHaves == nil {
		neutral := profile.MustHaveScores{Accessibility: 50, PetFriendly: 50, FamilyFriendly: 50, WifiQuality: 50}
		mustHaves = &neutral
	}
	penalty := 0.0
	if prefs.MustHaves.AccessibilityRequired {
		if mustHaves.Accessibility < 60 {
			penalty += 40
		} else if mustHaves.Accessibility >= 80 {
			add("Bonne accessibilite PMR")
		}
	}
	if prefs.MustHaves.PetFriendly {
		if mustHaves.PetFriendly < 50 {
			penalty += 35
		} else if mustHaves.PetFriendly >= 70 {
			add("Pet-friendly")
		}
	}
	if prefs.MustHaves.FamilyFriendly {
		if mustHaves.FamilyFriendly < 60 {
			penalty += 30
		} else if mustHaves.FamilyFriendly >= 80 {
			add("Ideal pour les familles")
		}
	}
	if prefs.MustHaves.HighSpeedWifi {
		if mustHaves.WifiQuality < 70 {
			penalty += 25
		} else if mustHaves.WifiQuality >= 85 {
			add("Excellente connectivite")
		}
	}
	dims[DimMustHaves] = math.Max(0, 100-penalty)

	// Budget: cost-of-living alignment with the caller's tier.
	col := 100.0
	if p.Budget != nil {
		col = p.Budget.CostOfLivingIndex
	}
	if lowerBudgetTier(prefs.BudgetLevel) {
		dims[DimBudget] = clamp(150-col, 0, 100)
		if col < 50 {
			add("Excellent rapport qualite-prix")
		} else if col < 70 {
			add("Destination abordable")
		}
	} else {
		dims[DimBudget] = math.Min(100, 30+col*0.7)
		if col > 100 {
			add("Options luxe disponibles")
		}
	}

	// Climate for the target month.
	climateScore := scoreClimate(p, prefs, month)
	dims[DimClimate] = climateScore
	if climateScore >= 85 {
		add("Saison ideale pour visiter")
	}

	// Distance from the departure point to the main airport.
	var distanceKm *float64
	dims[DimDistance] = 60
	if origin != nil {
		if dest, ok := MainAirportCoords(p.CountryCode); ok {
			km := Haversine(*origin, dest)
			distanceKm = &km
			dims[DimDistance] = scoreDistance(km, prefs.BudgetLevel)
		}
	}

	// Trending, verbatim.
	dims[DimTrending] = float64(p.TrendingScore)
	if p.TrendingScore >= 80 {
		add("Destination tendance")
	}

	// Travel context bonuses.
	styleBonus := p.TravelStyleBonuses[prefs.TravelStyle]
	occasionBonus := 0
	if prefs.Occasion != "" {
		occasionBonus = p.OccasionBonuses[prefs.Occasion]
		if occasionBonus >= 15 {
			add(fmt.Sprintf("Parfait pour %s", prefs.Occasion))
		}
	}
	dims[DimContext] = clamp(float64(50+styleBonus+occasionBonus), 0, 100)

	// Trip feasibility: flight time vs trip length.
	dims[DimTrip] = 70
	if tripDays, ok := ParseTripDays(prefs.TripDuration); ok && distanceKm != nil {
		tripScore := scoreTripFeasibility(*distanceKm, tripDays)
		dims[DimTrip] = tripScore
		if tripScore >= 85 {
			add("Temps de vol ideal pour votre duree")
		} else if tripScore <= 30 {
			add("Vol long pour la duree du sejour")
		}
	}

	// Flight price is neutral until phase 2 supplies real prices.
	dims[DimFlightPrice] = NeutralFlightPriceScore

	weights := Weights(prefs)
	if len(factors) > maxKeyFactors {
		factors = factors[:maxKeyFactors]
	}

	return Result{
		Score:      Combine(dims, weights),
		Dimensions: dims,
		Weights:    weights,
		Factors:    factors,
		DistanceKm: distanceKm,
	}
}

// Combine folds per-dimension scores into the final 0-100 integer using
// the given weight table.
func Combine(dims map[string]float64, weights map[string]int) int {
	var total float64
	for _, dim := range Dimensions {
		total += dims[dim] * float64(weights[dim]) / 100
	}
	return int(clamp(math.Round(total), 0, 100))
}

// FlightPriceScore normalizes a price against the candidate pool's range
// and converts it to a 0-100 score. Price-sensitive tiers get a convex
// penalty curve; premium tiers a much gentler one. A degenerate pool
// (all prices equal) scores as the best price.
func FlightPriceScore(price, minPrice, maxPrice int, budgetLevel string) float64 {
	normalized := 0.0
	if maxPrice > minPrice {
		normalized = float64(price-minPrice) / float64(maxPrice-minPrice)
	}
	if lowerBudgetTier(budgetLevel) {
		return clamp(100-math.Pow(normalized, 0.7)*100, 0, 100)
	}
	return clamp(100-math.Pow(normalized, 1.3)*60, 0, 100)
}

func scoreClimate(p *profile.CountryProfile, prefs Preferences, month int) float64 {
	best := containsInt(p.BestMonths, month)
	avoid := containsInt(p.AvoidMonths, month)

	record := p.ClimateFor(month)
	if record == nil {
		// Coarse fallback when the profile has no monthly data.
		switch {
		case best:
			return 85
		case avoid:
			return 30
		default:
			return 65
		}
	}

	low, high := idealTempBand(prefs.Interests)
	tempScore := 100.0
	if record.AvgTempC < low {
		tempScore = math.Max(0, 100-5*(low-record.AvgTempC))
	} else if record.AvgTempC > high {
		tempScore = math.Max(0, 100-5*(record.AvgTempC-high))
	}
	sunScore := math.Min(100, record.SunshineHours*12.5)

	score := 0.6*tempScore + 0.4*sunScore
	if best {
		score += 10
	}
	if avoid {
		score -= 25
	}
	return clamp(score, 0, 100)
}

// idealTempBand picks a comfortable temperature range from the caller's
// interests: beach and wellness travelers want heat, adventure and sports
// travelers tolerate cooler weather.
func idealTempBand(interests []string) (low, high float64) {
	has := func(names ...string) bool {
		for _, raw := range interests {
			interest := strings.ToLower(strings.TrimSpace(raw))
			for _, name := range names {
				if interest == name {
					return true
				}
			}
		}
		return false
	}
	switch {
	case has("beach", "wellness"):
		return 24, 35
	case has("adventure", "sports"):
		return 12, 28
	case len(interests) > 0:
		return 15, 30
	default:
		return 18, 28
	}
}

func scoreDistance(km float64, budgetLevel string) float64 {
	if lowerBudgetTier(budgetLevel) {
		switch {
		case km <= 2000:
			return 100
		case km <= 3500:
			return 80
		case km <= 5000:
			return 60
		case km <= 7000:
			return 40
		default:
			return 25
		}
	}
	switch {
	case km <= 3000:
		return 100
	case km <= 5000:
		return 85
	case km <= 7000:
		return 70
	case km <= 10000:
		return 55
	default:
		return 45
	}
}

func scoreTripFeasibility(distanceKm float64, tripDays int) float64 {
	maxHours := maxAcceptableFlightHours(tripDays)
	if maxHours == 0 {
		return 100
	}
	ratio := FlightHours(distanceKm) / maxHours
	switch {
	case ratio <= 0.5:
		return 100
	case ratio <= 0.75:
		return 85
	case ratio <= 1.0:
		return 60
	case ratio <= 1.3:
		return 30
	default:
		return math.Max(0, 30-(ratio-1.3)*40)
	}
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func clamp(v, low, high float64) float64 {
	return math.Max(low, math.Min(high, v))
}
