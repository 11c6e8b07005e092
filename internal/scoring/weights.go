package scoring

// Dimension names. Weights are percentages and always sum to 100.
const (
	DimStyle       = "style"
	DimInterests   = "interests"
	DimMustHaves   = "must_haves"
	DimBudget      = "budget"
	DimClimate     = "climate"
	DimDistance    = "distance"
	DimTrending    = "trending"
	DimContext     = "context"
	DimTrip        = "trip"
	DimFlightPrice = "flight_price"
)

// Dimensions lists every scoring dimension.
var Dimensions = []string{
	DimStyle, DimInterests, DimMustHaves, DimBudget, DimClimate,
	DimDistance, DimTrending, DimContext, DimTrip, DimFlightPrice,
}

func baseWeights() map[string]int {
	return map[string]int{
		DimStyle:       17,
		DimInterests:   17,
		DimMustHaves:   10,
		DimBudget:      8,
		DimClimate:     12,
		DimDistance:    10,
		DimTrending:    3,
		DimContext:     5,
		DimTrip:        10,
		DimFlightPrice: 8,
	}
}

// Weights returns the effective dimension weights for the given
// preferences. When the caller's top-priority axis is ecoVsLuxury at an
// extreme position, weight shifts from style/trending/context toward
// flight price, budget and distance; a top-priority cityVsNature extreme
// shifts trending/context weight into climate. The sum stays at 100.
func Weights(prefs Preferences) map[string]int {
	w := baseWeights()
	if len(prefs.StyleAxesOrder) == 0 {
		return w
	}

	first := prefs.StyleAxesOrder[0]
	v := prefs.StyleAxes.Value(first)
	extreme := v < 30 || v > 70
	if !extreme {
		return w
	}

	switch first {
	case AxisEcoVsLuxury:
		w[DimStyle] -= 5
		w[DimTrending] -= 1
		w[DimContext] -= 2
		w[DimFlightPrice] += 4
		w[DimBudget] += 2
		w[DimDistance] += 2
	case AxisCityVsNature:
		w[DimTrending] -= 2
		w[DimContext] -= 2
		w[DimClimate] += 4
	}
	return w
}

// positionWeights returns the per-axis weight for each of the four style
// axes. With an explicit priority order the leading axes dominate;
// otherwise all four weigh equally.
func positionWeights(order []string) map[string]float64 {
	weights := map[string]float64{}
	if len(order) == 0 {
		for _, axis := range axisOrderCanonical {
			weights[axis] = 0.25
		}
		return weights
	}

	ranked := []float64{0.40, 0.30, 0.20, 0.10}
	pos := 0
	for _, axis := range order {
		if _, seen := weights[axis]; seen || pos >= len(ranked) {
			continue
		}
		weights[axis] = ranked[pos]
		pos++
	}
	for _, axis := range axisOrderCanonical {
		if _, seen := weights[axis]; !seen && pos < len(ranked) {
			weights[axis] = ranked[pos]
			pos++
		}
	}
	return weights
}
