package suggest

import (
	"fmt"
	"strings"

	"github.com/neexbeast/wayfarer/internal/scoring"
)

const (
	minLimit     = 1
	maxLimit     = 5
	maxInterests = 5
)

var allowedInterests = map[string]bool{
	"culture":   true,
	"food":      true,
	"beach":     true,
	"adventure": true,
	"nature":    true,
	"nightlife": true,
	"history":   true,
	"art":       true,
	"shopping":  true,
	"wellness":  true,
	"sports":    true,
}

var validAxes = map[string]bool{
	scoring.AxisChillVsIntense: true,
	scoring.AxisCityVsNature:   true,
	scoring.AxisEcoVsLuxury:    true,
	scoring.AxisTouristVsLocal: true,
}

var validBudgets = map[string]bool{
	scoring.BudgetLevelBudget:  true,
	scoring.BudgetLevelComfort: true,
	scoring.BudgetLevelPremium: true,
	scoring.BudgetLevelLuxury:  true,
}

// normalizeRequest validates the request and rewrites the preferences
// into canonical form (lowercased whitelisted interests, defaulted
// budget tier, travel style and style axes). The returned error wraps
// ErrInvalidPreferences.
func normalizeRequest(req *Request) error {
	if req.Limit == 0 {
		req.Limit = maxLimit
	}
	if req.Limit < minLimit || req.Limit > maxLimit {
		return fmt.Errorf("%w: limit must be between %d and %d", ErrInvalidPreferences, minLimit, maxLimit)
	}

	p := &req.Preferences
	if p.StyleAxes == (scoring.StyleAxes{}) {
		p.StyleAxes = scoring.DefaultStyleAxes()
	}
	for _, v := range []int{
		p.StyleAxes.ChillVsIntense,
		p.StyleAxes.CityVsNature,
		p.StyleAxes.EcoVsLuxury,
		p.StyleAxes.TouristVsLocal,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: style axis values must be between 0 and 100", ErrInvalidPreferences)
		}
	}
	if p.TravelMonth != 0 && (p.TravelMonth < 1 || p.TravelMonth > 12) {
		return fmt.Errorf("%w: travelMonth must be between 1 and 12", ErrInvalidPreferences)
	}

	if p.BudgetLevel == "" {
		p.BudgetLevel = scoring.BudgetLevelComfort
	}
	p.BudgetLevel = strings.ToLower(p.BudgetLevel)
	if !validBudgets[p.BudgetLevel] {
		return fmt.Errorf("%w: unknown budget level %q", ErrInvalidPreferences, p.BudgetLevel)
	}

	if p.TravelStyle == "" {
		p.TravelStyle = "couple"
	}
	p.TravelStyle = strings.ToLower(p.TravelStyle)

	interests := make([]string, 0, len(p.Interests))
	for _, raw := range p.Interests {
		in := strings.ToLower(strings.TrimSpace(raw))
		if !allowedInterests[in] {
			continue
		}
		interests = append(interests, in)
		if len(interests) == maxInterests {
			break
		}
	}
	p.Interests = interests

	order := make([]string, 0, len(p.StyleAxesOrder))
	for _, axis := range p.StyleAxesOrder {
		if validAxes[axis] {
			order = append(order, axis)
		}
	}
	p.StyleAxesOrder = order

	return nil
}
