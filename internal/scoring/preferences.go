package scoring

// Style axis names, as used in StyleAxesOrder.
const (
	AxisChillVsIntense = "chillVsIntense"
	AxisCityVsNature   = "cityVsNature"
	AxisEcoVsLuxury    = "ecoVsLuxury"
	AxisTouristVsLocal = "touristVsLocal"
)

// Budget tiers.
const (
	BudgetLevelBudget  = "budget"
	BudgetLevelComfort = "comfort"
	BudgetLevelPremium = "premium"
	BudgetLevelLuxury  = "luxury"
)

// axisOrderCanonical is the declaration order used to fill position
// weights for axes the user did not explicitly rank.
var axisOrderCanonical = []string{
	AxisChillVsIntense,
	AxisCityVsNature,
	AxisEcoVsLuxury,
	AxisTouristVsLocal,
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UserLocation is the caller's departure location. City drives airport
// resolution; explicit coordinates take precedence for distance scoring.
type UserLocation struct {
	City    string   `json:"city,omitempty"`
	Country string   `json:"country,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// StyleAxes holds the four bipolar sliders, each 0-100. 50 is neutral.
type StyleAxes struct {
	ChillVsIntense int `json:"chillVsIntense"`
	CityVsNature   int `json:"cityVsNature"`
	EcoVsLuxury    int `json:"ecoVsLuxury"`
	TouristVsLocal int `json:"touristVsLocal"`
}

// DefaultStyleAxes returns the neutral slider positions.
func DefaultStyleAxes() StyleAxes {
	return StyleAxes{ChillVsIntense: 50, CityVsNature: 50, EcoVsLuxury: 50, TouristVsLocal: 50}
}

// Value returns the slider position for a named axis.
func (a StyleAxes) Value(axis string) int {
	switch axis {
	case AxisChillVsIntense:
		return a.ChillVsIntense
	case AxisCityVsNature:
		return a.CityVsNature
	case AxisEcoVsLuxury:
		return a.EcoVsLuxury
	case AxisTouristVsLocal:
		return a.TouristVsLocal
	}
	return 50
}

// MustHaves flags the caller's non-negotiable requirements.
type MustHaves struct {
	AccessibilityRequired bool `json:"accessibilityRequired"`
	PetFriendly           bool `json:"petFriendly"`
	FamilyFriendly        bool `json:"familyFriendly"`
	HighSpeedWifi         bool `json:"highSpeedWifi"`
}

// Any reports whether at least one requirement is set.
func (m MustHaves) Any() bool {
	return m.AccessibilityRequired || m.PetFriendly || m.FamilyFriendly || m.HighSpeedWifi
}

// Preferences is the immutable per-request preference vector the engine
// scores against.
type Preferences struct {
	UserLocation        UserLocation `json:"userLocation"`
	StyleAxes           StyleAxes    `json:"styleAxes"`
	StyleAxesOrder      []string     `json:"styleAxesOrder,omitempty"`
	Interests           []string     `json:"interests"`
	MustHaves           MustHaves    `json:"mustHaves"`
	DietaryRestrictions []string     `json:"dietaryRestrictions,omitempty"`
	TravelStyle         string       `json:"travelStyle"`
	Occasion            string       `json:"occasion,omitempty"`
	BudgetLevel         string       `json:"budgetLevel"`
	TravelMonth         int          `json:"travelMonth,omitempty"`
	TripDuration        string       `json:"tripDuration,omitempty"`
}

// lowerBudgetTier reports whether the tier is price-sensitive
// (budget/comfort) as opposed to premium/luxury.
func lowerBudgetTier(tier string) bool {
	return tier == BudgetLevelBudget || tier == BudgetLevelComfort
}
