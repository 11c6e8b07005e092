package profile

// StyleScores positions a country on the four bipolar style axes (0-100).
type StyleScores struct {
	ChillVsIntense int `bson:"chill_vs_intense" json:"chill_vs_intense"`
	CityVsNature   int `bson:"city_vs_nature" json:"city_vs_nature"`
	EcoVsLuxury    int `bson:"eco_vs_luxury" json:"eco_vs_luxury"`
	TouristVsLocal int `bson:"tourist_vs_local" json:"tourist_vs_local"`
}

// MustHaveScores rates a country on the non-negotiable requirements (0-100).
type MustHaveScores struct {
	Accessibility  int `bson:"accessibility_score" json:"accessibility_score"`
	PetFriendly    int `bson:"pet_friendly_score" json:"pet_friendly_score"`
	FamilyFriendly int `bson:"family_friendly_score" json:"family_friendly_score"`
	WifiQuality    int `bson:"wifi_quality_score" json:"wifi_quality_score"`
}

// Budget holds the cost-of-living index and 7-day budget bands per tier,
// in EUR per person.
type Budget struct {
	CostOfLivingIndex float64 `bson:"cost_of_living_index" json:"cost_of_living_index"`
	BudgetMin7d       int     `bson:"budget_min_7d" json:"budget_min_7d"`
	BudgetMax7d       int     `bson:"budget_max_7d" json:"budget_max_7d"`
	ComfortMin7d      int     `bson:"comfort_min_7d" json:"comfort_min_7d"`
	ComfortMax7d      int     `bson:"comfort_max_7d" json:"comfort_max_7d"`
	PremiumMin7d      int     `bson:"premium_min_7d" json:"premium_min_7d"`
	PremiumMax7d      int     `bson:"premium_max_7d" json:"premium_max_7d"`
	LuxuryMin7d       int     `bson:"luxury_min_7d" json:"luxury_min_7d"`
	LuxuryMax7d       int     `bson:"luxury_max_7d" json:"luxury_max_7d"`
}

// MonthlyClimate is one month of climate normals.
type MonthlyClimate struct {
	Month         int     `bson:"month" json:"month"`
	AvgTempC      float64 `bson:"avg_temp_c" json:"avg_temp_c"`
	SunshineHours float64 `bson:"sunshine_hours" json:"sunshine_hours"`
}

// Activity is a headline activity for a destination.
type Activity struct {
	Name     string `bson:"name" json:"name"`
	Emoji    string `bson:"emoji" json:"emoji"`
	Category string `bson:"category" json:"category"`
}

// CountryProfile is the per-country reference record the scoring engine
// reads. Every field beyond CountryCode is optional: the engine degrades
// to neutral defaults when data is missing.
type CountryProfile struct {
	CountryCode string `bson:"country_code" json:"country_code"`
	CountryName string `bson:"country_name" json:"country_name"`
	Region      string `bson:"region" json:"region"`
	Subregion   string `bson:"subregion" json:"subregion"`
	FlagEmoji   string `bson:"flag_emoji" json:"flag_emoji"`

	StyleScores    *StyleScores     `bson:"style_scores,omitempty" json:"style_scores,omitempty"`
	InterestScores map[string]int   `bson:"interest_scores,omitempty" json:"interest_scores,omitempty"`
	MustHaves      *MustHaveScores  `bson:"must_haves,omitempty" json:"must_haves,omitempty"`
	Budget         *Budget          `bson:"budget,omitempty" json:"budget,omitempty"`
	MonthlyClimate []MonthlyClimate `bson:"monthly_climate,omitempty" json:"monthly_climate,omitempty"`
	BestMonths     []int            `bson:"best_months,omitempty" json:"best_months,omitempty"`
	AvoidMonths    []int            `bson:"avoid_months,omitempty" json:"avoid_months,omitempty"`
	TrendingScore  int              `bson:"trending_score" json:"trending_score"`

	TravelStyleBonuses map[string]int `bson:"travel_style_bonuses,omitempty" json:"travel_style_bonuses,omitempty"`
	OccasionBonuses    map[string]int `bson:"occasion_bonuses,omitempty" json:"occasion_bonuses,omitempty"`

	TopActivities []Activity `bson:"top_activities,omitempty" json:"top_activities,omitempty"`
	BestSeasons   []string   `bson:"best_seasons,omitempty" json:"best_seasons,omitempty"`

	PhotoURL    string `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	PhotoCredit string `bson:"photo_credit,omitempty" json:"photo_credit,omitempty"`

	FallbackHeadlines   map[string]string `bson:"fallback_headlines,omitempty" json:"fallback_headlines,omitempty"`
	FallbackDescription string            `bson:"fallback_description,omitempty" json:"fallback_description,omitempty"`
}

// ClimateFor returns the climate record for the given month (1-12),
// or nil when the profile has no record for it.
func (p *CountryProfile) ClimateFor(month int) *MonthlyClimate {
	for i := range p.MonthlyClimate {
		if p.MonthlyClimate[i].Month == month {
			return &p.MonthlyClimate[i]
		}
	}
	return nil
}

// BudgetBand7d returns the 7-day min/max band for a budget tier.
// Unknown tiers and missing budget data fall back to a broad default band.
func (p *CountryProfile) BudgetBand7d(tier string) (min, max int) {
	const defaultMin, defaultMax = 500, 1500
	if p.Budget == nil {
		return defaultMin, defaultMax
	}
	switch tier {
	case "budget":
		min, max = p.Budget.BudgetMin7d, p.Budget.BudgetMax7d
	case "comfort":
		min, max = p.Budget.ComfortMin7d, p.Budget.ComfortMax7d
	case "premium":
		min, max = p.Budget.PremiumMin7d, p.Budget.PremiumMax7d
	case "luxury":
		min, max = p.Budget.LuxuryMin7d, p.Budget.LuxuryMax7d
	}
	if min == 0 && max == 0 {
		return defaultMin, defaultMax
	}
	return min, max
}
