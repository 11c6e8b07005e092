package suggest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/wayfarer/internal/airports"
	"github.com/neexbeast/wayfarer/internal/content"
	"github.com/neexbeast/wayfarer/internal/flightprice"
	"github.com/neexbeast/wayfarer/internal/profile"
	"github.com/neexbeast/wayfarer/internal/scoring"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeProfiles struct {
	profiles []profile.CountryProfile
	err      error
}

func (f *fakeProfiles) GetAll(context.Context) ([]profile.CountryProfile, error) {
	return f.profiles, f.err
}

type fakeOracle struct {
	prices map[string]flightprice.Price
	origin string
	calls  int
	codes  []string
}

func (f *fakeOracle) GetPricesBatch(_ context.Context, _ string, countryCodes []string,
	_ map[string]*profile.CountryProfile, _ string) (map[string]flightprice.Price, string) {
	f.calls++
	f.codes = countryCodes
	return f.prices, f.origin
}

type fakeLocator struct {
	airport *airports.Airport
	err     error
}

func (f *fakeLocator) NearestAirport(context.Context, string) (*airports.Airport, error) {
	return f.airport, f.err
}

type fakeGenerator struct {
	calls    int
	fallback bool
}

func (f *fakeGenerator) GenerateBatch(_ context.Context, items []content.Item, _ content.UserContext) []content.Generated {
	f.calls++
	out := make([]content.Generated, 0, len(items))
	for _, item := range items {
		out = append(out, content.Generated{
			CountryCode: item.CountryCode,
			Headline:    "H-" + item.CountryCode,
			Description: "D-" + item.CountryCode,
			Fallback:    f.fallback,
		})
	}
	return out
}

type memCache struct {
	entries map[string]*Response
	gets    int
	sets    int
}

func newMemCache() *memCache { return &memCache{entries: map[string]*Response{}} }

func (c *memCache) Get(_ context.Context, key string) (*Response, error) {
	c.gets++
	return c.entries[key], nil
}

func (c *memCache) Set(_ context.Context, key string, resp *Response) error {
	c.sets++
	c.entries[key] = resp
	return nil
}

// goodProfile scores comfortably above the recommendation threshold for
// beachPrefs.
func goodProfile(code, name, region string, beach int) profile.CountryProfile {
	return profile.CountryProfile{
		CountryCode: code,
		CountryName: name,
		Region:      region,
		FlagEmoji:   "🏳",
		StyleScores: &profile.StyleScores{ChillVsIntense: 50, CityVsNature: 50, EcoVsLuxury: 50, TouristVsLocal: 50},
		InterestScores: map[string]int{
			"beach": beach,
		},
		Budget:        &profile.Budget{CostOfLivingIndex: 50, ComfortMin7d: 700, ComfortMax7d: 1400},
		TrendingScore: 50,
		TopActivities: []profile.Activity{{Name: "Plongee", Emoji: "🤿", Category: "adventure"}},
		BestSeasons:   []string{"spring"},
	}
}

func beachRequest(limit int) Request {
	return Request{
		Preferences: scoring.Preferences{
			Interests:   []string{"beach"},
			TravelStyle: "couple",
			BudgetLevel: "comfort",
			TravelMonth: 6,
		},
		Limit: limit,
	}
}

func newTestService(cfg Config) *Service {
	if cfg.Log == nil {
		cfg.Log = discardLogger()
	}
	s := NewService(cfg)
	s.now = func() time.Time { return time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC) }
	return s
}

func TestSuggest_RanksAndLimits(t *testing.T) {
	store := &fakeProfiles{profiles: []profile.CountryProfile{
		goodProfile("TH", "Thailande", "Asia", 95),
		goodProfile("ES", "Espagne", "Europe", 70),
		goodProfile("PT", "Portugal", "Europe", 85),
	}}
	s := newTestService(Config{Profiles: store})

	resp, err := s.Suggest(context.Background(), beachRequest(3))
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Len(t, resp.Suggestions, 3)
	assert.Equal(t, "TH", resp.Suggestions[0].CountryCode)
	assert.GreaterOrEqual(t, resp.Suggestions[0].MatchScore, resp.Suggestions[1].MatchScore)
	assert.GreaterOrEqual(t, resp.Suggestions[1].MatchScore, resp.Suggestions[2].MatchScore)
	assert.NotEmpty(t, resp.GeneratedAt)
}

func TestSuggest_FiltersBelowThreshold(t *testing.T) {
	bad := profile.CountryProfile{
		CountryCode:    "XX",
		CountryName:    "Nulle Part",
		Region:         "Nowhere",
		StyleScores:    &profile.StyleScores{ChillVsIntense: 90, CityVsNature: 90, EcoVsLuxury: 90, TouristVsLocal: 90},
		InterestScores: map[string]int{"beach": 5},
		MustHaves:      &profile.MustHaveScores{Accessibility: 10, PetFriendly: 50, FamilyFriendly: 50, WifiQuality: 50},
		Budget:         &profile.Budget{CostOfLivingIndex: 160},
		AvoidMonths:    []int{6},
		TrendingScore:  5,
	}
	store := &fakeProfiles{profiles: []profile.CountryProfile{
		bad,
		goodProfile("TH", "Thailande", "Asia", 95),
	}}
	s := newTestService(Config{Profiles: store})

	req := beachRequest(5)
	req.Preferences.StyleAxes = scoring.StyleAxes{ChillVsIntense: 10, CityVsNature: 10, EcoVsLuxury: 10, TouristVsLocal: 10}
	req.Preferences.MustHaves.AccessibilityRequired = true

	resp, err := s.Suggest(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, "TH", resp.Suggestions[0].CountryCode)
}

func TestSuggest_InvalidLimit(t *testing.T) {
	s := newTestService(Config{Profiles: &fakeProfiles{}})

	_, err := s.Suggest(context.Background(), Request{Limit: 9})
	require.ErrorIs(t, err, ErrInvalidPreferences)
}

func TestSuggest_ProfileStoreDown(t *testing.T) {
	s := newTestService(Config{Profiles: &fakeProfiles{err: fmt.Errorf("mongo timeout")}})

	_, err := s.Suggest(context.Background(), beachRequest(3))
	require.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestSuggest_RegionCap(t *testing.T) {
	store := &fakeProfiles{profiles: []profile.CountryProfile{
		goodProfile("ES", "Espagne", "Europe", 98),
		goodProfile("PT", "Portugal", "Europe", 97),
		goodProfile("IT", "Italie", "Europe", 96),
		goodProfile("GR", "Grece", "Europe", 95),
		goodProfile("FR", "France", "Europe", 94),
		goodProfile("TH", "Thailande", "Asia", 80),
		goodProfile("ID", "Indonesie", "Asia", 79),
		goodProfile("MX", "Mexique", "Americas", 78),
	}}
	s := newTestService(Config{Profiles: store})

	resp, err := s.Suggest(context.Background(), beachRequest(4))
	require.NoError(t, err)
	require.Len(t, resp.Suggestions, 4)

	perRegion := map[string]int{}
	byCode := map[string]string{
		"ES": "Europe", "PT": "Europe", "IT": "Europe", "GR": "Europe", "FR": "Europe",
		"TH": "Asia", "ID": "Asia", "MX": "Americas",
	}
	for _, sg := range resp.Suggestions {
		perRegion[byCode[sg.CountryCode]]++
	}
	for region, n := range perRegion {
		assert.LessOrEqual(t, n, regionCap, "region %s exceeds cap", region)
	}
}

func TestSuggest_DeterministicWithinBucket(t *testing.T) {
	store := &fakeProfiles{profiles: []profile.CountryProfile{
		goodProfile("ES", "Espagne", "Europe", 95),
		goodProfile("PT", "Portugal", "Europe", 94),
		goodProfile("TH", "Thailande", "Asia", 93),
		goodProfile("ID", "Indonesie", "Asia", 92),
		goodProfile("MX", "Mexique", "Americas", 91),
		goodProfile("BR", "Bresil", "Americas", 90),
		goodProfile("AU", "Australie", "Oceania", 89),
	}}
	s := newTestService(Config{Profiles: store})

	first, err := s.Suggest(context.Background(), beachRequest(3))
	require.NoError(t, err)
	second, err := s.Suggest(context.Background(), beachRequest(3))
	require.NoError(t, err)

	require.Len(t, second.Suggestions, 3)
	for i := range first.Suggestions {
		assert.Equal(t, first.Suggestions[i].CountryCode, second.Suggestions[i].CountryCode)
	}
}

func TestSuggest_SelectionRotatesAcrossBuckets(t *testing.T) {
	prefs := beachRequest(3).Preferences
	seedA := selectionSeed(prefs, 6, 3, 100)
	seedB := selectionSeed(prefs, 6, 3, 101)
	assert.NotEqual(t, seedA, seedB)

	keyA := cacheKey(prefs, 6, 3, 100)
	keyB := cacheKey(prefs, 6, 3, 101)
	assert.NotEqual(t, keyA, keyB)
}

func TestSuggest_CacheHitSkipsPipeline(t *testing.T) {
	store := &fakeProfiles{profiles: []profile.CountryProfile{
		goodProfile("TH", "Thailande", "Asia", 95),
	}}
	cache := newMemCache()
	s := newTestService(Config{Profiles: store, Cache: cache})

	first, err := s.Suggest(context.Background(), beachRequest(3))
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)

	second, err := s.Suggest(context.Background(), beachRequest(3))
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "cache hit must not re-run the pipeline")
	assert.Equal(t, first, second)
}

func TestSuggest_ForceRefreshBypassesCache(t *testing.T) {
	store := &fakeProfiles{profiles: []profile.CountryProfile{
		goodProfile("TH", "Thailande", "Asia", 95),
	}}
	cache := newMemCache()
	s := newTestService(Config{Profiles: store, Cache: cache})

	_, err := s.Suggest(context.Background(), beachRequest(3))
	require.NoError(t, err)

	req := beachRequest(3)
	req.ForceRefresh = true
	_, err = s.Suggest(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.sets)
}

func TestSuggest_Phase2RerankesByPrice(t *testing.T) {
	store := &fakeProfiles{profiles: []profile.CountryProfile{
		goodProfile("TH", "Thailande", "Asia", 84),
		goodProfile("ES", "Espagne", "Europe", 80),
	}}
	oracle := &fakeOracle{
		origin: "CDG",
		prices: map[string]flightprice.Price{
			"ES": {Amount: 100, Source: flightprice.SourceAPI},
			"TH": {Amount: 900, Source: flightprice.SourceCache},
		},
	}
	s := newTestService(Config{Profiles: store, Oracle: oracle})

	req := beachRequest(2)
	req.Preferences.UserLocation.City = "Paris"

	resp, err := s.Suggest(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Suggestions, 2)

	// The drastically cheaper flight flips the phase-1 order for a
	// price-sensitive tier.
	assert.Equal(t, "ES", resp.Suggestions[0].CountryCode)
	assert.Equal(t, "CDG", resp.SourceAirportIATA)
	require.NotNil(t, resp.Suggestions[0].FlightPriceEstimate)
	assert.Equal(t, 100, *resp.Suggestions[0].FlightPriceEstimate)
	assert.Equal(t, flightprice.SourceAPI, resp.Suggestions[0].FlightPriceSource)
	assert.Equal(t, 1, oracle.calls)
}

func TestSuggest_NoOriginSkipsPricing(t *testing.T) {
	store := &fakeProfiles{profiles: []profile.CountryProfile{
		goodProfile("TH", "Thailande", "Asia", 95),
	}}
	oracle := &fakeOracle{origin: "CDG", prices: map[string]flightprice.Price{}}
	s := newTestService(Config{Profiles: store, Oracle: oracle})

	resp, err := s.Suggest(context.Background(), beachRequest(1))
	require.NoError(t, err)
	assert.Equal(t, 0, oracle.calls)
	assert.Empty(t, resp.SourceAirportIATA)
	assert.Nil(t, resp.Suggestions[0].FlightPriceEstimate)
}

func TestSuggest_LocatorSetsFlightDuration(t *testing.T) {
	store := &fakeProfiles{profiles: []profile.CountryProfile{
		goodProfile("TH", "Thailande", "Asia", 95),
	}}
	locator := &fakeLocator{airport: &airports.Airport{
		IATA:   "CDG",
		Coords: scoring.Coordinates{Lat: 49.0097, Lng: 2.5479},
	}}
	s := newTestService(Config{Profiles: store, Locator: locator})

	req := beachRequest(1)
	req.Preferences.UserLocation.City = "Paris"

	resp, err := s.Suggest(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Suggestions, 1)
	assert.NotEmpty(t, resp.Suggestions[0].FlightDurationFromOrigin)
}

func TestSuggest_ContentGeneration(t *testing.T) {
	store := &fakeProfiles{profiles: []profile.CountryProfile{
		goodProfile("TH", "Thailande", "Asia", 95),
	}}
	gen := &fakeGenerator{}
	s := newTestService(Config{Profiles: store, Generator: gen})

	resp, err := s.Suggest(context.Background(), beachRequest(1))
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "H-TH", resp.Suggestions[0].Headline)
	assert.Equal(t, "D-TH", resp.Suggestions[0].Description)
}

func TestSuggest_FastModeSkipsGenerator(t *testing.T) {
	p := goodProfile("TH", "Thailande", "Asia", 95)
	p.FallbackHeadlines = map[string]string{"couple": "Thailande en amoureux"}
	store := &fakeProfiles{profiles: []profile.CountryProfile{p}}
	gen := &fakeGenerator{}
	s := newTestService(Config{Profiles: store, Generator: gen})

	req := beachRequest(1)
	req.FastMode = true

	resp, err := s.Suggest(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, "Thailande en amoureux", resp.Suggestions[0].Headline)
}

func TestSuggest_ProfileFallbackOnGenerationFailure(t *testing.T) {
	p := goodProfile("TH", "Thailande", "Asia", 95)
	p.FallbackHeadlines = map[string]string{"couple": "Thailande en amoureux"}
	p.FallbackDescription = "Plages et temples."
	store := &fakeProfiles{profiles: []profile.CountryProfile{p}}
	gen := &fakeGenerator{fallback: true}
	s := newTestService(Config{Profiles: store, Generator: gen})

	resp, err := s.Suggest(context.Background(), beachRequest(1))
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "Thailande en amoureux", resp.Suggestions[0].Headline)
	assert.Equal(t, "Plages et temples.", resp.Suggestions[0].Description)
}

func TestSuggest_BudgetEstimatePerDay(t *testing.T) {
	store := &fakeProfiles{profiles: []profile.CountryProfile{
		goodProfile("TH", "Thailande", "Asia", 95),
	}}
	s := newTestService(Config{Profiles: store})

	resp, err := s.Suggest(context.Background(), beachRequest(1))
	require.NoError(t, err)

	budget := resp.Suggestions[0].EstimatedBudgetPerPerson
	assert.Equal(t, 60, budget.Min)
	assert.Equal(t, 120, budget.Max)
	assert.Equal(t, "EUR", budget.Currency)
	assert.Equal(t, "per_day", budget.Duration)
}

func TestNormalizeRequest_InterestWhitelist(t *testing.T) {
	req := Request{
		Limit: 3,
		Preferences: scoring.Preferences{
			Interests: []string{"BEACH", " food ", "skydiving", "culture", "history", "art", "nature"},
		},
	}
	require.NoError(t, normalizeRequest(&req))
	assert.Equal(t, []string{"beach", "food", "culture", "history", "art"}, req.Preferences.Interests)
}

func TestNormalizeRequest_Defaults(t *testing.T) {
	req := Request{}
	require.NoError(t, normalizeRequest(&req))
	assert.Equal(t, maxLimit, req.Limit)
	assert.Equal(t, scoring.BudgetLevelComfort, req.Preferences.BudgetLevel)
	assert.Equal(t, "couple", req.Preferences.TravelStyle)
	assert.Equal(t, scoring.DefaultStyleAxes(), req.Preferences.StyleAxes)
}

func TestNormalizeRequest_RejectsBadInput(t *testing.T) {
	bad := Request{Limit: 2, Preferences: scoring.Preferences{TravelMonth: 13}}
	assert.ErrorIs(t, normalizeRequest(&bad), ErrInvalidPreferences)

	bad = Request{Limit: 2, Preferences: scoring.Preferences{BudgetLevel: "lavish"}}
	assert.ErrorIs(t, normalizeRequest(&bad), ErrInvalidPreferences)

	bad = Request{Limit: 2, Preferences: scoring.Preferences{
		StyleAxes: scoring.StyleAxes{ChillVsIntense: 140, CityVsNature: 50, EcoVsLuxury: 50, TouristVsLocal: 50},
	}}
	assert.ErrorIs(t, normalizeRequest(&bad), ErrInvalidPreferences)
}

func TestNormalizeRequest_DropsUnknownAxes(t *testing.T) {
	req := Request{Limit: 2, Preferences: scoring.Preferences{
		StyleAxesOrder: []string{scoring.AxisCityVsNature, "madeUpAxis", scoring.AxisEcoVsLuxury},
	}}
	require.NoError(t, normalizeRequest(&req))
	assert.Equal(t, []string{scoring.AxisCityVsNature, scoring.AxisEcoVsLuxury}, req.Preferences.StyleAxesOrder)
}

func TestCompleteness(t *testing.T) {
	empty := completeness(scoring.Preferences{StyleAxes: scoring.DefaultStyleAxes()})
	assert.Equal(t, 20, empty.CompletionScore)
	assert.Empty(t, empty.KeyFactors)

	lat, lng := 48.85, 2.35
	full := completeness(scoring.Preferences{
		UserLocation:        scoring.UserLocation{City: "Paris", Lat: &lat, Lng: &lng},
		StyleAxes:           scoring.StyleAxes{ChillVsIntense: 80, CityVsNature: 20, EcoVsLuxury: 50, TouristVsLocal: 50},
		StyleAxesOrder:      []string{scoring.AxisChillVsIntense},
		Interests:           []string{"beach"},
		MustHaves:           scoring.MustHaves{FamilyFriendly: true},
		DietaryRestrictions: []string{"vegetarian"},
		Occasion:            "honeymoon",
	})
	assert.Equal(t, 100, full.CompletionScore)
	assert.Contains(t, full.KeyFactors, "location")
	assert.Contains(t, full.KeyFactors, "interests")
}

func TestSelectDiverse_PoolSmallerThanLimit(t *testing.T) {
	p := goodProfile("TH", "Thailande", "Asia", 95)
	cs := []*candidate{{profile: &p, result: scoring.Result{Score: 80}}}
	picked := selectDiverse(cs, 5, 42)
	require.Len(t, picked, 1)
	assert.Equal(t, "TH", picked[0].profile.CountryCode)
}
