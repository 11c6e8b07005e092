package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/neexbeast/wayfarer/internal/airports"
	"github.com/neexbeast/wayfarer/internal/content"
	"github.com/neexbeast/wayfarer/internal/flightprice"
	"github.com/neexbeast/wayfarer/internal/profile"
	"github.com/neexbeast/wayfarer/internal/scoring"
)

const (
	// phase2TopN is how many phase-1 leaders get real flight prices.
	phase2TopN = 20
	// poolExtra widens the selection pool beyond the requested limit so
	// the seeded sample has something to rotate through.
	poolExtra = 5
	// poolScanMultiplier bounds how deep into the ranking the pool
	// builder looks for regional variety.
	poolScanMultiplier = 3
	// regionCap is the maximum number of destinations per region in the
	// selection pool.
	regionCap = 2
	// budgetRealismFactor deflates the profile's 7-day band into a
	// realistic per-day figure (travelers overshoot published bands).
	budgetRealismFactor = 0.6

	priceCurrency = "EUR"
)

// ProfileStore supplies the country profiles to score.
type ProfileStore interface {
	GetAll(ctx context.Context) ([]profile.CountryProfile, error)
}

// PriceOracle supplies round-trip prices for phase-2 re-scoring.
type PriceOracle interface {
	GetPricesBatch(ctx context.Context, originCity string, countryCodes []string,
		profiles map[string]*profile.CountryProfile, currency string) (map[string]flightprice.Price, string)
}

// OriginLocator resolves the caller's city to a departure airport.
type OriginLocator interface {
	NearestAirport(ctx context.Context, city string) (*airports.Airport, error)
}

// ContentGenerator produces per-destination marketing copy.
type ContentGenerator interface {
	GenerateBatch(ctx context.Context, items []content.Item, user content.UserContext) []content.Generated
}

// ResponseCache stores whole responses keyed by preference hash.
type ResponseCache interface {
	Get(ctx context.Context, key string) (*Response, error)
	Set(ctx context.Context, key string, resp *Response) error
}

// Config wires a Service. Profiles and Log are required; every other
// dependency is optional and its absence degrades the pipeline rather
// than failing it.
type Config struct {
	Profiles  ProfileStore
	Oracle    PriceOracle
	Locator   OriginLocator
	Generator ContentGenerator
	Cache     ResponseCache
	Log       *slog.Logger
}

// Service runs the suggestion pipeline end to end.
type Service struct {
	profiles  ProfileStore
	oracle    PriceOracle
	locator   OriginLocator
	generator ContentGenerator
	cache     ResponseCache
	log       *slog.Logger
	now       func() time.Time
}

func NewService(cfg Config) *Service {
	return &Service{
		profiles:  cfg.Profiles,
		oracle:    cfg.Oracle,
		locator:   cfg.Locator,
		generator: cfg.Generator,
		cache:     cfg.Cache,
		log:       cfg.Log,
		now:       time.Now,
	}
}

// candidate is one scored country moving through the pipeline.
type candidate struct {
	profile *profile.CountryProfile
	result  scoring.Result
	price   *flightprice.Price
}

// Suggest validates the request and runs the full pipeline: cache
// lookup, two-phase scoring, diversity selection, content generation and
// response assembly.
func (s *Service) Suggest(ctx context.Context, req Request) (*Response, error) {
	if err := normalizeRequest(&req); err != nil {
		return nil, err
	}
	prefs := req.Preferences

	now := s.now()
	month := prefs.TravelMonth
	if month == 0 {
		month = int(now.UTC().Month())
	}
	bucket := now.Unix() / cacheBucketSeconds
	key := cacheKey(prefs, month, req.Limit, bucket)

	if s.cache != nil && !req.ForceRefresh {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn("response cache read failed", "err", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	profiles, err := s.profiles.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	origin := s.resolveOrigin(ctx, prefs.UserLocation)

	candidates := s.phase1(profiles, prefs, month, origin)
	originIATA := s.phase2(ctx, candidates, prefs)

	seed := selectionSeed(prefs, month, req.Limit, bucket)
	selected := selectDiverse(candidates, req.Limit, seed)

	generated := s.generateContent(ctx, selected, prefs, req.FastMode)

	resp := &Response{
		Success:           true,
		Suggestions:       make([]Suggestion, 0, len(selected)),
		GeneratedAt:       now.UTC().Format(time.RFC3339),
		BasedOnProfile:    completeness(prefs),
		SourceAirportIATA: originIATA,
	}
	for _, c := range selected {
		resp.Suggestions = append(resp.Suggestions, buildSuggestion(c, prefs, generated[c.profile.CountryCode]))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp); err != nil {
			s.log.Warn("response cache write failed", "err", err)
		}
	}
	return resp, nil
}

// resolveOrigin turns the user location into departure coordinates.
// Explicit coordinates win; otherwise the city is resolved to its
// nearest airport. nil means distance-based dimensions stay neutral.
func (s *Service) resolveOrigin(ctx context.Context, loc scoring.UserLocation) *scoring.Coordinates {
	if loc.Lat != nil && loc.Lng != nil {
		return &scoring.Coordinates{Lat: *loc.Lat, Lng: *loc.Lng}
	}
	if s.locator == nil || loc.City == "" {
		return nil
	}
	airport, err := s.locator.NearestAirport(ctx, loc.City)
	if err != nil {
		s.log.Warn("origin airport resolution failed", "city", loc.City, "err", err)
		return nil
	}
	if airport == nil {
		return nil
	}
	return &airport.Coords
}

// phase1 scores every profile with a neutral flight-price dimension and
// keeps those at or above the recommendation threshold, best first.
func (s *Service) phase1(profiles []profile.CountryProfile, prefs scoring.Preferences, month int, origin *scoring.Coordinates) []*candidate {
	candidates := make([]*candidate, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		result := scoring.Score(p, prefs, month, origin)
		if result.Score < scoring.MinScoreThreshold {
			continue
		}
		candidates = append(candidates, &candidate{profile: p, result: result})
	}
	sortCandidates(candidates)
	return candidates
}

// phase2 fetches real prices for the ranking head, swaps the neutral
// flight-price dimension for a pool-normalized one and re-ranks the
// head. Pricing failures leave the phase-1 ranking untouched. Returns
// the resolved origin airport, "" when pricing was skipped or failed.
func (s *Service) phase2(ctx context.Context, candidates []*candidate, prefs scoring.Preferences) string {
	if s.oracle == nil || prefs.UserLocation.City == "" || len(candidates) == 0 {
		return ""
	}
	head := candidates
	if len(head) > phase2TopN {
		head = head[:phase2TopN]
	}

	codes := make([]string, 0, len(head))
	profilesByCode := make(map[string]*profile.CountryProfile, len(head))
	for _, c := range head {
		codes = append(codes, c.profile.CountryCode)
		profilesByCode[c.profile.CountryCode] = c.profile
	}

	prices, originIATA := s.oracle.GetPricesBatch(ctx, prefs.UserLocation.City, codes, profilesByCode, priceCurrency)
	if len(prices) == 0 {
		return originIATA
	}

	minPrice, maxPrice := priceRange(prices)
	for _, c := range head {
		price, ok := prices[c.profile.CountryCode]
		if !ok {
			continue
		}
		p := price
		c.price = &p
		c.result.Dimensions[scoring.DimFlightPrice] = scoring.FlightPriceScore(price.Amount, minPrice, maxPrice, prefs.BudgetLevel)
		c.result.Score = scoring.Combine(c.result.Dimensions, c.result.Weights)
	}
	sortCandidates(head)
	return originIATA
}

func priceRange(prices map[string]flightprice.Price) (min, max int) {
	first := true
	for _, p := range prices {
		if first || p.Amount < min {
			min = p.Amount
		}
		if first || p.Amount > max {
			max = p.Amount
		}
		first = false
	}
	return min, max
}

// sortCandidates orders by score descending, country code ascending as
// the deterministic tie-break.
func sortCandidates(cs []*candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].result.Score != cs[j].result.Score {
			return cs[i].result.Score > cs[j].result.Score
		}
		return cs[i].profile.CountryCode < cs[j].profile.CountryCode
	})
}

// selectDiverse builds a region-capped pool from the top of the ranking
// and samples the requested number of destinations with a seeded RNG, so
// repeated identical requests within a cache bucket agree and different
// buckets rotate the picks.
func selectDiverse(candidates []*candidate, limit int, seed int64) []*candidate {
	poolSize := limit + poolExtra
	scanLimit := poolSize * poolScanMultiplier
	if scanLimit > len(candidates) {
		scanLimit = len(candidates)
	}

	perRegion := make(map[string]int)
	pool := make([]*candidate, 0, poolSize)
	for _, c := range candidates[:scanLimit] {
		region := c.profile.Region
		if region != "" && perRegion[region] >= regionCap {
			continue
		}
		perRegion[region]++
		pool = append(pool, c)
		if len(pool) == poolSize {
			break
		}
	}

	if len(pool) <= limit {
		return pool
	}

	rng := rand.New(rand.NewSource(seed))
	picked := make([]*candidate, 0, limit)
	for _, idx := range rng.Perm(len(pool))[:limit] {
		picked = append(picked, pool[idx])
	}
	sortCandidates(picked)
	return picked
}

// generateContent produces headlines and descriptions for the selected
// destinations. Fast mode and a missing generator fall back to the
// profile's canned headlines.
func (s *Service) generateContent(ctx context.Context, selected []*candidate, prefs scoring.Preferences, fastMode bool) map[string]content.Generated {
	out := make(map[string]content.Generated, len(selected))

	if s.generator != nil && !fastMode {
		items := make([]content.Item, 0, len(selected))
		for _, c := range selected {
			activities := make([]string, 0, len(c.profile.TopActivities))
			for _, a := range c.profile.TopActivities {
				activities = append(activities, a.Name)
			}
			items = append(items, content.Item{
				CountryCode: c.profile.CountryCode,
				CountryName: c.profile.CountryName,
				Activities:  activities,
				KeyFactors:  c.result.Factors,
			})
		}
		user := content.UserContext{
			Interests:   prefs.Interests,
			TravelStyle: prefs.TravelStyle,
			Occasion:    prefs.Occasion,
			BudgetLevel: prefs.BudgetLevel,
		}
		for _, g := range s.generator.GenerateBatch(ctx, items, user) {
			out[g.CountryCode] = g
		}
	}

	// Prefer the profile's per-style canned headline over the generic
	// fallback whenever generation did not produce real copy.
	for _, c := range selected {
		g, ok := out[c.profile.CountryCode]
		if ok && !g.Fallback {
			continue
		}
		headline, description := profileFallback(c.profile, prefs.TravelStyle)
		out[c.profile.CountryCode] = content.Generated{
			CountryCode: c.profile.CountryCode,
			Headline:    headline,
			Description: description,
			Fallback:    true,
		}
	}
	return out
}

func profileFallback(p *profile.CountryProfile, travelStyle string) (headline, description string) {
	headline, description = content.Fallback(p.CountryName, travelStyle)
	if h, ok := p.FallbackHeadlines[travelStyle]; ok && h != "" {
		headline = h
	}
	if p.FallbackDescription != "" {
		description = p.FallbackDescription
	}
	return headline, description
}

func buildSuggestion(c *candidate, prefs scoring.Preferences, gen content.Generated) Suggestion {
	p := c.profile

	min7, max7 := p.BudgetBand7d(prefs.BudgetLevel)
	budget := BudgetEstimate{
		Min:      int(math.Round(float64(min7) / 7 * budgetRealismFactor)),
		Max:      int(math.Round(float64(max7) / 7 * budgetRealismFactor)),
		Currency: priceCurrency,
		Duration: "per_day",
	}

	activities := make([]TopActivity, 0, len(p.TopActivities))
	for _, a := range p.TopActivities {
		activities = append(activities, TopActivity{Name: a.Name, Emoji: a.Emoji, Category: a.Category})
		if len(activities) == 5 {
			break
		}
	}

	sg := Suggestion{
		CountryCode:              p.CountryCode,
		CountryName:              p.CountryName,
		FlagEmoji:                p.FlagEmoji,
		Headline:                 gen.Headline,
		Description:              gen.Description,
		MatchScore:               c.result.Score,
		KeyFactors:               c.result.Factors,
		EstimatedBudgetPerPerson: budget,
		TopActivities:            activities,
		BestSeasons:              p.BestSeasons,
		ImageURL:                 p.PhotoURL,
		ImageCredit:              p.PhotoCredit,
	}
	if c.result.DistanceKm != nil {
		sg.FlightDurationFromOrigin = scoring.FormatFlightDuration(*c.result.DistanceKm)
	}
	if c.price != nil {
		amount := c.price.Amount
		sg.FlightPriceEstimate = &amount
		sg.FlightPriceSource = c.price.Source
	}
	return sg
}

// completeness grades how much of the preference surface was filled in,
// so clients can nudge users toward richer profiles.
func completeness(prefs scoring.Preferences) ProfileCompleteness {
	score := 20
	var provided []string

	if prefs.UserLocation.City != "" || (prefs.UserLocation.Lat != nil && prefs.UserLocation.Lng != nil) {
		score += 15
		provided = append(provided, "location")
	}
	if len(prefs.Interests) > 0 {
		score += 20
		provided = append(provided, "interests")
	}
	if prefs.StyleAxes != scoring.DefaultStyleAxes() {
		score += 15
		provided = append(provided, "styleAxes")
	}
	if len(prefs.StyleAxesOrder) > 0 {
		score += 10
		provided = append(provided, "styleAxesOrder")
	}
	if prefs.Occasion != "" {
		score += 10
		provided = append(provided, "occasion")
	}
	if prefs.MustHaves.Any() {
		score += 10
		provided = append(provided, "mustHaves")
	}
	if len(prefs.DietaryRestrictions) > 0 {
		score += 5
		provided = append(provided, "dietaryRestrictions")
	}
	if score > 100 {
		score = 100
	}
	return ProfileCompleteness{CompletionScore: score, KeyFactors: provided}
}
