package flightprice

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/neexbeast/wayfarer/internal/airports"
	"github.com/neexbeast/wayfarer/internal/profile"
	"github.com/neexbeast/wayfarer/internal/scoring"
)

// OriginResolver maps a departure city to its nearest airport.
// Satisfied by airports.Resolver.
type OriginResolver interface {
	NearestAirport(ctx context.Context, city string) (*airports.Airport, error)
}

// Oracle produces a guaranteed round-trip price per destination using the
// cache -> API -> estimate fallback chain. Cache and API tiers are
// optional; estimation is always available.
type Oracle struct {
	cache    PriceCache
	api      MapPricer
	resolver OriginResolver
	log      *slog.Logger
	now      func() time.Time
}

// NewOracle constructs an Oracle. cache, api, and resolver may each be
// nil, which disables the corresponding tier.
func NewOracle(cache PriceCache, api MapPricer, resolver OriginResolver, log *slog.Logger) *Oracle {
	return &Oracle{cache: cache, api: api, resolver: resolver, log: log, now: time.Now}
}

// GetPricesBatch returns a price with provenance for every requested
// destination country, plus the resolved origin airport IATA code ("" if
// the origin city could not be resolved). Individual tier failures
// degrade to the next tier and never produce an error.
func (o *Oracle) GetPricesBatch(
	ctx context.Context,
	originCity string,
	countryCodes []string,
	profiles map[string]*profile.CountryProfile,
	currency string,
) (map[string]Price, string) {
	results := make(map[string]Price, len(countryCodes))

	originIATA, originCoords := o.resolveOrigin(ctx, originCity)

	var toFetch []string // country codes needing an API call
	for _, raw := range countryCodes {
		code := strings.ToUpper(raw)
		_, hasAirport := scoring.MainAirport(code)

		if originIATA == "" || !hasAirport {
			results[code] = Price{Amount: EstimatePrice(code, profiles[code], originCoords), Source: SourceEstimated}
			continue
		}

		if cached := o.cachedPrice(ctx, originIATA, code); cached != nil {
			results[code] = Price{Amount: cached.AvgPriceEUR, Source: SourceCache}
			continue
		}
		toFetch = append(toFetch, code)
	}

	if len(toFetch) > 0 {
		o.fetchBatch(ctx, originIATA, originCoords, toFetch, profiles, currency, results)
	}

	return results, originIATA
}

// InvalidateCache drops cached prices; empty arguments match everything.
func (o *Oracle) InvalidateCache(ctx context.Context, originIATA, countryCode string) (int64, error) {
	if o.cache == nil {
		return 0, nil
	}
	return o.cache.Invalidate(ctx, originIATA, countryCode)
}

func (o *Oracle) resolveOrigin(ctx context.Context, city string) (string, *scoring.Coordinates) {
	if o.resolver == nil || city == "" {
		return "", nil
	}
	airport, err := o.resolver.NearestAirport(ctx, city)
	if err != nil {
		o.log.Warn("origin airport resolution failed", "city", city, "err", err)
		return "", nil
	}
	if airport == nil {
		o.log.Debug("no airport match for origin city", "city", city)
		return "", nil
	}
	coords := airport.Coords
	return airport.IATA, &coords
}

func (o *Oracle) cachedPrice(ctx context.Context, originIATA, countryCode string) *CachedPrice {
	if o.cache == nil {
		return nil
	}
	cached, err := o.cache.Get(ctx, originIATA, countryCode)
	if err != nil {
		o.log.Warn("price cache read failed", "origin", originIATA, "country", countryCode, "err", err)
		return nil
	}
	return cached
}

// fetchBatch prices the remaining destinations with one API call and
// falls back to estimation for anything the API does not cover.
func (o *Oracle) fetchBatch(
	ctx context.Context,
	originIATA string,
	originCoords *scoring.Coordinates,
	countryCodes []string,
	profiles map[string]*profile.CountryProfile,
	currency string,
	results map[string]Price,
) {
	estimate := func(code string) {
		results[code] = Price{Amount: EstimatePrice(code, profiles[code], originCoords), Source: SourceEstimated}
	}

	if o.api == nil {
		for _, code := range countryCodes {
			estimate(code)
		}
		return
	}

	destIATAs := make([]string, 0, len(countryCodes))
	iataToCountry := make(map[string]string, len(countryCodes))
	for _, code := range countryCodes {
		iata, _ := scoring.MainAirport(code)
		destIATAs = append(destIATAs, iata)
		iataToCountry[iata] = code
	}

	prices, err := o.api.MapPrices(ctx, originIATA, destIATAs, currency)
	if err != nil {
		o.log.Warn("flight price API failed, estimating batch", "origin", originIATA, "err", err)
		for _, code := range countryCodes {
			estimate(code)
		}
		return
	}

	for iata, country := range iataToCountry {
		oneWay, ok := prices[iata]
		if !ok {
			estimate(country)
			continue
		}

		roundTrip := int(float64(oneWay) * roundTripFactor)
		results[country] = Price{Amount: roundTrip, Source: SourceAPI}

		if o.cache != nil {
			now := o.now().UTC()
			err := o.cache.Save(ctx, CachedPrice{
				OriginIATA:         originIATA,
				DestinationCountry: country,
				DestinationIATA:    iata,
				AvgPriceEUR:        roundTrip,
				MinPriceEUR:        oneWay,
				Currency:           currency,
				TripType:           "ROUND",
				FetchedAt:          now,
				ExpiresAt:          now.Add(cacheTTL),
			})
			if err != nil {
				o.log.Warn("price cache write failed", "origin", originIATA, "country", country, "err", err)
			}
		}
	}
}
