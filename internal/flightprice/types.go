// Package flightprice provides round-trip flight prices with a three-tier
// fallback: persistent cache, live API, distance-based estimation. A price
// is always produced for every requested destination.
package flightprice

import "time"

// Price sources, in order of preference.
const (
	SourceCache     = "cache"
	SourceAPI       = "api"
	SourceEstimated = "estimated"
)

// Price is a round-trip price with its provenance.
type Price struct {
	Amount int    `json:"amount"`
	Source string `json:"source"`
}

// CachedPrice is a persisted average price for an origin/country pair.
type CachedPrice struct {
	OriginIATA         string    `bson:"origin_iata"`
	DestinationCountry string    `bson:"destination_country"`
	DestinationIATA    string    `bson:"destination_iata"`
	AvgPriceEUR        int       `bson:"avg_price_eur"`
	MinPriceEUR        int       `bson:"min_price_eur"`
	Currency           string    `bson:"currency"`
	TripType           string    `bson:"trip_type"`
	FetchedAt          time.Time `bson:"fetched_at"`
	ExpiresAt          time.Time `bson:"expires_at"`
}

// roundTripFactor approximates a round-trip price from the cheapest
// one-way fare returned by the API.
const roundTripFactor = 1.8

// cacheTTL is how long a fetched average price stays valid.
const cacheTTL = 7 * 24 * time.Hour
