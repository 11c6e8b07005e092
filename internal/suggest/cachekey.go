package suggest

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/neexbeast/wayfarer/internal/scoring"
)

// cacheBucketSeconds is the width of the time bucket folded into the
// cache key: requests within the same hour share results, and the
// selection reshuffles at the hour boundary.
const cacheBucketSeconds = 3600

// keyFields is the canonical serialization of everything that influences
// a suggestion response. Field order is fixed by the struct; slices are
// sorted before hashing.
type keyFields struct {
	StyleAxes    scoring.StyleAxes `json:"styleAxes"`
	AxesOrder    []string          `json:"axesOrder"`
	Interests    []string          `json:"interests"`
	MustHaves    scoring.MustHaves `json:"mustHaves"`
	Dietary      []string          `json:"dietary"`
	TravelStyle  string            `json:"travelStyle"`
	Occasion     string            `json:"occasion"`
	BudgetLevel  string            `json:"budgetLevel"`
	Month        int               `json:"month"`
	TripDuration string            `json:"tripDuration"`
	OriginCity   string            `json:"originCity"`
	Limit        int               `json:"limit"`
	Bucket       int64             `json:"bucket"`
}

func canonicalKey(prefs scoring.Preferences, month, limit int, bucket int64) []byte {
	interests := append([]string(nil), prefs.Interests...)
	sort.Strings(interests)
	dietary := append([]string(nil), prefs.DietaryRestrictions...)
	sort.Strings(dietary)

	raw, _ := json.Marshal(keyFields{
		StyleAxes:    prefs.StyleAxes,
		AxesOrder:    prefs.StyleAxesOrder,
		Interests:    interests,
		MustHaves:    prefs.MustHaves,
		Dietary:      dietary,
		TravelStyle:  prefs.TravelStyle,
		Occasion:     prefs.Occasion,
		BudgetLevel:  prefs.BudgetLevel,
		Month:        month,
		TripDuration: prefs.TripDuration,
		OriginCity:   strings.ToLower(strings.TrimSpace(prefs.UserLocation.City)),
		Limit:        limit,
		Bucket:       bucket,
	})
	return raw
}

// cacheKey derives the response cache key for a normalized request.
func cacheKey(prefs scoring.Preferences, month, limit int, bucket int64) string {
	sum := sha256.Sum256(canonicalKey(prefs, month, limit, bucket))
	return hex.EncodeToString(sum[:])
}

// selectionSeed derives the deterministic RNG seed for diversity
// sampling from the same canonical material as the cache key, so the
// picked set is stable within a bucket and rotates across buckets.
func selectionSeed(prefs scoring.Preferences, month, limit int, bucket int64) int64 {
	sum := sha256.Sum256(canonicalKey(prefs, month, limit, bucket))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}
