// Package suggest orchestrates the destination suggestion pipeline:
// two-phase scoring, region-aware selection, content enrichment, and
// response caching.
package suggest

import (
	"errors"

	"github.com/neexbeast/wayfarer/internal/scoring"
)

// Error kinds surfaced to the caller. Anything else is an unexpected
// internal failure.
var (
	ErrInvalidPreferences = errors.New("invalid preferences")
	ErrServiceUnavailable = errors.New("profile store unavailable")
)

// Request is one suggestion request.
type Request struct {
	Preferences  scoring.Preferences `json:"preferences"`
	Limit        int                 `json:"limit"`
	ForceRefresh bool                `json:"forceRefresh"`
	FastMode     bool                `json:"fastMode"`
}

// BudgetEstimate is a per-day budget band in EUR per person.
type BudgetEstimate struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
	Duration string `json:"duration"`
}

// TopActivity is a headline activity carried into the response.
type TopActivity struct {
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	Category string `json:"category"`
}

// Suggestion is one recommended destination.
type Suggestion struct {
	CountryCode              string         `json:"countryCode"`
	CountryName              string         `json:"countryName"`
	FlagEmoji                string         `json:"flagEmoji"`
	Headline                 string         `json:"headline"`
	Description              string         `json:"description"`
	MatchScore               int            `json:"matchScore"`
	KeyFactors               []string       `json:"keyFactors"`
	EstimatedBudgetPerPerson BudgetEstimate `json:"estimatedBudgetPerPerson"`
	TopActivities            []TopActivity  `json:"topActivities"`
	BestSeasons              []string       `json:"bestSeasons"`
	FlightDurationFromOrigin string         `json:"flightDurationFromOrigin,omitempty"`
	FlightPriceEstimate      *int           `json:"flightPriceEstimate,omitempty"`
	FlightPriceSource        string         `json:"flightPriceSource,omitempty"`
	ImageURL                 string         `json:"imageUrl,omitempty"`
	ImageCredit              string         `json:"imageCredit,omitempty"`
}

// ProfileCompleteness summarizes how much of the preference surface the
// caller actually filled in.
type ProfileCompleteness struct {
	CompletionScore int      `json:"completionScore"`
	KeyFactors      []string `json:"keyFactors"`
}

// Response is the cached suggestion response.
type Response struct {
	Success           bool                `json:"success"`
	Suggestions       []Suggestion        `json:"suggestions"`
	GeneratedAt       string              `json:"generatedAt"`
	BasedOnProfile    ProfileCompleteness `json:"basedOnProfile"`
	SourceAirportIATA string              `json:"sourceAirportIata,omitempty"`
}
