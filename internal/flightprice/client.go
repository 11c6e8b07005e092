package flightprice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const httpTimeout = 15 * time.Second

// MapPricer returns the cheapest one-way fare per destination IATA code.
// Destinations the provider cannot price are absent from the result map.
type MapPricer interface {
	MapPrices(ctx context.Context, originIATA string, destIATAs []string, currency string) (map[string]int, error)
}

// APIClient fetches map prices from the flight search provider.
type APIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

const mapPricesDefaultURL = "https://serpapi.com/search"

// NewAPIClient constructs an APIClient with the given API key. Outbound
// calls go through a circuit breaker so a flapping provider stops costing
// a timeout per destination batch.
func NewAPIClient(apiKey string) *APIClient {
	return newAPIClient(apiKey, mapPricesDefaultURL)
}

// NewAPIClientWithURL constructs an APIClient pointing at a custom base URL (for tests).
func NewAPIClientWithURL(apiKey, baseURL string) *APIClient {
	return newAPIClient(apiKey, baseURL)
}

func newAPIClient(apiKey, baseURL string) *APIClient {
	return &APIClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: httpTimeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "flights-api",
			Timeout: 60 * time.Second,
		}),
	}
}

type mapPricesResponse struct {
	Prices []struct {
		Destination string `json:"destination"`
		Price       int    `json:"price"`
	} `json:"prices"`
}

// MapPrices fetches the cheapest one-way fare from the origin to each
// destination in a single provider call.
func (c *APIClient) MapPrices(ctx context.Context, originIATA string, destIATAs []string, currency string) (map[string]int, error) {
	endpoint := c.baseURL +
		"?engine=google_flights&type=2" +
		"&departure_id=" + url.QueryEscape(originIATA) +
		"&arrival_id=" + url.QueryEscape(strings.Join(destIATAs, ",")) +
		"&currency=" + url.QueryEscape(currency) +
		"&api_key=" + c.apiKey

	result, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("creating map prices request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("GET map prices from %s: %w", originIATA, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("map prices from %s returned status %d", originIATA, resp.StatusCode)
		}

		var raw mapPricesResponse
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("decoding map prices response: %w", err)
		}
		return raw, nil
	})
	if err != nil {
		return nil, err
	}

	raw := result.(mapPricesResponse)
	prices := make(map[string]int, len(raw.Prices))
	for _, p := range raw.Prices {
		if p.Price > 0 {
			prices[strings.ToUpper(p.Destination)] = p.Price
		}
	}
	return prices, nil
}
