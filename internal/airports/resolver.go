// Package airports resolves departure cities to their nearest airport
// using the Postgres reference tables.
package airports

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neexbeast/wayfarer/internal/scoring"
)

// Querier abstracts the subset of pgxpool.Pool used by Resolver.
// This allows injection of a mock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Airport is a resolved departure airport.
type Airport struct {
	IATA        string
	Name        string
	City        string
	CountryCode string
	Coords      scoring.Coordinates
	DistanceKm  float64
}

// Resolver finds the nearest airport to a named city.
type Resolver struct {
	q Querier
}

// NewResolver constructs a Resolver backed by the given pool.
func NewResolver(pool *pgxpool.Pool) *Resolver {
	return &Resolver{q: pool}
}

// NewResolverWithQuerier constructs a Resolver with a custom Querier (for tests).
func NewResolverWithQuerier(q Querier) *Resolver {
	return &Resolver{q: q}
}

// NearestAirport matches the city against the cities table (exact first,
// then prefix, largest population wins) and returns the closest airport
// to its coordinates. Returns nil, nil when the city is unknown.
func (r *Resolver) NearestAirport(ctx context.Context, city string) (*Airport, error) {
	city = strings.TrimSpace(city)
	if len(city) < 2 {
		return nil, nil
	}

	const cityQuery = `
		SELECT lat, lon
		FROM cities
		WHERE name ILIKE $1 OR name ILIKE $2
		ORDER BY
			CASE
				WHEN LOWER(name) = LOWER($3) THEN 1
				WHEN LOWER(name) LIKE LOWER($2) THEN 2
				ELSE 3
			END,
			population DESC NULLS LAST
		LIMIT 1
	`

	var lat, lon float64
	err := r.q.QueryRow(ctx, cityQuery, city, city+"%", city).Scan(&lat, &lon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("matching city %s: %w", city, err)
	}

	// Approximate nearest airport by squared coordinate distance; good
	// enough at city scale without PostGIS.
	const airportQuery = `
		SELECT iata, name, city, country_code, lat, lon
		FROM airports
		ORDER BY (lat - $1) * (lat - $1) + (lon - $2) * (lon - $2)
		LIMIT 1
	`

	var a Airport
	err = r.q.QueryRow(ctx, airportQuery, lat, lon).Scan(
		&a.IATA, &a.Name, &a.City, &a.CountryCode, &a.Coords.Lat, &a.Coords.Lng,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding nearest airport for %s: %w", city, err)
	}

	a.DistanceKm = scoring.Haversine(scoring.Coordinates{Lat: lat, Lng: lon}, a.Coords)
	return &a, nil
}
