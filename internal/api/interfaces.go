package api

import (
	"context"

	"github.com/neexbeast/wayfarer/internal/profile"
	"github.com/neexbeast/wayfarer/internal/suggest"
)

// Suggester defines the suggestion pipeline operation needed by handlers.
type Suggester interface {
	Suggest(ctx context.Context, req suggest.Request) (*suggest.Response, error)
}

// ProfileStore defines the profile storage operations needed by handlers.
type ProfileStore interface {
	GetByCode(ctx context.Context, code string) (*profile.CountryProfile, error)
	BulkUpsert(ctx context.Context, profiles []profile.CountryProfile) (int, error)
}
