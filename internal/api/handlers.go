package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/neexbeast/wayfarer/internal/profile"
	"github.com/neexbeast/wayfarer/internal/suggest"
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	suggester Suggester
	profiles  ProfileStore
	log       *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(suggester Suggester, profiles ProfileStore, log *slog.Logger) *Handlers {
	return &Handlers{
		suggester: suggester,
		profiles:  profiles,
		log:       log,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// PostSuggestions handles POST /api/v1/suggestions.
// Invalid preferences → 400, profile store down → 503, anything else → 500.
func (h *Handlers) PostSuggestions(w http.ResponseWriter, r *http.Request) {
	var req suggest.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	resp, err := h.suggester.Suggest(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, suggest.ErrInvalidPreferences):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, suggest.ErrServiceUnavailable):
			h.log.Error("suggestion pipeline unavailable", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "suggestions temporarily unavailable"})
		default:
			h.log.Error("suggestion pipeline failed", "err", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetProfile handles GET /api/v1/profiles/{code}.
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))

	p, err := h.profiles.GetByCode(r.Context(), code)
	if err != nil {
		h.log.Error("profile get failed", "code", code, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if p == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown country profile"})
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// PutProfiles handles PUT /api/v1/profiles.
// Bulk-upserts the provided profiles; the store drops its in-memory
// snapshot as part of the upsert, so the next suggestion request sees
// fresh data.
func (h *Handlers) PutProfiles(w http.ResponseWriter, r *http.Request) {
	var profiles []profile.CountryProfile
	if err := json.NewDecoder(r.Body).Decode(&profiles); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if len(profiles) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "empty profile list"})
		return
	}
	for _, p := range profiles {
		if p.CountryCode == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "every profile needs a country_code"})
			return
		}
	}

	n, err := h.profiles.BulkUpsert(r.Context(), profiles)
	if err != nil {
		h.log.Error("profile bulk upsert failed", "count", len(profiles), "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to store profiles"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"upserted": n})
}

// Pingers for the health endpoint, one per backing store.
type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) error
}

type mongoPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlerFunc returns an http.HandlerFunc that checks Postgres,
// Redis and Mongo connectivity. 200 when all respond, 503 otherwise.
func HealthHandlerFunc(db dbPinger, redis redisPinger, mongo mongoPinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		check := func(name string, p interface{ Ping(context.Context) error }) string {
			if err := p.Ping(ctx); err != nil {
				log.Error("health check ping failed", "component", name, "err", err)
				status = http.StatusServiceUnavailable
				return "error"
			}
			return "ok"
		}

		body := map[string]string{
			"db":    check("postgres", db),
			"redis": check("redis", redis),
			"mongo": check("mongo", mongo),
		}
		if status == http.StatusOK {
			body["status"] = "ok"
		} else {
			body["status"] = "degraded"
		}

		writeJSON(w, status, body)
	}
}
