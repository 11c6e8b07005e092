package profile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// snapshotTTL bounds how long the in-memory profile snapshot is served
// before going back to Mongo. Profiles change at most daily.
const snapshotTTL = 24 * time.Hour

// Store provides access to country profiles backed by MongoDB, with an
// in-memory snapshot cache for the hot fetch-all path.
type Store struct {
	coll *mongo.Collection
	log  *slog.Logger

	mu       sync.Mutex
	snapshot []CountryProfile
	loadedAt time.Time
	now      func() time.Time
}

// NewStore constructs a Store over the given collection.
func NewStore(coll *mongo.Collection, log *slog.Logger) *Store {
	return &Store{coll: coll, log: log, now: time.Now}
}

// EnsureIndexes creates the indexes used for profile lookups.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := true
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "country_code", Value: 1}}, Options: &options.IndexOptions{Unique: &unique}},
		{Keys: bson.D{{Key: "region", Value: 1}}},
		{Keys: bson.D{{Key: "trending_score", Value: -1}}},
	}
	if _, err := s.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("creating country profile indexes: %w", err)
	}
	return nil
}

// GetAll returns all country profiles, served from the in-memory
// snapshot when it is younger than 24 hours. An empty collection is a
// valid result, not an error.
func (s *Store) GetAll(ctx context.Context) ([]CountryProfile, error) {
	s.mu.Lock()
	if s.snapshot != nil && s.now().Sub(s.loadedAt) < snapshotTTL {
		cached := s.snapshot
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("querying country profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []CountryProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("decoding country profiles: %w", err)
	}
	if profiles == nil {
		profiles = []CountryProfile{}
	}

	s.mu.Lock()
	s.snapshot = profiles
	s.loadedAt = s.now()
	s.mu.Unlock()

	s.log.Info("country profiles loaded", "count", len(profiles))
	return profiles, nil
}

// GetByCode returns a single profile by ISO-2 code, or nil, nil when the
// country is unknown.
func (s *Store) GetByCode(ctx context.Context, code string) (*CountryProfile, error) {
	var p CountryProfile
	err := s.coll.FindOne(ctx, bson.M{"country_code": strings.ToUpper(code)}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("querying country profile %s: %w", code, err)
	}
	return &p, nil
}

// BulkUpsert inserts or replaces profiles keyed by country code and
// invalidates the snapshot. Profiles without a country code are skipped.
func (s *Store) BulkUpsert(ctx context.Context, profiles []CountryProfile) (int, error) {
	var models []mongo.WriteModel
	for i := range profiles {
		if profiles[i].CountryCode == "" {
			continue
		}
		profiles[i].CountryCode = strings.ToUpper(profiles[i].CountryCode)
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"country_code": profiles[i].CountryCode}).
			SetReplacement(profiles[i]).
			SetUpsert(true))
	}
	if len(models) == 0 {
		return 0, nil
	}

	res, err := s.coll.BulkWrite(ctx, models)
	if err != nil {
		return 0, fmt.Errorf("bulk upserting country profiles: %w", err)
	}

	s.InvalidateCache()
	total := int(res.UpsertedCount + res.ModifiedCount)
	s.log.Info("country profiles upserted", "count", total)
	return total, nil
}

// InvalidateCache drops the in-memory snapshot so the next GetAll hits Mongo.
func (s *Store) InvalidateCache() {
	s.mu.Lock()
	s.snapshot = nil
	s.loadedAt = time.Time{}
	s.mu.Unlock()
}
