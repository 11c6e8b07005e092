package flightprice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PriceCache persists average prices per origin/country pair.
type PriceCache interface {
	Get(ctx context.Context, originIATA, countryCode string) (*CachedPrice, error)
	Save(ctx context.Context, price CachedPrice) error
	Invalidate(ctx context.Context, originIATA, countryCode string) (int64, error)
}

// MongoPriceCache is the Mongo-backed PriceCache used in production.
type MongoPriceCache struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoPriceCache constructs a MongoPriceCache over the given collection.
func NewMongoPriceCache(coll *mongo.Collection) *MongoPriceCache {
	return &MongoPriceCache{coll: coll, now: time.Now}
}

// Get returns the cached price for the pair if present and unexpired;
// nil, nil otherwise.
func (c *MongoPriceCache) Get(ctx context.Context, originIATA, countryCode string) (*CachedPrice, error) {
	filter := bson.M{
		"origin_iata":         originIATA,
		"destination_country": strings.ToUpper(countryCode),
		"expires_at":          bson.M{"$gt": c.now().UTC()},
	}

	var cached CachedPrice
	err := c.coll.FindOne(ctx, filter).Decode(&cached)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cached price %s->%s: %w", originIATA, countryCode, err)
	}
	return &cached, nil
}

// Save upserts a price keyed by origin and destination country.
func (c *MongoPriceCache) Save(ctx context.Context, price CachedPrice) error {
	price.DestinationCountry = strings.ToUpper(price.DestinationCountry)
	filter := bson.M{
		"origin_iata":         price.OriginIATA,
		"destination_country": price.DestinationCountry,
	}

	upsert := true
	_, err := c.coll.UpdateOne(ctx, filter, bson.M{"$set": price}, &options.UpdateOptions{Upsert: &upsert})
	if err != nil {
		return fmt.Errorf("saving cached price %s->%s: %w", price.OriginIATA, price.DestinationCountry, err)
	}
	return nil
}

// Invalidate deletes cached prices matching the given filters; empty
// arguments match everything.
func (c *MongoPriceCache) Invalidate(ctx context.Context, originIATA, countryCode string) (int64, error) {
	filter := bson.M{}
	if originIATA != "" {
		filter["origin_iata"] = originIATA
	}
	if countryCode != "" {
		filter["destination_country"] = strings.ToUpper(countryCode)
	}

	res, err := c.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("invalidating cached prices: %w", err)
	}
	return res.DeletedCount, nil
}
