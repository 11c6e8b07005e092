package cache_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/wayfarer/internal/cache"
	"github.com/neexbeast/wayfarer/internal/suggest"
)

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewCache(client), mr
}

const testHash = "4ac1b3de90"

func sampleResponse() *suggest.Response {
	return &suggest.Response{
		Success:     true,
		GeneratedAt: "2026-06-15T10:30:00Z",
		Suggestions: []suggest.Suggestion{
			{CountryCode: "TH", CountryName: "Thailande", MatchScore: 87},
		},
		BasedOnProfile: suggest.ProfileCompleteness{CompletionScore: 55},
	}
}

func TestCache_SetAndGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, testHash, sampleResponse()))

	got, err := c.Get(ctx, testHash)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Suggestions, 1)
	assert.Equal(t, "TH", got.Suggestions[0].CountryCode)
	assert.Equal(t, 87, got.Suggestions[0].MatchScore)
	assert.Equal(t, 55, got.BasedOnProfile.CompletionScore)
}

func TestCache_Get_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	got, err := c.Get(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, got, "cache miss should return nil, nil")
}

func TestCache_Delete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, testHash, sampleResponse()))
	require.NoError(t, c.Delete(ctx, testHash))

	got, err := c.Get(ctx, testHash)
	require.NoError(t, err)
	assert.Nil(t, got, "entry should be gone after delete")
}

func TestCache_Delete_NonExistent(t *testing.T) {
	c, _ := newTestCache(t)
	// Deleting a key that doesn't exist should not error.
	err := c.Delete(context.Background(), "ghost")
	require.NoError(t, err)
}

func TestCache_Set_NilResponse(t *testing.T) {
	c, _ := newTestCache(t)
	// Setting a nil response should be a no-op, not an error.
	err := c.Set(context.Background(), testHash, nil)
	require.NoError(t, err)
}

func TestCache_TTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, testHash, sampleResponse()))

	// Fast-forward miniredis time by 2 hours.
	mr.FastForward(2 * 60 * 60 * 1e9) // 2h in nanoseconds

	got, err := c.Get(ctx, testHash)
	require.NoError(t, err)
	assert.Nil(t, got, "entry should be expired after TTL")
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := cache.Connect(context.Background(), "not-a-url")
	require.Error(t, err)
}

func TestConnect_UnreachableServer(t *testing.T) {
	_, err := cache.Connect(context.Background(), "redis://localhost:19999")
	require.Error(t, err)
}
