package profile

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T, profiles []CountryProfile) *Store {
	t.Helper()
	s := NewStore(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.snapshot = profiles
	s.loadedAt = time.Now()
	return s
}

func TestGetAll_ServesFreshSnapshot(t *testing.T) {
	// coll is nil, so any Mongo round-trip would panic. A fresh
	// snapshot must be answered entirely from memory.
	s := seededStore(t, []CountryProfile{{CountryCode: "TH"}, {CountryCode: "ES"}})

	got, err := s.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "TH", got[0].CountryCode)
}

func TestInvalidateCache_DropsSnapshot(t *testing.T) {
	s := seededStore(t, []CountryProfile{{CountryCode: "TH"}})

	s.InvalidateCache()

	assert.Nil(t, s.snapshot)
	assert.True(t, s.loadedAt.IsZero())
}
