package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/opencampus/records-api/pkg/errors"
)

func TestCacheServiceDisabledAlwaysMisses(t *testing.T) {
	svc := NewCacheService(nil, zap.NewNop(), nil, false, time.Minute)

	var dest string
	err := svc.GetJSON(context.Background(), "k", &dest)
	assert.Equal(t, appErrors.ErrCacheMiss, err)

	// Writes and invalidation are no-ops, not panics.
	svc.SetJSON(context.Background(), "k", "v")
	svc.Invalidate(context.Background(), "*")
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, zap.NewNop(), nil, true, time.Minute)

	type snapshot struct {
		Count int `json:"count"`
	}
	svc.SetJSON(context.Background(), "stats:admin", snapshot{Count: 42})

	var out snapshot
	require.NoError(t, svc.GetJSON(context.Background(), "stats:admin", &out))
	assert.Equal(t, 42, out.Count)

	var miss snapshot
	assert.Equal(t, appErrors.ErrCacheMiss, svc.GetJSON(context.Background(), "stats:other", &miss))

	svc.Invalidate(context.Background(), "stats:*")
	assert.Equal(t, appErrors.ErrCacheMiss, svc.GetJSON(context.Background(), "stats:admin", &out))
}
