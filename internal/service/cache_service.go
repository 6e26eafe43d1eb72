package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/opencampus/records-api/pkg/errors"
)

type cacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService fronts the cache repository for the stats endpoints. All
// methods degrade to no-ops when the service was constructed without a
// repository, so callers never branch on cache availability.
type CacheService struct {
	repo    cacheRepository
	logger  *zap.Logger
	metrics *MetricsService
	enabled bool
	ttl     time.Duration
}

func NewCacheService(repo cacheRepository, logger *zap.Logger, metrics *MetricsService, enabled bool, ttl time.Duration) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, logger: logger, metrics: metrics, enabled: enabled && repo != nil, ttl: ttl}
}

// GetJSON loads the key into dest. Returns ErrCacheMiss when disabled,
// missing or unreadable.
func (s *CacheService) GetJSON(ctx context.Context, key string, dest interface{}) error {
	if !s.enabled {
		return appErrors.ErrCacheMiss
	}
	if err := s.repo.Get(ctx, key, dest); err != nil {
		s.metrics.RecordCacheLookup(false)
		if err != appErrors.ErrCacheMiss {
			s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return appErrors.ErrCacheMiss
	}
	s.metrics.RecordCacheLookup(true)
	return nil
}

// SetJSON stores value under key. Failures are logged, not returned; a cold
// cache is not an error.
func (s *CacheService) SetJSON(ctx context.Context, key string, value interface{}) {
	if !s.enabled {
		return
	}
	if err := s.repo.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("failed to store cache entry", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate removes every key matching the pattern.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) {
	if !s.enabled {
		return
	}
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("failed to invalidate cache", zap.String("pattern", pattern), zap.Error(err))
	}
}
