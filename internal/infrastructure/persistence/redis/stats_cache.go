package redis

import (
	"context"
	"errors"
	"time"

	"github.com/better-me-app/better-me-core/internal/application/query"
	"github.com/better-me-app/better-me-core/internal/domain/shared"
)

// StatsCache implements query.StatsCache on Redis. It also doubles as an
// event bus subscriber: any domain event for a profile invalidates that
// profile's cached stats.
type StatsCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewStatsCache creates a new StatsCache.
func NewStatsCache(cache *Cache) *StatsCache {
	return &StatsCache{cache: cache, ttl: TTLStats}
}

// WithTTL overrides the default TTL.
func (s *StatsCache) WithTTL(ttl time.Duration) *StatsCache {
	s.ttl = ttl
	return s
}

func statsKey(profileID string) string {
	return PrefixStats + profileID
}

// Get returns the cached stats or (nil, nil) on a miss.
func (s *StatsCache) Get(ctx context.Context, profileID string) (*query.StatsDTO, error) {
	var dto query.StatsDTO
	if err := s.cache.Get(ctx, statsKey(profileID), &dto); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return &dto, nil
}

// Set stores the stats with the cache TTL.
func (s *StatsCache) Set(ctx context.Context, profileID string, stats *query.StatsDTO) error {
	return s.cache.Set(ctx, statsKey(profileID), stats, s.ttl)
}

// Invalidate drops the cached stats for a profile.
func (s *StatsCache) Invalidate(ctx context.Context, profileID string) error {
	return s.cache.Delete(ctx, statsKey(profileID))
}

// Handle implements shared.EventHandler. Subscribed to all events so that
// any state change drops the stale stats entry. Errors are swallowed: the
// TTL bounds staleness when Redis is unavailable.
func (s *StatsCache) Handle(event shared.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_ = s.Invalidate(ctx, event.AggregateID())
	return nil
}
