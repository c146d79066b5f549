package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"deinfluencer/internal/metrics"
	"deinfluencer/internal/models"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const cacheKeyPrefix = "deinfluencer:profile:"

// CachedSource keeps fetched payloads in Redis for ttl so repeated lookups of
// the same influencer do not hit the profile service. Cache failures are
// logged and the lookup falls through to the wrapped source.
type CachedSource struct {
	next    ProfileSource
	client  goredis.UniversalClient
	ttl     time.Duration
	metrics *metrics.Collector
	log     logrus.FieldLogger
}

// NewCachedSource wraps next with a Redis cache
func NewCachedSource(next ProfileSource, client goredis.UniversalClient, ttl time.Duration, log logrus.FieldLogger) *CachedSource {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &CachedSource{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    log.WithField("component", "profile_cache"),
	}
}

// SetMetrics records hit/miss counts on m
func (s *CachedSource) SetMetrics(m *metrics.Collector) {
	s.metrics = m
}

func cacheKey(platform models.Platform, username string) string {
	return cacheKeyPrefix + string(platform) + ":" + username
}

// FetchProfile serves from the cache when possible
func (s *CachedSource) FetchProfile(ctx context.Context, platform models.Platform, username string) (*models.AnalysisPayload, error) {
	platform = platform.Normalize()
	if !platform.IsSupported() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedPlatform, platform)
	}
	username = NormalizeUsername(username)
	key := cacheKey(platform, username)

	data, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var payload models.AnalysisPayload
		jsonErr := json.Unmarshal(data, &payload)
		if jsonErr == nil {
			s.metrics.ObserveProfileCache("hit")
			return &payload, nil
		}
		s.log.WithError(jsonErr).WithField("key", key).Warn("discarding unreadable cache entry")
		s.metrics.ObserveProfileCache("error")
	case errors.Is(err, goredis.Nil):
		s.metrics.ObserveProfileCache("miss")
	default:
		s.log.WithError(err).WithField("key", key).Warn("profile cache read failed")
		s.metrics.ObserveProfileCache("error")
	}

	payload, err := s.next.FetchProfile(ctx, platform, username)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(payload); err == nil {
		if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("profile cache write failed")
		}
	}
	return payload, nil
}

// Invalidate drops the cached payload for username
func (s *CachedSource) Invalidate(ctx context.Context, platform models.Platform, username string) error {
	return s.client.Del(ctx, cacheKey(platform.Normalize(), NormalizeUsername(username))).Err()
}
