package source

import (
	"context"
	"fmt"
	"time"

	"deinfluencer/internal/metrics"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Options selects and configures the profile source chain
type Options struct {
	// FixturesDir is used when APIURL is empty
	FixturesDir string

	APIURL     string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int

	// RedisURL enables the payload cache in front of the source
	RedisURL string
	CacheTTL time.Duration
}

// Open builds the configured source. The returned close function releases
// the cache connection and is never nil.
func Open(ctx context.Context, opts Options, log logrus.FieldLogger, m *metrics.Collector) (ProfileSource, func() error, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	noop := func() error { return nil }

	var src ProfileSource
	if opts.APIURL != "" {
		cfg := DefaultHTTPConfig(opts.APIURL, opts.APIKey)
		if opts.Timeout > 0 {
			cfg.Timeout = opts.Timeout
		}
		cfg.MaxRetries = opts.MaxRetries
		src = NewHTTPSource(cfg, log)
		log.WithField("url", opts.APIURL).Info("fetching profiles from profile service")
	} else {
		src = NewFileSource(opts.FixturesDir)
		log.WithField("dir", opts.FixturesDir).Info("serving profiles from fixtures")
	}

	if opts.RedisURL == "" {
		return src, noop, nil
	}

	redisOpts, err := goredis.ParseURL(opts.RedisURL)
	if err != nil {
		return nil, noop, fmt.Errorf("invalid redis url: %w", err)
	}
	client := goredis.NewClient(redisOpts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, noop, fmt.Errorf("ping redis: %w", err)
	}

	cached := NewCachedSource(src, client, opts.CacheTTL, log)
	cached.SetMetrics(m)
	log.WithField("ttl", opts.CacheTTL.String()).Info("profile cache enabled")
	return cached, client.Close, nil
}
