package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "researchflow:search:"

// ResultCache caches search responses in Redis, keyed by a hash of the
// query, with a fixed TTL. Cache failures are logged and swallowed: a
// broken cache must never break a search.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewResultCache creates a cache around an existing Redis client.
func NewResultCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ResultCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultCache{
		client: client,
		ttl:    ttl,
		logger: logger.With(zap.String("component", "search_cache")),
	}
}

// Get returns the cached response for the query, if present.
func (c *ResultCache) Get(ctx context.Context, query string) (*Response, bool) {
	val, err := c.client.Get(ctx, cacheKey(query)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("cache read failed", zap.Error(err))
		return nil, false
	}

	var resp Response
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		c.logger.Warn("cache entry corrupt, ignoring", zap.Error(err))
		return nil, false
	}
	return &resp, true
}

// Set stores the response for the query with the configured TTL.
func (c *ResultCache) Set(ctx context.Context, query string, resp *Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		c.logger.Warn("cache marshal failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, cacheKey(query), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.Error(err))
	}
}

func cacheKey(query string) string {
	sum := sha256.Sum256([]byte(query))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
