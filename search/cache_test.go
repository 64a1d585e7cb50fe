package search

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T, ttl time.Duration) (*ResultCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewResultCache(rdb, ttl, nil), mr
}

func TestResultCache_SetGet(t *testing.T) {
	cache, _ := newCache(t, time.Minute)
	ctx := context.Background()

	resp := &Response{
		Query:  "golang",
		Answer: "a language",
		Results: []Result{
			{Title: "Go docs", URL: "https://go.dev/doc", Content: "language docs", Score: 0.8},
		},
	}

	cache.Set(ctx, "golang", resp)

	got, ok := cache.Get(ctx, "golang")
	require.True(t, ok)
	assert.Equal(t, resp.Answer, got.Answer)
	assert.Equal(t, resp.Results, got.Results)
}

func TestResultCache_Miss(t *testing.T) {
	cache, _ := newCache(t, time.Minute)

	_, ok := cache.Get(context.Background(), "never stored")
	assert.False(t, ok)
}

func TestResultCache_Expiry(t *testing.T) {
	cache, mr := newCache(t, time.Second)
	ctx := context.Background()

	cache.Set(ctx, "q", &Response{Query: "q"})
	mr.FastForward(2 * time.Second)

	_, ok := cache.Get(ctx, "q")
	assert.False(t, ok, "entry must expire after the TTL")
}

func TestResultCache_KeysAreQuerySpecific(t *testing.T) {
	cache, _ := newCache(t, time.Minute)
	ctx := context.Background()

	cache.Set(ctx, "first query", &Response{Answer: "one"})
	cache.Set(ctx, "second query", &Response{Answer: "two"})

	first, ok := cache.Get(ctx, "first query")
	require.True(t, ok)
	second, ok := cache.Get(ctx, "second query")
	require.True(t, ok)

	assert.Equal(t, "one", first.Answer)
	assert.Equal(t, "two", second.Answer)
}

func TestResultCache_CorruptEntryIgnored(t *testing.T) {
	cache, mr := newCache(t, time.Minute)

	require.NoError(t, mr.Set(cacheKey("q"), "{not json"))

	_, ok := cache.Get(context.Background(), "q")
	assert.False(t, ok)
}

func TestResultCache_BrokenBackendDegrades(t *testing.T) {
	cache, mr := newCache(t, time.Minute)
	ctx := context.Background()

	mr.Close()

	cache.Set(ctx, "q", &Response{Query: "q"})
	_, ok := cache.Get(ctx, "q")
	assert.False(t, ok, "a dead backend reads as a miss, never an error")
}
