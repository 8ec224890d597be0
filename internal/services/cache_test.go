package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis implements the three commands RedisCache uses; any other call
// panics on the nil embedded interface.
type fakeRedis struct {
	redis.Cmdable
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	f.data[key] = value.(string)
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisCache_RoundTrip(t *testing.T) {
	rdb := newFakeRedis()
	c := NewRedisCache(rdb)
	ctx := context.Background()

	var miss Stats
	hit, err := c.Get(ctx, dashboardStatsKey, &miss)
	require.NoError(t, err)
	assert.False(t, hit)

	in := &Stats{TotalCelulares: 2, TotalItens: 2}
	require.NoError(t, c.Set(ctx, dashboardStatsKey, in, StatsCacheTTL))
	assert.Equal(t, StatsCacheTTL, rdb.ttls["cache:dashboard:stats"])
	assert.JSONEq(t, `{"totalCelulares":2,"totalAcessorios":0,"totalVivoCelulares":0,"totalVivoAcessorios":0,"totalItens":2}`,
		rdb.data["cache:dashboard:stats"])

	var out Stats
	hit, err = c.Get(ctx, dashboardStatsKey, &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, *in, out)
}

func TestRedisCache_Errors(t *testing.T) {
	rdb := newFakeRedis()
	c := NewRedisCache(rdb)
	ctx := context.Background()

	rdb.data["cache:broken"] = "{not json"
	var s Stats
	hit, err := c.Get(ctx, "broken", &s)
	assert.Error(t, err)
	assert.False(t, hit)

	rdb.getErr = errors.New("dial tcp: connection refused")
	hit, err = c.Get(ctx, "anything", &s)
	assert.EqualError(t, err, "dial tcp: connection refused")
	assert.False(t, hit)
}

func TestRedisCache_Delete(t *testing.T) {
	rdb := newFakeRedis()
	c := NewRedisCache(rdb)
	ctx := context.Background()
	rdb.data["cache:dashboard:stats"] = "{}"
	rdb.data["cache:vivo:stats:abc"] = "{}"
	rdb.data["cache:vivo:stats:def"] = "{}"

	require.NoError(t, c.Delete(ctx, dashboardStatsKey, CacheKey(vivoStatsResource, "abc")))
	assert.Equal(t, map[string]string{"cache:vivo:stats:def": "{}"}, rdb.data)
	assert.NoError(t, c.Delete(ctx))
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "vivo:stats:abc", CacheKey("vivo:stats", "abc"))
}
