package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ID    string   `json:"id"`
	Score int      `json:"score"`
	Tags  []string `json:"tags"`
}

// exercise runs the behavior every backend must share.
func exercise(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	var got payload
	hit, err := c.Get(ctx, "seo", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	want := payload{ID: "abc", Score: 50, Tags: []string{"g1", "g4"}}
	require.NoError(t, c.Set(ctx, "seo", want, time.Minute))

	hit, err = c.Get(ctx, "seo", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)

	require.NoError(t, c.Delete(ctx, "seo", "absent"))
	hit, err = c.Get(ctx, "seo", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "esa", payload{ID: "1"}, time.Hour))
	require.NoError(t, m.Set(ctx, "forever", payload{ID: "2"}, 0))

	now = now.Add(59 * time.Minute)
	var got payload
	hit, _ := m.Get(ctx, "esa", &got)
	assert.True(t, hit)

	now = now.Add(time.Minute)
	hit, _ = m.Get(ctx, "esa", &got)
	assert.False(t, hit, "entry expires at exactly ttl")
	assert.Equal(t, 1, m.Len(), "expired entry is evicted on read")

	hit, _ = m.Get(ctx, "forever", &got)
	assert.True(t, hit)
	assert.Equal(t, "2", got.ID)
}

func TestMemory_IsolatesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	v := payload{Tags: []string{"a"}}
	require.NoError(t, m.Set(ctx, "k", v, time.Minute))
	v.Tags[0] = "mutated"

	var got payload
	_, err := m.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.Tags)
}

func TestMemory_Errors(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	assert.Error(t, m.Set(ctx, "bad", make(chan int), time.Minute))

	require.NoError(t, m.Set(ctx, "k", "a string", time.Minute))
	var got payload
	_, err := m.Get(ctx, "k", &got)
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	c, err := New(context.Background(), Config{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	_, err = New(context.Background(), Config{Backend: "memcached"})
	assert.ErrorContains(t, err, "unknown cache backend")

	_, err = New(context.Background(), Config{Backend: BackendRedis})
	assert.ErrorContains(t, err, "addr is required")
}

func TestRedis_Unreachable(t *testing.T) {
	_, err := NewRedis(context.Background(), RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	assert.ErrorContains(t, err, "redis ping")
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("ATLAS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("ATLAS_TEST_REDIS_ADDR not set")
	}
	r, err := NewRedis(context.Background(), RedisConfig{Addr: addr, KeyPrefix: "atlas-test:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	exercise(t, r)
}
