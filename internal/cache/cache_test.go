package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewRedisClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client), mr
}

func backends(t *testing.T) map[string]Cache {
	rc, _ := newRedisCache(t)
	return map[string]Cache{
		BackendRedis:  rc,
		BackendMemory: NewMemoryCache(),
	}
}

func TestCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, name, c.Backend())

			var got payload
			assert.False(t, c.Get(ctx, "k1", &got))

			require.NoError(t, c.Set(ctx, "k1", payload{Name: "Baccara", Count: 3}, time.Minute))
			require.True(t, c.Get(ctx, "k1", &got))
			assert.Equal(t, payload{Name: "Baccara", Count: 3}, got)

			require.NoError(t, c.Delete(ctx, "k1"))
			assert.False(t, c.Get(ctx, "k1", &got))
		})
	}
}

func TestCache_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, c.Set(ctx, EstablishmentListKey+"a", 1, time.Minute))
			require.NoError(t, c.Set(ctx, EstablishmentListKey+"b", 2, time.Minute))
			require.NoError(t, c.Set(ctx, CategoriesKey, 3, time.Minute))

			require.NoError(t, c.DeletePrefix(ctx, EstablishmentListKey))

			var v int
			assert.False(t, c.Get(ctx, EstablishmentListKey+"a", &v))
			assert.False(t, c.Get(ctx, EstablishmentListKey+"b", &v))
			assert.True(t, c.Get(ctx, CategoriesKey, &v))
			assert.Equal(t, 3, v)
		})
	}
}

func TestCache_IncrWindow(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for i := int64(1); i <= 3; i++ {
				n, err := c.IncrWindow(ctx, "rl:test:1", time.Minute)
				require.NoError(t, err)
				assert.Equal(t, i, n)
			}
		})
	}
}

func TestRedisCache_WindowExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	n, err := c.IncrWindow(ctx, "rl:login:ip", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, time.Minute, mr.TTL("rl:login:ip"))

	mr.FastForward(61 * time.Second)
	n, err = c.IncrWindow(ctx, "rl:login:ip", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	n, err := c.IncrWindow(ctx, "w", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	now = now.Add(2 * time.Minute)
	var s string
	assert.False(t, c.Get(ctx, "k", &s))
	n, err = c.IncrWindow(ctx, "w", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedisCache_OutageIsMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)
	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	mr.Close()
	var s string
	assert.False(t, c.Get(ctx, "k", &s))
}

func TestRemember(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	calls := 0
	fetch := func() ([]string, error) {
		calls++
		return []string{"bar", "club"}, nil
	}

	got, err := Remember(ctx, c, CategoriesKey, CategoriesTTL, fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"bar", "club"}, got)

	got, err = Remember(ctx, c, CategoriesKey, CategoriesTTL, fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"bar", "club"}, got)
	assert.Equal(t, 1, calls)

	Invalidate(ctx, c, []string{CategoriesKey})
	_, err = Remember(ctx, c, CategoriesKey, CategoriesTTL, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRemember_FetchErrorNotCached(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	boom := errors.New("db down")

	_, err := Remember(ctx, c, "k", time.Minute, func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	var v int
	assert.False(t, c.Get(ctx, "k", &v))
}

func TestRemember_NilCache(t *testing.T) {
	got, err := Remember(context.Background(), nil, "k", time.Minute, func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestNew_FallsBackToMemory(t *testing.T) {
	c := New(context.Background(), BackendRedis, "127.0.0.1:1")
	assert.Equal(t, BackendMemory, c.Backend())
	assert.Nil(t, RedisClientOf(c))

	c = New(context.Background(), BackendMemory, "")
	assert.Equal(t, BackendMemory, c.Backend())
}

func TestNew_Redis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	c := New(context.Background(), BackendRedis, "redis://"+mr.Addr())
	assert.Equal(t, BackendRedis, c.Backend())
	assert.NotNil(t, RedisClientOf(c))
}

func TestListKey(t *testing.T) {
	assert.Equal(t, "employees:list:1:20:bar", ListKey(EmployeeListKey, 1, 20, "bar"))
}
