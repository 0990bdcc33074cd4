package experience

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/domain"
)

func newCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCache(client, "test:", time.Minute), mr
}

func TestCache_Miss(t *testing.T) {
	cache, _ := newCache(t)

	list, ok, err := cache.GetList(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, list)
}

func TestCache_SetGetKeepsExactPrice(t *testing.T) {
	cache, mr := newCache(t)
	ctx := context.Background()
	image := "https://example.com/k.jpg"
	created := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)

	in := []*domain.Experience{
		{ID: uuid.New(), Name: "Kayaking", Location: "Udupi", ImageURL: &image, Price: decimal.RequireFromString("999.50"), CreatedAt: created, UpdatedAt: created},
		{ID: uuid.New(), Name: "Kayaking", Location: "Udupi", Price: decimal.RequireFromString("999.50"), CreatedAt: created, UpdatedAt: created},
	}
	require.NoError(t, cache.SetList(ctx, in))

	got, ok, err := cache.GetList(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 2)

	assert.Equal(t, in[0].ID, got[0].ID)
	assert.True(t, in[0].Price.Equal(got[0].Price))
	assert.Equal(t, image, *got[0].ImageURL)
	assert.Nil(t, got[1].ImageURL)
	assert.True(t, created.Equal(got[1].CreatedAt))

	assert.Equal(t, time.Minute, mr.TTL("test:"+listKey))
}

func TestCache_Expires(t *testing.T) {
	cache, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetList(ctx, []*domain.Experience{{ID: uuid.New(), Price: decimal.NewFromInt(1)}}))
	mr.FastForward(2 * time.Minute)

	_, ok, err := cache.GetList(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Invalidate(t *testing.T) {
	cache, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetList(ctx, []*domain.Experience{}))
	require.NoError(t, cache.Invalidate(ctx))

	_, ok, err := cache.GetList(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_CorruptedPayload(t *testing.T) {
	cache, mr := newCache(t)

	require.NoError(t, mr.Set("test:"+listKey, "{not json"))

	_, _, err := cache.GetList(context.Background())
	assert.ErrorIs(t, err, ErrDecode)
}

func TestCache_ServerDown(t *testing.T) {
	cache, mr := newCache(t)
	mr.Close()

	_, _, err := cache.GetList(context.Background())
	assert.ErrorIs(t, err, ErrCacheRead)
}
