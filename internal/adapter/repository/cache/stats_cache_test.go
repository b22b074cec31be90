package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*StatsCache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStatsCacheWithClient(client, time.Minute, 30*time.Second, logger.NewNop()), mr
}

func TestStatsCache_Statistics(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	st, err := c.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Nil(t, st)

	want := &domain.Statistics{TotalListings: 3, PerCategory: map[string]int64{"Kuliner": 2, "Fashion": 1}}
	require.NoError(t, c.SetStatistics(ctx, want))

	got, err := c.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	mr.FastForward(2 * time.Minute)
	got, err = c.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStatsCache_TopAndInvalidate(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	top := []*domain.Listing{{ID: "a", Name: "Bakso", Views: 10}, {ID: "b", Name: "Batik", Views: 4}}
	require.NoError(t, c.SetTop(ctx, 5, top))
	require.NoError(t, c.SetTop(ctx, 10, top[:1]))
	require.NoError(t, c.SetStatistics(ctx, &domain.Statistics{TotalListings: 2}))

	got, err := c.GetTop(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bakso", got[0].Name)

	require.NoError(t, c.Invalidate(ctx))
	assert.False(t, mr.Exists(statsKey))
	assert.False(t, mr.Exists(topKey(5)))
	assert.False(t, mr.Exists(topKey(10)))
}

func TestStatsCache_CorruptEntryIsAMiss(t *testing.T) {
	c, mr := setupCache(t)
	require.NoError(t, mr.Set(statsKey, "{not json"))

	st, err := c.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Nil(t, st)
	assert.False(t, mr.Exists(statsKey))
}
