package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	pkgcache "realty-backend/pkg/cache"
)

func newTestCache(t *testing.T) (pkgcache.Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	c, client := NewRedisCache(mr.Addr(), "", 0)
	t.Cleanup(func() { client.Close() })
	return c, mr
}

func TestSetGetRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, c.Set(ctx, "k", payload{Name: "villa", Count: 3}, time.Minute))

	var got payload
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, payload{Name: "villa", Count: 3}, got)

	found, err = c.Get(ctx, "missing", &got)
	require.NoError(t, err)
	require.False(t, found)
}

func TestInvalidateTagsRemovesOnlyDependentKeys(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "listing:id:a", "A", time.Minute, "listing:a", "listings"))
	require.NoError(t, c.Set(ctx, "listings:page:1", "P1", time.Minute, "listings"))
	require.NoError(t, c.Set(ctx, "taxonomy:features", "F", time.Minute, "taxonomy:feature"))

	require.NoError(t, c.InvalidateTags(ctx, "listing:a"))

	var s string
	found, err := c.Get(ctx, "listing:id:a", &s)
	require.NoError(t, err)
	require.False(t, found, "key tagged with the invalidated entity is gone")

	found, err = c.Get(ctx, "listings:page:1", &s)
	require.NoError(t, err)
	require.True(t, found, "sibling key under a different tag survives")

	found, err = c.Get(ctx, "taxonomy:features", &s)
	require.NoError(t, err)
	require.True(t, found, "unrelated key survives")

	require.NoError(t, c.InvalidateTags(ctx, "listings"))

	found, err = c.Get(ctx, "listings:page:1", &s)
	require.NoError(t, err)
	require.False(t, found)

	found, err = c.Get(ctx, "taxonomy:features", &s)
	require.NoError(t, err)
	require.True(t, found)

	require.False(t, mr.Exists("tag:listings"), "tag index deleted with its members")
}

func TestInvalidateUnknownTagIsNoop(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.InvalidateTags(ctx, "never-used"))

	var s string
	found, err := c.Get(ctx, "k", &s)
	require.NoError(t, err)
	require.True(t, found)
}

func TestIncrementAndExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	n, err := c.Increment(ctx, "views:x")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = c.Increment(ctx, "views:x")
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	require.NoError(t, c.Expire(ctx, "views:x", time.Second))
	mr.FastForward(2 * time.Second)

	var s string
	found, err := c.Get(ctx, "views:x", &s)
	require.NoError(t, err)
	require.False(t, found)
}
