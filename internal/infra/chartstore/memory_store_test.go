package chartstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/gdp-chart/internal/domain/gdpchart"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newStoreUnderTest(ttl time.Duration, max int) (*MemoryStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(ttl, max)
	store.now = clock.Now
	return store, clock
}

func TestMemoryStoreSaveGetDelete(t *testing.T) {
	store, _ := newStoreUnderTest(0, 4)
	ctx := context.Background()
	chart := &gdpchart.Chart{ID: "a"}

	require.NoError(t, store.Save(ctx, chart))
	got, ok, err := store.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Same(t, chart, got)

	require.NoError(t, store.Delete(ctx, "a"))
	_, ok, err = store.Get(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreExpiresEntries(t *testing.T) {
	store, clock := newStoreUnderTest(time.Minute, 4)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &gdpchart.Chart{ID: "a"}))

	clock.Advance(30 * time.Second)
	_, ok, _ := store.Get(ctx, "a")
	require.True(t, ok)

	clock.Advance(time.Minute)
	_, ok, _ = store.Get(ctx, "a")
	require.False(t, ok)
	require.Zero(t, store.Len())
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	store, clock := newStoreUnderTest(0, 2)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, &gdpchart.Chart{ID: id}))
		clock.Advance(time.Second)
	}

	require.Equal(t, 2, store.Len())
	_, ok, _ := store.Get(ctx, "a")
	require.False(t, ok)
	_, ok, _ = store.Get(ctx, "c")
	require.True(t, ok)
}

func TestMemoryStoreIgnoresChartsWithoutID(t *testing.T) {
	store, _ := newStoreUnderTest(0, 2)
	require.NoError(t, store.Save(context.Background(), &gdpchart.Chart{}))
	require.NoError(t, store.Save(context.Background(), nil))
	require.Zero(t, store.Len())
}
