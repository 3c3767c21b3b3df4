package responsecache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)}
}

func newMemoryCache(t *testing.T, clock *fakeClock) (*Cache, *MemoryStore) {
	t.Helper()
	store, err := NewMemoryStore(16)
	require.NoError(t, err)
	return New(store, WithClock(clock.Now)), store
}

type failingStore struct{}

func (failingStore) Load(context.Context, string) (Entry, bool, error) {
	return Entry{}, false, errors.New("backend down")
}

func (failingStore) Save(context.Context, string, Entry) error {
	return errors.New("backend down")
}

func TestCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cache, _ := newMemoryCache(t, newFakeClock())

	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("symptoms-key-%d", i)
		value := fmt.Sprintf("analysis %d", i)
		cache.Put(ctx, key, value)

		got, ok := cache.Get(ctx, key)
		require.True(t, ok, key)
		assert.Equal(t, value, got)
	}
}

func TestCache_MissingKey(t *testing.T) {
	cache, _ := newMemoryCache(t, newFakeClock())

	got, ok := cache.Get(context.Background(), "never-stored")
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestCache_Overwrite(t *testing.T) {
	ctx := context.Background()
	cache, store := newMemoryCache(t, newFakeClock())

	cache.Put(ctx, "k", "first")
	cache.Put(ctx, "k", "second")

	got, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "second", got)
	assert.Equal(t, 1, store.Len())
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	cache, store := newMemoryCache(t, clock)

	cache.Put(ctx, "k", "v")

	t.Run("served at exactly the TTL", func(t *testing.T) {
		clock.Advance(DefaultTTL)
		got, ok := cache.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, "v", got)
	})

	t.Run("masked once past the TTL", func(t *testing.T) {
		clock.Advance(time.Millisecond)
		_, ok := cache.Get(ctx, "k")
		assert.False(t, ok)
	})

	t.Run("stale entry is still stored", func(t *testing.T) {
		assert.Equal(t, 1, store.Len())
	})

	t.Run("refresh restamps the entry", func(t *testing.T) {
		cache.Put(ctx, "k", "fresh")
		got, ok := cache.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, "fresh", got)
	})
}

func TestCache_CustomTTL(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store, err := NewMemoryStore(4)
	require.NoError(t, err)
	cache := New(store, WithClock(clock.Now), WithTTL(time.Second))

	assert.Equal(t, time.Second, cache.TTL())

	cache.Put(ctx, "k", "v")
	clock.Advance(2 * time.Second)
	_, ok := cache.Get(ctx, "k")
	assert.False(t, ok)
}

func TestCache_StoreFailuresAreMisses(t *testing.T) {
	ctx := context.Background()
	cache := New(failingStore{})

	assert.NotPanics(t, func() { cache.Put(ctx, "k", "v") })
	_, ok := cache.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryStore_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	store, err := NewMemoryStore(2)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, "a", Entry{Value: "1"}))
	require.NoError(t, store.Save(ctx, "b", Entry{Value: "2"}))
	require.NoError(t, store.Save(ctx, "c", Entry{Value: "3"}))

	_, ok, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, store.Len())
}

func TestTextKey(t *testing.T) {
	a := TextKey("symptoms", "  Limping and NOT eating ")
	b := TextKey("symptoms", "limping and not eating")
	assert.Equal(t, "symptoms-limping and not eating", a)
	assert.Equal(t, a, b)

	assert.Equal(t, "plain", TextKey("", " Plain "))
	assert.NotEqual(t, TextKey("symptoms", "x"), TextKey("behavior", "x"))
}

func TestPayloadKey_SharesPrefix(t *testing.T) {
	prefix := strings.Repeat("A", FingerprintLength)
	first := prefix + "BBBB"
	second := prefix + "CCCCCCCC"

	assert.Equal(t, PayloadKey("media", first), PayloadKey("media", second))
	assert.NotEqual(t, PayloadKey("media", first), PayloadKey("audio", first))
	assert.Equal(t, "audio-short", PayloadKey("audio", "short"))
}

func TestStructuredKey(t *testing.T) {
	type growth struct {
		Breed string  `json:"breed"`
		Age   int     `json:"age"`
		Kg    float64 `json:"weight"`
	}

	a, err := StructuredKey("growth", growth{Breed: "Beagle", Age: 6, Kg: 7.5})
	require.NoError(t, err)
	b, err := StructuredKey("growth", growth{Breed: "BEAGLE", Age: 6, Kg: 7.5})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "growth-{"))

	_, err = StructuredKey("bad", make(chan int))
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short"))

	long := strings.Repeat("k", 100)
	got := truncate(long)
	assert.Equal(t, strings.Repeat("k", 48)+"...", got)
	assert.Equal(t, 100, len(long), "input untouched")
}
