package menu

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	fetches int
	items   []MenuItem
	err     error
}

func (f *fakeSource) Representation() Representation { return RepresentationColumns }

func (f *fakeSource) Fetch(ctx context.Context) ([]MenuItem, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func TestCacheReadThrough(t *testing.T) {
	src := &fakeSource{items: []MenuItem{{Name: "Pad Thai"}}}
	cache := NewCache(src, time.Minute)
	ctx := context.Background()

	items, err := cache.Fetch(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, src.fetches)

	// Second fetch within TTL is served from the cache.
	_, err = cache.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, src.fetches)
}

func TestCacheExpiry(t *testing.T) {
	src := &fakeSource{items: []MenuItem{{Name: "Pad Thai"}}}
	cache := NewCache(src, time.Millisecond)
	ctx := context.Background()

	_, err := cache.Fetch(ctx)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = cache.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.fetches, "expired entry should refetch")
}

func TestCacheInvalidate(t *testing.T) {
	src := &fakeSource{items: []MenuItem{{Name: "Pad Thai"}}}
	cache := NewCache(src, time.Minute)
	ctx := context.Background()

	_, _ = cache.Fetch(ctx)
	cache.Invalidate()

	assert.False(t, cache.Status().Cached)

	_, err := cache.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.fetches)
}

func TestCacheFetchErrorNotCached(t *testing.T) {
	src := &fakeSource{err: errors.New("database down")}
	cache := NewCache(src, time.Minute)

	_, err := cache.Fetch(context.Background())
	require.Error(t, err)
	assert.False(t, cache.Status().Cached)
}

func TestCacheStatus(t *testing.T) {
	src := &fakeSource{items: []MenuItem{{Name: "A"}, {Name: "B"}}}
	cache := NewCache(src, time.Minute)

	assert.Equal(t, CacheStatus{}, cache.Status())

	_, _ = cache.Fetch(context.Background())
	status := cache.Status()
	assert.True(t, status.Cached)
	assert.Equal(t, 2, status.ItemCount)
}

func TestCacheExposesSourceRepresentation(t *testing.T) {
	cache := NewCache(&fakeSource{}, time.Minute)
	assert.Equal(t, RepresentationColumns, cache.Representation())
}

func TestNormalizeTriState(t *testing.T) {
	tests := []struct {
		raw  string
		want TriState
	}{
		{"YES", TriStateSafe},
		{"yes", TriStateSafe},
		{"  Yes  ", TriStateSafe},
		{"CAN BE", TriStateConditional},
		{"can be", TriStateConditional},
		{"NO", TriStateUnsafe},
		{"", TriStateUnsafe},
		{"maybe?", TriStateUnsafe},
	}
	for _, tt := range tests {
		if got := NormalizeTriState(tt.raw); got != tt.want {
			t.Errorf("NormalizeTriState(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestHasColumn(t *testing.T) {
	items := []MenuItem{
		{Name: "A"},
		{Name: "B", Profile: map[string]TriState{"DAIRY FREE": TriStateSafe}},
	}
	assert.True(t, HasColumn(items, "DAIRY FREE"))
	assert.False(t, HasColumn(items, "SESAME FREE"))
	assert.False(t, HasColumn(nil, "DAIRY FREE"))
}
