package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetSetExpiry(t *testing.T) {
	now := time.Now()
	store := NewStore(time.Minute)
	store.now = func() time.Time { return now }

	_, ok := store.Get("epa:2021")
	assert.False(t, ok)

	store.Set("epa:2021", 0.167)
	value, ok := store.Get("epa:2021")
	require.True(t, ok)
	assert.Equal(t, 0.167, value)

	now = now.Add(2 * time.Minute)
	_, ok = store.Get("epa:2021")
	assert.False(t, ok)
}

func TestStoreDisabledWhenTTLZero(t *testing.T) {
	store := NewStore(0)
	assert.False(t, store.Enabled())

	store.Set("k", "v")
	_, ok := store.Get("k")
	assert.False(t, ok)

	loads := 0
	value, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (any, error) {
		loads++
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", value)
	assert.Equal(t, 1, loads)
}

func TestStoreGetOrLoadCachesSuccess(t *testing.T) {
	store := NewStore(time.Minute)

	loads := 0
	load := func(context.Context) (any, error) {
		loads++
		return "summary", nil
	}

	first, err := store.GetOrLoad(context.Background(), "summary:2021", load)
	require.NoError(t, err)
	second, err := store.GetOrLoad(context.Background(), "summary:2021", load)
	require.NoError(t, err)

	assert.Equal(t, "summary", first)
	assert.Equal(t, "summary", second)
	assert.Equal(t, 1, loads)
}

func TestStoreGetOrLoadDoesNotCacheError(t *testing.T) {
	store := NewStore(time.Minute)
	errLoad := errors.New("query failed")

	loads := 0
	_, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (any, error) {
		loads++
		return nil, errLoad
	})
	require.ErrorIs(t, err, errLoad)

	value, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (any, error) {
		loads++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", value)
	assert.Equal(t, 2, loads)
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(time.Minute)
	store.Set("k", 1)
	store.Delete("k")
	_, ok := store.Get("k")
	assert.False(t, ok)
}
