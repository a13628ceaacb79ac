package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/solarprices/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetAndGet(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()
	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		value string
		ttl   time.Duration
	}{
		{name: "store and retrieve language", key: "preference:lang:abc", value: "en", ttl: time.Minute},
		{name: "overwrite keeps latest", key: "preference:lang:abc", value: "ar", ttl: time.Minute},
		{name: "store with short TTL", key: "short", value: "es", ttl: time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, tt.key, tt.value, tt.ttl))

			if tt.ttl < 10*time.Millisecond {
				time.Sleep(10 * time.Millisecond)
				_, err := store.Get(ctx, tt.key)
				assert.ErrorIs(t, err, domain.ErrCacheMiss)
				return
			}

			got, err := store.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestMemoryStore_Get_CacheMiss(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	_, err := store.Get(context.Background(), "non-existent-key")
	if err != domain.ErrCacheMiss {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "delete-test", "value", time.Minute))

	_, err := store.Get(ctx, "delete-test")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "delete-test"))

	_, err = store.Get(ctx, "delete-test")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestMemoryStore_Sweep(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "live", "v", time.Hour))
	require.NoError(t, store.Set(ctx, "dead", "v", -time.Second))
	assert.Equal(t, 2, store.Size())

	store.sweep(time.Now())

	assert.Equal(t, 1, store.Size())
	_, err := store.Get(ctx, "live")
	assert.NoError(t, err)
}

func TestMemoryStore_Concurrency(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := "k"
			if i%2 == 0 {
				_ = store.Set(ctx, key, "es", time.Minute)
			} else {
				_, _ = store.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "es", got)
}

func TestMemoryStore_CloseIsIdempotent(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	store.Close()
	assert.NotPanics(t, store.Close)
}
