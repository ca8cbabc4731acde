package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tastelens/backend/internal/domain"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	table := domain.NewTable()

	tests := []struct {
		name  string
		key   string
		value interface{}
		ttl   time.Duration
	}{
		{name: "store and retrieve string", key: "k1", value: "value", ttl: time.Minute},
		{name: "store and retrieve table by reference", key: "k2", value: table, ttl: time.Minute},
		{name: "store with short TTL", key: "k3", value: "expires-soon", ttl: time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := cache.Set(ctx, tt.key, tt.value, tt.ttl); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			if tt.ttl < 10*time.Millisecond {
				time.Sleep(10 * time.Millisecond)
				if _, err := cache.Get(ctx, tt.key); err != domain.ErrCacheMiss {
					t.Errorf("Expected cache miss after expiration, got error = %v", err)
				}
				return
			}

			got, err := cache.Get(ctx, tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != tt.value {
				t.Errorf("Get() = %v, want %v", got, tt.value)
			}
		})
	}
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()

	_, err := cache.Get(context.Background(), "non-existent-key")
	if err != domain.ErrCacheMiss {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	if err := cache.Set(ctx, "delete-test", "value", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cache.Delete(ctx, "delete-test"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if _, err := cache.Get(ctx, "delete-test"); err != domain.ErrCacheMiss {
		t.Errorf("Get() after delete error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Exists(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	exists, _ := cache.Exists(ctx, "exists-test")
	if exists {
		t.Errorf("Exists() = true, want false for non-existent key")
	}

	_ = cache.Set(ctx, "exists-test", "value", time.Minute)
	exists, _ = cache.Exists(ctx, "exists-test")
	if !exists {
		t.Errorf("Exists() = false, want true after setting value")
	}
}

func TestMemoryCache_RemoveExpired(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	_ = cache.Set(ctx, "old", 1, time.Millisecond)
	_ = cache.Set(ctx, "fresh", 2, time.Hour)

	cache.removeExpired(time.Now().Add(time.Minute))

	if size := cache.Size(); size != 1 {
		t.Errorf("Size() = %d, want 1 after sweep", size)
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = cache.Set(ctx, string(rune('a'+i)), i, time.Minute)
	}
	cache.Clear()

	if size := cache.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0 after clear", size)
	}
}

func TestMemoryCache_GetOrLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("loads once for concurrent misses", func(t *testing.T) {
		cache := NewMemoryCache()
		defer cache.Close()

		var calls int32
		load := func(ctx context.Context) (interface{}, error) {
			atomic.AddInt32(&calls, 1)
			time.Sleep(5 * time.Millisecond)
			return "loaded", nil
		}

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := cache.GetOrLoad(ctx, "users", time.Minute, load)
				if err != nil || v != "loaded" {
					t.Errorf("GetOrLoad() = %v, %v", v, err)
				}
			}()
		}
		wg.Wait()

		if calls != 1 {
			t.Errorf("load called %d times, want 1", calls)
		}
	})

	t.Run("does not cache errors", func(t *testing.T) {
		cache := NewMemoryCache()
		defer cache.Close()

		boom := errors.New("boom")
		_, err := cache.GetOrLoad(ctx, "k", time.Minute, func(context.Context) (interface{}, error) {
			return nil, boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("GetOrLoad() error = %v, want boom", err)
		}
		if exists, _ := cache.Exists(ctx, "k"); exists {
			t.Error("failed load was cached")
		}
	})
}

func TestMemoryCache_Close(t *testing.T) {
	cache := NewMemoryCache()
	cache.Close()
	cache.Close()
}
