// AngelaMos | 2026
// cache_test.go

package core

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type cachedItem struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCache(client, "catalog", time.Minute), mr
}

func TestCacheMissThenHit(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	var got cachedItem
	found, version, err := c.Get(ctx, "product:1", &got)
	if err != nil || found {
		t.Fatalf("Get on empty cache = %v, %v", found, err)
	}

	if err := c.SetAt(ctx, version, "product:1", cachedItem{Name: "Zelda", Stock: 3}); err != nil {
		t.Fatalf("SetAt: %v", err)
	}

	found, _, err = c.Get(ctx, "product:1", &got)
	if err != nil || !found {
		t.Fatalf("Get after Set = %v, %v", found, err)
	}
	if got.Name != "Zelda" || got.Stock != 3 {
		t.Errorf("got %+v", got)
	}
}

func TestCacheInvalidateHidesOlderEntries(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	if err := c.SetAt(ctx, 0, "list:1:20", []cachedItem{{Name: "Halo"}}); err != nil {
		t.Fatalf("SetAt: %v", err)
	}
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	var got []cachedItem
	found, _, err := c.Get(ctx, "list:1:20", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Fatal("entry written before Invalidate must not be served")
	}
}

func TestCacheWriteAfterInvalidateLandsUnderOldVersion(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	var got []cachedItem
	_, before, err := c.Get(ctx, "list:1:20", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	// a writer invalidates while the reader is still loading its rows
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if err := c.SetAt(ctx, before, "list:1:20", []cachedItem{{Name: "Removed"}}); err != nil {
		t.Fatalf("SetAt: %v", err)
	}

	found, after, err := c.Get(ctx, "list:1:20", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if after != before+1 {
		t.Errorf("version = %d, want %d", after, before+1)
	}
	if found {
		t.Fatalf("stale rows served after invalidation: %+v", got)
	}
}

func TestCacheEntriesExpire(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	if err := c.SetAt(ctx, 0, "product:2", cachedItem{Name: "Metroid"}); err != nil {
		t.Fatalf("SetAt: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	var got cachedItem
	found, _, err := c.Get(ctx, "product:2", &got)
	if err != nil || found {
		t.Fatalf("expired entry returned: %v, %v", found, err)
	}
}

func TestCacheReportsBackendFailure(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	mr.Close()

	var got cachedItem
	if _, _, err := c.Get(ctx, "product:3", &got); err == nil {
		t.Fatal("expected an error with redis down")
	}
}
