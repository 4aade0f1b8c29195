package cli

import (
	"context"
	"io"
	"testing"
)

func TestServeCacheBackends(t *testing.T) {
	c := New(io.Discard, LogInfo)
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		cc, keyer, err := c.serveCache(true, "")
		if err != nil {
			t.Fatalf("serveCache() error: %v", err)
		}
		if keyer != nil {
			t.Error("disabled cache should not scope keys")
		}

		// The null backend accepts writes and never hits.
		if err := cc.Set(ctx, "k", []byte("v"), 0); err != nil {
			t.Fatalf("Set() error: %v", err)
		}
		if _, hit, _ := cc.Get(ctx, "k"); hit {
			t.Error("disabled cache should never hit")
		}
	})

	t.Run("file cache", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", t.TempDir())

		cc, keyer, err := c.serveCache(false, "")
		if err != nil {
			t.Fatalf("serveCache() error: %v", err)
		}
		if keyer != nil {
			t.Error("local file cache should use unscoped keys")
		}

		if err := cc.Set(ctx, "k", []byte("v"), 0); err != nil {
			t.Fatalf("Set() error: %v", err)
		}
		data, hit, err := cc.Get(ctx, "k")
		if err != nil || !hit {
			t.Fatalf("Get() = %v, %v; want a hit", hit, err)
		}
		if string(data) != "v" {
			t.Errorf("Get() = %q, want %q", data, "v")
		}
	})

	t.Run("bad redis url", func(t *testing.T) {
		if _, _, err := c.serveCache(false, "not-a-redis-url"); err == nil {
			t.Error("serveCache() with a malformed redis URL should fail")
		}
	})
}
