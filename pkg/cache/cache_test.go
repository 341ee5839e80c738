package cache

import (
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	gk1 := k.GraphKey("passhash1", GraphKeyOpts{Kind: "mir"})
	gk2 := k.GraphKey("passhash1", GraphKeyOpts{Kind: "lir"})
	if gk1 == gk2 {
		t.Error("Different GraphKeyOpts should produce different keys")
	}

	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{ParamsHash: "a"})
	lk2 := k.LayoutKey("hash123", LayoutKeyOpts{ParamsHash: "b"})
	if lk1 == lk2 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "dot"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "user:123:")

	key := scoped.GraphKey("passhash", GraphKeyOpts{Kind: "mir"})
	if len(key) < len("user:123:") || key[:len("user:123:")] != "user:123:" {
		t.Errorf("ScopedKeyer key should be prefixed: %s", key)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.GraphKey("passhash", GraphKeyOpts{})
	if len(key) < len("prefix:") || key[:len("prefix:")] != "prefix:" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
