package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
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

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	payload := []byte("\x89PNG rendered image bytes")
	if err := c.Set(ctx, "image:abc", payload, time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "image:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit after Set")
	}
	if string(data) != string(payload) {
		t.Errorf("got %q, want %q", data, payload)
	}
}

func TestFileCache_Miss(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	_, hit, err := c.Get(context.Background(), "never-set")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expected miss for unknown key")
	}
}

func TestFileCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "key", []byte("value"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "key"); !hit {
		t.Fatal("expected hit before expiration")
	}

	time.Sleep(20 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expected miss after expiration")
	}
}

func TestFileCache_ZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); !hit {
		t.Error("zero TTL entry should not expire")
	}
}

func TestFileCache_Delete(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	c.Set(ctx, "key", []byte("value"), time.Hour)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expected miss after Delete")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	c.Set(ctx, "key", []byte("value"), time.Hour)

	// Corrupt the entry on disk
	fc := c.(*FileCache)
	if err := os.WriteFile(fc.path("key"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("corrupt entry should read as a miss")
	}
}

func TestFileCache_ShardsEntries(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)

	c.Set(ctx, "key", []byte("value"), time.Hour)

	hash := Hash([]byte("key"))
	want := filepath.Join(dir, hash[:2], hash[2:]+".json")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("entry not stored at sharded path %s: %v", want, err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// HTTPKey
	httpKey := k.HTTPKey("logo:", "https://example.com/logo.png")
	if httpKey != "http:logo::https://example.com/logo.png" {
		t.Errorf("HTTPKey unexpected: %s", httpKey)
	}

	// ImageKey should include every option in the hash
	base := ImageKeyOpts{Data: "https://example.com", BoxSize: 10, Border: 4, Fill: "black", Back: "white", Style: "square"}

	variants := []ImageKeyOpts{
		{Data: "https://other.com", BoxSize: 10, Border: 4, Fill: "black", Back: "white", Style: "square"},
		{Data: "https://example.com", BoxSize: 12, Border: 4, Fill: "black", Back: "white", Style: "square"},
		{Data: "https://example.com", BoxSize: 10, Border: 2, Fill: "black", Back: "white", Style: "square"},
		{Data: "https://example.com", BoxSize: 10, Border: 4, Fill: "navy", Back: "white", Style: "square"},
		{Data: "https://example.com", BoxSize: 10, Border: 4, Fill: "black", Back: "#fff", Style: "square"},
		{Data: "https://example.com", BoxSize: 10, Border: 4, Fill: "black", Back: "white", Style: "circle"},
		{Data: "https://example.com", BoxSize: 10, Border: 4, Fill: "black", Back: "white", Style: "square", LogoHash: "abc"},
		{Data: "https://example.com", BoxSize: 10, Border: 4, Fill: "black", Back: "white", Style: "square", LogoHash: "abc", LogoSize: 30},
	}

	baseKey := k.ImageKey(base)
	if !strings.HasPrefix(baseKey, "image:") {
		t.Errorf("ImageKey should carry the image prefix: %s", baseKey)
	}
	for i, v := range variants {
		if k.ImageKey(v) == baseKey {
			t.Errorf("variant %d should produce a different key", i)
		}
	}

	// Determinism
	if k.ImageKey(base) != baseKey {
		t.Error("ImageKey should be deterministic")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant:123:")

	// All keys should be prefixed
	httpKey := scoped.HTTPKey("logo:", "x")
	if httpKey != "tenant:123:http:logo::x" {
		t.Errorf("ScopedKeyer HTTPKey unexpected: %s", httpKey)
	}

	imageKey := scoped.ImageKey(ImageKeyOpts{Data: "example.com"})
	if !strings.HasPrefix(imageKey, "tenant:123:image:") {
		t.Errorf("ScopedKeyer ImageKey should be prefixed: %s", imageKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.HTTPKey("test:", "key")
	if key != "prefix:http:test::key" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
