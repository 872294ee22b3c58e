package cache

import (
	"context"
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

func TestHashJSON(t *testing.T) {
	type params struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}

	h1, err := HashJSON(params{Width: 96, Height: 108})
	if err != nil {
		t.Fatalf("HashJSON error: %v", err)
	}
	h2, err := HashJSON(params{Width: 96, Height: 108})
	if err != nil {
		t.Fatalf("HashJSON error: %v", err)
	}
	if h1 != h2 {
		t.Error("HashJSON should be deterministic")
	}

	h3, _ := HashJSON(params{Width: 120, Height: 108})
	if h1 == h3 {
		t.Error("Different values should produce different hashes")
	}

	if _, err := HashJSON(make(chan int)); err == nil {
		t.Error("HashJSON should report unmarshalable values")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// LayoutKey should include the edits hash
	lk1 := k.LayoutKey("params123", LayoutKeyOpts{EditsHash: "edits-a"})
	lk2 := k.LayoutKey("params123", LayoutKeyOpts{EditsHash: "edits-b"})
	if lk1 == lk2 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(lk1, "layout:") {
		t.Errorf("LayoutKey should carry the stage prefix: %s", lk1)
	}

	// Different parameter hashes produce different keys
	lk3 := k.LayoutKey("params456", LayoutKeyOpts{EditsHash: "edits-a"})
	if lk1 == lk3 {
		t.Error("Different parameter hashes should produce different keys")
	}

	// AnchorKey should include the spec hash
	ak1 := k.AnchorKey("layout123", AnchorKeyOpts{SpecHash: "spec-a"})
	ak2 := k.AnchorKey("layout123", AnchorKeyOpts{SpecHash: "spec-b"})
	if ak1 == ak2 {
		t.Error("Different AnchorKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(ak1, "anchor:") {
		t.Errorf("AnchorKey should carry the stage prefix: %s", ak1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "wall:abc:")

	// All keys should be prefixed
	lk := scoped.LayoutKey("params123", LayoutKeyOpts{})
	if !strings.HasPrefix(lk, "wall:abc:layout:") {
		t.Errorf("ScopedKeyer LayoutKey should be prefixed: %s", lk)
	}

	ak := scoped.AnchorKey("layout123", AnchorKeyOpts{})
	if !strings.HasPrefix(ak, "wall:abc:anchor:") {
		t.Errorf("ScopedKeyer AnchorKey should be prefixed: %s", ak)
	}

	// Scoping must not change the inner key
	if lk != "wall:abc:"+inner.LayoutKey("params123", LayoutKeyOpts{}) {
		t.Error("ScopedKeyer should only prepend the prefix")
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.LayoutKey("params123", LayoutKeyOpts{})
	if !strings.HasPrefix(key, "prefix:layout:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "schedule")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Get before Set should miss")
	}

	// Round-trip
	if err := c.Set(ctx, "schedule", []byte(`{"panels":3}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "schedule")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Get after Set should hit")
	}
	if string(data) != `{"panels":3}` {
		t.Errorf("Get returned %q", data)
	}

	// Delete
	if err := c.Delete(ctx, "schedule"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "schedule")
	if hit {
		t.Error("Get after Delete should miss")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "schedule"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	// Already-expired entry reads as a miss
	if err := c.Set(ctx, "stale", []byte("old"), -time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, err := c.Get(ctx, "stale")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Expired entry should read as a miss")
	}

	// Zero TTL never expires
	if err := c.Set(ctx, "pinned", []byte("keep"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "pinned")
	if !hit {
		t.Error("Zero-TTL entry should not expire")
	}
}

func TestFileCacheStatsAndSweep(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if err := c.Set(ctx, "live", []byte("a"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := c.Set(ctx, "dead", []byte("b"), -time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	entries, size, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if entries != 2 {
		t.Errorf("Stats entries = %d, want 2", entries)
	}
	if size == 0 {
		t.Error("Stats size should be nonzero")
	}

	removed, err := c.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep error: %v", err)
	}
	if removed != 1 {
		t.Errorf("Sweep removed %d, want 1", removed)
	}

	entries, _, _ = c.Stats()
	if entries != 1 {
		t.Errorf("Stats after Sweep = %d entries, want 1", entries)
	}

	// Clear drops everything but keeps the directory usable
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	entries, _, _ = c.Stats()
	if entries != 0 {
		t.Errorf("Stats after Clear = %d entries, want 0", entries)
	}
	if err := c.Set(ctx, "again", []byte("c"), time.Hour); err != nil {
		t.Errorf("Set after Clear: %v", err)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrUnavailable)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrUnavailable) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrUnavailable
	})
	if err != ErrUnavailable {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
