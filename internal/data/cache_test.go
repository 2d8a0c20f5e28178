package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"pv-pipeline/internal/pipeline"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestBundleCache_GetSet(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "pv.json", "{}")
	data := writeFile(t, dir, "pv.csv", "a")

	c := NewBundleCache()
	key, err := c.Key(cfg, data)
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Fatalf("hit on empty cache")
	}

	b := &pipeline.Bundle{Name: "pv"}
	c.Set(key, b)
	got, ok := c.Get(key)
	if !ok || got != b {
		t.Fatalf("cached bundle not returned")
	}

	c.Clear()
	if _, ok := c.Get(key); ok {
		t.Fatalf("hit after Clear")
	}
}

func TestBundleCache_KeyChangesWhenDataFileChanges(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "pv.json", "{}")
	data := writeFile(t, dir, "pv.csv", "a")

	c := NewBundleCache()
	key1, err := c.Key(cfg, data)
	if err != nil {
		t.Fatalf("Key: %v", err)
	}

	// Size change guarantees a different key even when mtime granularity
	// is too coarse to notice the rewrite.
	if err := os.WriteFile(data, []byte("ab"), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	key2, err := c.Key(cfg, data)
	if err != nil {
		t.Fatalf("Key after change: %v", err)
	}
	if key1 == key2 {
		t.Fatalf("key did not change after data file edit")
	}
}

func TestBundleCache_KeyFailsOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "pv.json", "{}")

	c := NewBundleCache()
	if _, err := c.Key(cfg, filepath.Join(dir, "nope.csv")); err == nil {
		t.Fatalf("Key succeeded for a missing data file")
	}
}

func TestBundleCache_NilSafe(t *testing.T) {
	var c *BundleCache
	if _, ok := c.Get("x"); ok {
		t.Fatalf("nil cache reported a hit")
	}
	c.Set("x", &pipeline.Bundle{})
	c.Clear()
}

func TestBundleCache_ConcurrentAccess(t *testing.T) {
	c := NewBundleCache()
	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			deadline := time.Now().Add(50 * time.Millisecond)
			for time.Now().Before(deadline) {
				c.Set("k", &pipeline.Bundle{})
				c.Get("k")
			}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}
}
