package cache

import (
	"strings"
	"testing"
	"time"
)

func TestCacheKey(t *testing.T) {
	a := CacheKey("https://data.example.gov/api/facts/1")
	b := CacheKey("https://data.example.gov/api/facts/2")

	if a == b {
		t.Error("different URLs must produce different keys")
	}
	if a != CacheKey("https://data.example.gov/api/facts/1") {
		t.Error("keys must be stable for the same URL")
	}
	if !strings.HasPrefix(a, "attest:v1:") {
		t.Errorf("key missing version prefix: %s", a)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("unexpected hit for missing key")
	}

	if err := c.Set("k", []byte("payload"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "payload" {
		t.Errorf("Get = (%q, %t)", val, found)
	}

	_ = c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("key survived Delete")
	}
}

func TestDiskCache(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("payload"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "payload" {
		t.Errorf("Get = (%q, %t)", val, found)
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("payload"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expired entry must not be served")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	// Write through the disk layer only, simulating a previous run.
	disk := NewDiskCache(dir, time.Minute)
	if err := disk.Set("k", []byte("payload"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get("k")
	if !found || string(val) != "payload" {
		t.Fatalf("Get = (%q, %t), want disk hit", val, found)
	}

	// After promotion the memory layer serves it directly.
	if val, found := c.memory.Get("k"); !found || string(val) != "payload" {
		t.Error("disk hit was not promoted to memory")
	}
}

func TestLayeredCache_SetWritesBothLayers(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	if err := c.Set("k", []byte("payload"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found := c.memory.Get("k"); !found {
		t.Error("memory layer missing entry")
	}
	if _, found := c.disk.Get("k"); !found {
		t.Error("disk layer missing entry")
	}

	_ = c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("key survived Delete")
	}
}
