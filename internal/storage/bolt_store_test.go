package storage

import (
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"
)

func TestBoltStoreMarksAndExpiresBrokenMedia(t *testing.T) {
	opts := Options{
		EntryTTL:        time.Minute,
		CleanupInterval: time.Hour,
	}

	storeRaw, err := openBolt(filepath.Join(t.TempDir(), "nested", "cache.db"), opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	clock := time.Date(2026, time.January, 2, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }
	store.lastCleanup.Store(clock.Unix())

	const url = "https://i.redd.it/gone.png"

	broken, err := store.IsBroken(url)
	if err != nil || broken {
		t.Fatalf("expected unknown url, broken=%v err=%v", broken, err)
	}

	if err := store.MarkBroken(url); err != nil {
		t.Fatalf("MarkBroken: %v", err)
	}

	broken, err = store.IsBroken(url)
	if err != nil || !broken {
		t.Fatalf("expected url marked broken, got broken=%v err=%v", broken, err)
	}

	clock = clock.Add(2 * time.Minute)
	broken, err = store.IsBroken(url)
	if err != nil {
		t.Fatalf("IsBroken after expiry: %v", err)
	}
	if broken {
		t.Fatalf("expected entry to expire")
	}
}

func TestBoltStoreSweepRemovesExpiredEntries(t *testing.T) {
	storeRaw, err := openBolt(filepath.Join(t.TempDir(), "cache.db"), Options{EntryTTL: time.Second, CleanupInterval: time.Second})
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	clock := time.Now()
	store.now = func() time.Time { return clock }
	if err := store.MarkBroken("https://v.redd.it/x"); err != nil {
		t.Fatalf("MarkBroken: %v", err)
	}

	clock = clock.Add(10 * time.Second)
	if err := store.sweep(clock); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	var count int
	_ = store.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket([]byte(brokenBucket)).Stats().KeyN
		return nil
	})
	if count != 0 {
		t.Fatalf("expected sweep to remove expired entry, %d left", count)
	}
}

func TestBoltStoreIgnoresBlankURL(t *testing.T) {
	storeRaw, err := openBolt(filepath.Join(t.TempDir(), "cache.db"), normalizeOptions(Options{}))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer storeRaw.Close()

	if err := storeRaw.MarkBroken("  "); err != nil {
		t.Fatalf("MarkBroken blank: %v", err)
	}
	if broken, _ := storeRaw.IsBroken(""); broken {
		t.Fatalf("blank url should never be broken")
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkBroken("x"); err != nil {
		t.Fatalf("noop store MarkBroken: %v", err)
	}
	if broken, _ := store.IsBroken("x"); broken {
		t.Fatalf("noop store should never report broken")
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for missing path")
	}
}
