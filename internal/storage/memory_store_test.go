package storage

import (
	"testing"
	"time"
)

func TestMemoryStoreExpiresEntries(t *testing.T) {
	store, err := NewStore("memory", "", Options{EntryTTL: time.Minute, CleanupInterval: time.Minute})
	if err != nil {
		t.Fatalf("NewStore memory: %v", err)
	}
	mem := store.(*memoryStore)

	clock := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)
	mem.now = func() time.Time { return clock }
	mem.swept = clock

	if err := mem.MarkBroken("https://i.redd.it/gone.png"); err != nil {
		t.Fatalf("MarkBroken: %v", err)
	}
	if broken, _ := mem.IsBroken("https://i.redd.it/gone.png"); !broken {
		t.Fatalf("expected url to be broken")
	}

	clock = clock.Add(2 * time.Minute)
	if broken, _ := mem.IsBroken("https://i.redd.it/gone.png"); broken {
		t.Fatalf("expected entry to expire")
	}
	if len(mem.entries) != 0 {
		t.Fatalf("expected sweep to drop expired entry, %d left", len(mem.entries))
	}
}

func TestMemoryStoreIgnoresBlankURL(t *testing.T) {
	mem := newMemoryStore(normalizeOptions(Options{}))
	if err := mem.MarkBroken(" "); err != nil {
		t.Fatalf("MarkBroken blank: %v", err)
	}
	if len(mem.entries) != 0 {
		t.Fatalf("blank url should not be stored")
	}
}
