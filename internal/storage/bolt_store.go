package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	brokenBucket     = "broken_media"
	expiryValueBytes = 8
)

// boltStore keeps broken media URLs in BoltDB, each with an expiry timestamp.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	entryTTL        time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(brokenBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		entryTTL:        opts.EntryTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// IsBroken reports whether url was marked broken and has not expired yet.
// Expired entries are treated as absent and left for the next sweep.
func (b *boltStore) IsBroken(url string) (bool, error) {
	key := cacheKey(url)
	if b == nil || b.db == nil || key == nil {
		return false, nil
	}

	now := b.now()
	if err := b.sweep(now); err != nil {
		return false, err
	}

	var broken bool
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(brokenBucket))
		if bucket == nil {
			return fmt.Errorf("broken media bucket missing")
		}
		expiry, ok := decodeExpiry(bucket.Get(key))
		broken = ok && expiry.After(now)
		return nil
	})
	return broken, err
}

// MarkBroken records url as failed for the configured TTL.
func (b *boltStore) MarkBroken(url string) error {
	key := cacheKey(url)
	if b == nil || b.db == nil || key == nil {
		return nil
	}

	now := b.now()
	if err := b.sweep(now); err != nil {
		return err
	}

	buf := make([]byte, expiryValueBytes)
	binary.BigEndian.PutUint64(buf, uint64(now.Add(b.entryTTL).Unix()))

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(brokenBucket))
		if bucket == nil {
			return fmt.Errorf("broken media bucket missing")
		}
		return bucket.Put(key, buf)
	})
}

// sweep deletes expired entries at most once per cleanup interval.
func (b *boltStore) sweep(now time.Time) error {
	if now.Sub(time.Unix(b.lastCleanup.Load(), 0)) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	if now.Sub(time.Unix(b.lastCleanup.Load(), 0)) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(brokenBucket))
		if bucket == nil {
			return fmt.Errorf("broken media bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			if expiry, ok := decodeExpiry(v); ok && expiry.After(now) {
				continue
			}
			if err := cursor.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func cacheKey(url string) []byte {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	return []byte(url)
}

// decodeExpiry decodes the expiry time from the stored byte slice.
func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) != expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
