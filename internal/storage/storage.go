// Package storage keeps the broken-media cache. It never stores credentials,
// tokens or listings.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// Supported backends.
const (
	TypeNone   = "none"
	TypeMemory = "memory"
	TypeBBolt  = "bbolt"
)

const (
	defaultEntryTTL        = 24 * time.Hour
	defaultCleanupInterval = 6 * time.Hour
)

// Store remembers media URLs that failed to load.
type Store interface {
	IsBroken(url string) (bool, error)
	MarkBroken(url string) error
	Close() error
}

// Options sets how long an entry counts as broken and how often expired
// entries are swept.
type Options struct {
	EntryTTL        time.Duration
	CleanupInterval time.Duration
}

// NewStore opens the backend named by typ. path is only used by bbolt.
func NewStore(typ, path string, opts Options) (Store, error) {
	opts = normalizeOptions(opts)

	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "", TypeNone:
		return noopStore{}, nil
	case TypeMemory:
		return newMemoryStore(opts), nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("storage type %q needs bbolt_path", TypeBBolt)
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q (want %s, %s or %s)", typ, TypeNone, TypeMemory, TypeBBolt)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.EntryTTL <= 0 {
		opts.EntryTTL = defaultEntryTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) IsBroken(string) (bool, error) { return false, nil }
func (noopStore) MarkBroken(string) error       { return nil }
func (noopStore) Close() error                  { return nil }
