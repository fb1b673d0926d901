package storage

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned by Get for a key that was never set or has
	// been deleted.
	ErrKeyNotFound = errors.New("storage: key not found")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("storage: closed")

	// ErrLocked is returned by OpenBadger when another process holds the
	// data directory.
	ErrLocked = errors.New("storage: data directory in use by another process")
)

// KV is an embedded key-value store. Implementations are safe for
// concurrent use.
type KV interface {
	Get(ctx context.Context, key []byte) ([]byte, error)
	Set(ctx context.Context, key, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key []byte) error
	Close() error
}

// Options configures a Badger store.
type Options struct {
	// Dir holds the database files. Ignored when InMemory is set.
	Dir string

	// InMemory keeps everything in memory. Nothing survives Close.
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool

	// BlockCacheSize and ValueLogFileSize are in bytes.
	BlockCacheSize   int64
	ValueLogFileSize int64

	// GCDiscardRatio is the share of stale data a value log file must hold
	// before Close rewrites it.
	GCDiscardRatio float64
}

// DefaultOptions returns options for a durable store in dir sized for a
// handful of small records.
func DefaultOptions(dir string) Options {
	return Options{
		Dir:              dir,
		SyncWrites:       true,
		BlockCacheSize:   1 << 20,
		ValueLogFileSize: 4 << 20,
		GCDiscardRatio:   0.5,
	}
}
