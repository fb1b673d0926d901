package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"
)

// Badger is a KV backed by a Badger database.
type Badger struct {
	db     *badger.DB
	opts   Options
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool

	lsmSize     prometheus.Gauge
	vlogSize    prometheus.Gauge
	gcRewrites  prometheus.Counter
	gcRewritten uint64
}

var _ KV = (*Badger)(nil)

// OpenBadger opens or creates the database described by opts.
func OpenBadger(opts Options, logger *slog.Logger) (*Badger, error) {
	if opts.Dir == "" && !opts.InMemory {
		return nil, errors.New("storage: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	bopts := badger.DefaultOptions(opts.Dir).
		WithInMemory(opts.InMemory).
		WithSyncWrites(opts.SyncWrites).
		WithNumVersionsToKeep(1).
		WithMemTableSize(8 << 20).
		WithLogger(badgerLogger{logger: logger.With("component", "badger")})
	if opts.BlockCacheSize > 0 {
		bopts = bopts.WithBlockCacheSize(opts.BlockCacheSize)
	}
	if opts.ValueLogFileSize > 0 {
		bopts = bopts.WithValueLogFileSize(opts.ValueLogFileSize)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		if strings.Contains(err.Error(), "Cannot acquire directory lock") {
			return nil, fmt.Errorf("%w: %s", ErrLocked, opts.Dir)
		}
		return nil, fmt.Errorf("storage: open %s: %w", opts.Dir, err)
	}

	logger.Debug("session database opened", "dir", opts.Dir, "in_memory", opts.InMemory)
	return &Badger{db: db, opts: opts, logger: logger}, nil
}

// Get returns a copy of the value stored under key.
func (b *Badger) Get(_ context.Context, key []byte) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrClosed
	}

	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrKeyNotFound
	}
	return value, err
}

// Set stores value under key, replacing any previous value.
func (b *Badger) Set(_ context.Context, key, value []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// Delete removes key.
func (b *Badger) Delete(_ context.Context, key []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// Size returns the on-disk size of the LSM tree and the value log.
func (b *Badger) Size() (lsm, vlog int64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return 0, 0
	}
	return b.db.Size()
}

// RegisterMetrics registers size gauges and a value log rewrite counter
// with reg.
func (b *Badger) RegisterMetrics(reg prometheus.Registerer) error {
	b.lsmSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ofchat",
		Subsystem: "session_db",
		Name:      "lsm_size_bytes",
		Help:      "Size of the session database LSM tree in bytes.",
	})
	b.vlogSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ofchat",
		Subsystem: "session_db",
		Name:      "value_log_size_bytes",
		Help:      "Size of the session database value log in bytes.",
	})
	b.gcRewrites = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ofchat",
		Subsystem: "session_db",
		Name:      "value_log_rewrites_total",
		Help:      "Value log files rewritten to reclaim space.",
	})

	for _, c := range []prometheus.Collector{b.lsmSize, b.vlogSize, b.gcRewrites} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	b.UpdateMetrics()
	return nil
}

// UpdateMetrics refreshes the size gauges.
func (b *Badger) UpdateMetrics() {
	if b.lsmSize == nil {
		return
	}
	lsm, vlog := b.Size()
	b.lsmSize.Set(float64(lsm))
	b.vlogSize.Set(float64(vlog))
}

// compact rewrites value log files until none is worth rewriting and
// returns how many were rewritten.
func (b *Badger) compact() (int, error) {
	if b.opts.InMemory || b.opts.GCDiscardRatio <= 0 {
		return 0, nil
	}
	n := 0
	for {
		err := b.db.RunValueLogGC(b.opts.GCDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}

// Close reclaims value log space and closes the database. Calling it more
// than once is safe.
func (b *Badger) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	rewritten, err := b.compact()
	if err != nil {
		b.logger.Warn("session database compaction failed", "error", err)
	}
	if rewritten > 0 {
		b.gcRewritten += uint64(rewritten)
		if b.gcRewrites != nil {
			b.gcRewrites.Add(float64(rewritten))
		}
		b.logger.Debug("session database compacted", "rewritten", rewritten)
	}

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("storage: close: %w", err)
	}
	return nil
}

// badgerLogger routes Badger's log lines to slog. Badger's info output is
// routine and is logged at debug.
type badgerLogger struct {
	logger *slog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
