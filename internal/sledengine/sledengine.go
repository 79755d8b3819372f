// Package sledengine adapts github.com/cockroachdb/pebble, a real embedded
// LSM-tree store, to the kvengine.KvsEngine contract. It plays the role the
// reference implementation gives its Sled backend: a second, independently
// developed engine that the server and CLI can select at open time, with no
// coupling to the native engine's log-structured internals.
package sledengine

import (
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/ignitedb/ignite/internal/kvengine"
	"github.com/ignitedb/ignite/pkg/errors"
	"go.uber.org/zap"
)

// Engine wraps a *pebble.DB behind the KvsEngine contract.
type Engine struct {
	log *zap.SugaredLogger
	db  *pebble.DB
}

// Open opens (creating if necessary) a pebble store rooted at dir, after
// checking the directory's .engine-type sentinel matches "sled".
func Open(dir string, log *zap.SugaredLogger) (*Engine, error) {
	if err := kvengine.EnsureSentinel(dir, kvengine.KindSled); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "pebble")
	db, err := pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to open pebble store").WithPath(dbPath)
	}

	log.Infow("sled-compatible engine opened", "path", dbPath)
	return &Engine{log: log, db: db}, nil
}

// Set writes key to value, overwriting any prior value.
func (e *Engine) Set(key string, value []byte) error {
	if err := e.db.Set([]byte(key), value, pebble.Sync); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "pebble set failed").WithDetail("key", key)
	}
	return nil
}

// Get returns the current value for key, or errors.ErrKeyNotFound if absent.
func (e *Engine) Get(key string) ([]byte, error) {
	value, closer, err := e.db.Get([]byte(key))
	if err == pebble.ErrNotFound {
		return nil, errors.ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "pebble get failed").WithDetail("key", key)
	}
	defer closer.Close()

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Remove deletes key, or returns errors.ErrKeyNotFound if it was never set.
func (e *Engine) Remove(key string) error {
	if _, err := e.Get(key); err != nil {
		return err
	}
	if err := e.db.Delete([]byte(key), pebble.Sync); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "pebble delete failed").WithDetail("key", key)
	}
	return nil
}

// Close flushes and closes the underlying pebble store.
func (e *Engine) Close() error {
	return e.db.Close()
}
