// Package kvengine defines the KvsEngine contract that both the native
// ignite engine and the pebble-backed alternate engine satisfy, plus the
// sentinel-file bookkeeping that stops a data directory from being opened
// by the wrong backend.
package kvengine

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ignitedb/ignite/pkg/errors"
)

// KvsEngine is the three-operation contract every storage backend exposes
// to collaborators (the server, the CLI). It deliberately says nothing
// about concurrency beyond what §5's "single mutual-exclusion discipline"
// requires of implementations: callers may invoke it from multiple
// goroutines, but an implementation serializes internally.
type KvsEngine interface {
	Set(key string, value []byte) error
	Get(key string) ([]byte, error)
	Remove(key string) error
	Close() error
}

// Kind names one of the KvsEngine implementations available. It is the
// value written to and read from the .engine-type sentinel file.
type Kind string

const (
	KindIgnite Kind = "ignite"
	KindSled   Kind = "sled"
)

const sentinelFileName = ".engine-type"

// EnsureSentinel checks the .engine-type file in dir, if any, against want.
// On a fresh directory it creates the sentinel recording want. On a
// directory already marked with a different kind, it returns
// errors.ErrChangeEngine.
func EnsureSentinel(dir string, want Kind) error {
	path := filepath.Join(dir, sentinelFileName)

	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return os.WriteFile(path, []byte(want), 0644)
	}
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read engine-type sentinel").WithPath(path)
	}

	existing := Kind(strings.TrimSpace(string(contents)))
	if existing != want {
		return errors.NewValidationError(nil, errors.ErrorCodeChangeEngine, "cannot change engine type after initialization").
			WithRule("engine_type_immutable").
			WithDetail("existing", string(existing)).
			WithDetail("requested", string(want))
	}
	return nil
}
