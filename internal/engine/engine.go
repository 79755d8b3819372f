// Package engine provides the core database engine implementation for the
// Ignite storage system.
//
// The engine serves as the central coordinator and entry point for all
// database operations. It orchestrates four subsystems built specifically
// for a log-structured, Bitcask-style store:
//   - record: the self-delimited on-disk encoding for Set/Remove mutations
//   - writer/readerset: append-only access to the currently active segment
//     and cached random-access readers over every segment on disk
//   - index: the in-memory hash table mapping live keys to their location
//   - compaction: periodic rewriting of live data into fresh segments
//
// The engine is single-threaded with respect to mutation: exactly one
// mutex serializes Open, Set, Get, Remove and compaction, matching the
// concurrency model external collaborators (the server, the thread pool)
// are required to respect. It uses atomic operations for lifecycle state so
// Close is safe to call concurrently with a caller racing to finish an
// in-flight operation.
package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ignitedb/ignite/internal/compaction"
	"github.com/ignitedb/ignite/internal/index"
	"github.com/ignitedb/ignite/internal/kvengine"
	"github.com/ignitedb/ignite/internal/readerset"
	"github.com/ignitedb/ignite/internal/record"
	"github.com/ignitedb/ignite/internal/recovery"
	"github.com/ignitedb/ignite/internal/writer"
	ignerrors "github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/filesys"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/options"
	"github.com/ignitedb/ignite/pkg/segio"
	"go.uber.org/zap"
)

// ErrEngineClosed is returned when attempting to perform operations on a
// closed engine.
var ErrEngineClosed = errors.New("operation failed: cannot access closed engine")

// Engine is the main database engine that coordinates all subsystems. It is
// the primary implementation of the KvsEngine contract external
// collaborators (the server, the CLI) are written against.
type Engine struct {
	options *options.Options
	log     *zap.SugaredLogger

	segmentDir string
	prefix     string

	mu      sync.Mutex
	closed  atomic.Bool
	index   *index.Index
	readers *readerset.Set
	active  *writer.Writer
	waste   uint64

	stopCompactor chan struct{}
	compactorDone chan struct{}
}

// Config holds the parameters needed to initialize a new Engine instance.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New opens (and, if necessary, creates) an Engine rooted at
// config.Options.DataDir, replaying every existing segment to rebuild the
// index before accepting writes.
func New(config *Config) (*Engine, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, fmt.Errorf("engine: invalid configuration")
	}

	opts := config.Options
	log := config.Logger
	segmentDir := filepath.Join(opts.DataDir, opts.SegmentOptions.Directory)
	prefix := opts.SegmentOptions.Prefix

	if err := filesys.CreateDir(segmentDir, 0755, true); err != nil {
		return nil, ignerrors.ClassifyDirectoryCreationError(err, segmentDir)
	}
	if err := kvengine.EnsureSentinel(opts.DataDir, kvengine.KindIgnite); err != nil {
		return nil, err
	}

	result, err := recovery.Run(segmentDir, prefix, logger.Named(log, "recovery"))
	if err != nil {
		return nil, err
	}

	// Continue appending to the highest-numbered segment found rather than
	// rotating on every restart: segments have no size cap of their own,
	// only compaction ever seals one and starts a new one.
	activeSegment := result.MaxSegment
	activePath := segio.Path(segmentDir, activeSegment, prefix)
	activeWriter, err := writer.Open(activePath, activeSegment, logger.Named(log, "writer"))
	if err != nil {
		result.Readers.Close()
		return nil, fmt.Errorf("engine: open active segment %d: %w", activeSegment, err)
	}
	if err := result.Readers.Install(activeSegment, activePath); err != nil {
		activeWriter.Close()
		result.Readers.Close()
		return nil, fmt.Errorf("engine: install reader for active segment %d: %w", activeSegment, err)
	}

	e := &Engine{
		options:       opts,
		log:           log,
		segmentDir:    segmentDir,
		prefix:        prefix,
		index:         result.Index,
		readers:       result.Readers,
		active:        activeWriter,
		waste:         result.Waste,
		stopCompactor: make(chan struct{}),
		compactorDone: make(chan struct{}),
	}

	if opts.CompactInterval > 0 {
		go e.runCompactionLoop(opts.CompactInterval)
	} else {
		close(e.compactorDone)
	}

	// Recovered waste may already sit above the threshold — e.g. a process
	// was killed right after a write pushed it over but before the
	// synchronous compaction that write would have triggered completed.
	// Open must not wait for the next Set/Remove to notice that.
	e.mu.Lock()
	compactErr := e.maybeCompactLocked()
	e.mu.Unlock()
	if compactErr != nil {
		e.Close()
		return nil, fmt.Errorf("engine: compaction on open: %w", compactErr)
	}

	log.Infow("engine opened", "dataDir", opts.DataDir, "activeSegment", e.active.Segment(), "liveKeys", e.index.Len(), "waste", e.waste)
	return e, nil
}

// Set installs value under key, appending a Set record to the active
// segment and superseding any prior location for key in the index. If the
// resulting waste crosses the configured threshold, a synchronous
// compaction runs before Set returns.
func (e *Engine) Set(key string, value []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed.Load() {
		return ErrEngineClosed
	}

	encoded, err := record.Encode(record.NewSet(key, value))
	if err != nil {
		return ignerrors.NewCodecError(err, "encode set record")
	}

	begin, end, err := e.active.Append(encoded)
	if err != nil {
		return ignerrors.NewStorageError(err, ignerrors.ErrorCodeIO, "failed to append set record")
	}

	evicted := e.index.Put(key, index.RecordPointer{
		SegmentID: e.active.Segment(),
		Offset:    begin,
		Length:    uint32(end - begin),
	})
	e.waste += uint64(evicted)

	return e.maybeCompactLocked()
}

// Get retrieves the current value for key. It returns ignerrors.ErrKeyNotFound
// wrapped appropriately when no live entry exists.
func (e *Engine) Get(key string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	loc, ok := e.index.Get(key)
	if !ok {
		return nil, ignerrors.ErrKeyNotFound
	}

	rec, err := e.readers.Get(loc.SegmentID, loc.Offset, loc.Length, key)
	if err != nil {
		return nil, ignerrors.NewCodecError(err, "decode set record").WithDetail("key", key)
	}
	if !rec.IsSet() {
		return nil, ignerrors.ErrUnknownCommandType
	}
	return rec.Value, nil
}

// Remove deletes key. It returns ignerrors.ErrKeyNotFound if key has no live
// entry, matching the reference store's behavior of refusing to log a
// tombstone for a key that was never live.
func (e *Engine) Remove(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed.Load() {
		return ErrEngineClosed
	}

	if _, ok := e.index.Get(key); !ok {
		return ignerrors.ErrKeyNotFound
	}

	encoded, err := record.Encode(record.NewRemove(key))
	if err != nil {
		return ignerrors.NewCodecError(err, "encode remove record")
	}

	begin, end, err := e.active.Append(encoded)
	if err != nil {
		return ignerrors.NewStorageError(err, ignerrors.ErrorCodeIO, "failed to append remove record")
	}

	evictedLength, _ := e.index.Delete(key)
	e.waste += uint64(evictedLength)
	e.waste += uint64(end - begin)

	return e.maybeCompactLocked()
}

// maybeCompactLocked runs a synchronous compaction pass if accumulated
// waste has crossed the configured threshold. Callers must already hold mu.
func (e *Engine) maybeCompactLocked() error {
	if e.waste < e.options.WasteThreshold {
		return nil
	}
	return e.compactLocked()
}

func (e *Engine) compactLocked() error {
	result, err := compaction.Run(e.segmentDir, e.prefix, e.index, e.readers, e.active.Segment(), logger.Named(e.log, "compaction"))
	if err != nil {
		return fmt.Errorf("engine: compaction: %w", err)
	}
	e.active = result.Writer
	e.waste = 0
	return nil
}

// runCompactionLoop compacts on every tick if any waste has accumulated,
// even below the threshold, so a store that goes idle after writes that
// never crossed it still eventually reclaims space.
func (e *Engine) runCompactionLoop(interval time.Duration) {
	defer close(e.compactorDone)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-e.stopCompactor:
			return
		case <-ticker.C:
			e.mu.Lock()
			if !e.closed.Load() && e.waste > 0 {
				if err := e.compactLocked(); err != nil {
					e.log.Errorw("background compaction failed", "error", err)
				}
			}
			e.mu.Unlock()
		}
	}
}

// Close gracefully shuts down the engine, stopping the background
// compactor and releasing every open file handle.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}

	select {
	case <-e.compactorDone:
	default:
		close(e.stopCompactor)
		<-e.compactorDone
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var firstErr error
	if err := e.active.Close(); err != nil {
		firstErr = err
	}
	if err := e.readers.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := e.index.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Waste reports the engine's current estimate of reclaimable bytes, used by
// tests asserting compaction triggers.
func (e *Engine) Waste() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.waste
}
