package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/ignitedb/ignite/pkg/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, dir string, wasteThreshold uint64) *Engine {
	t.Helper()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	opts.WasteThreshold = wasteThreshold
	opts.CompactInterval = 0

	e, err := New(&Config{Options: &opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	return e
}

// Scenario 1: set, get, remove, get.
func TestSetGetRemove(t *testing.T) {
	dir := t.TempDir()
	e := newTestEngine(t, dir, options.DefaultWasteThreshold)
	defer e.Close()

	require.NoError(t, e.Set("k", []byte("v")))

	value, err := e.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)

	require.NoError(t, e.Remove("k"))

	_, err = e.Get("k")
	assert.ErrorIs(t, err, errors.ErrKeyNotFound)
}

// Scenario 2: repeated sets to the same key survive a close/reopen cycle,
// with only the final value visible.
func TestReopenPreservesLatestValue(t *testing.T) {
	dir := t.TempDir()
	e := newTestEngine(t, dir, options.DefaultWasteThreshold)

	require.NoError(t, e.Set("1", []byte("a")))
	require.NoError(t, e.Set("1", []byte("b")))
	require.NoError(t, e.Set("1", []byte("c")))
	require.NoError(t, e.Close())

	reopened := newTestEngine(t, dir, options.DefaultWasteThreshold)
	defer reopened.Close()

	value, err := reopened.Get("1")
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), value)
}

// Scenario 3: a large volume of overwrites triggers compaction, and the
// latest value remains correct afterward.
func TestHeavyOverwriteTriggersCompaction(t *testing.T) {
	dir := t.TempDir()
	e := newTestEngine(t, dir, 2048)
	defer e.Close()

	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("%d", i)
		require.NoError(t, e.Set(key, []byte(key)))
	}
	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("%d", i)
		require.NoError(t, e.Set(key, []byte("x")))
	}

	value, err := e.Get("500")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), value)

	assert.Less(t, e.Waste(), uint64(2048), "compaction should have reclaimed most of the superseded records")
}

// Scenario 4: an engine dropped without an explicit Close still recovers
// its last written value on reopen, simulating a crash.
func TestCrashWithoutCloseStillRecovers(t *testing.T) {
	dir := t.TempDir()
	e := newTestEngine(t, dir, options.DefaultWasteThreshold)
	require.NoError(t, e.Set("k", []byte("v")))
	// No Close call: the active segment's bytes are already flushed by
	// Append, so a reopen must see them regardless.

	reopened := newTestEngine(t, dir, options.DefaultWasteThreshold)
	defer reopened.Close()

	value, err := reopened.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
}

func TestRemoveAbsentKeyFails(t *testing.T) {
	dir := t.TempDir()
	e := newTestEngine(t, dir, options.DefaultWasteThreshold)
	defer e.Close()

	err := e.Remove("missing")
	assert.ErrorIs(t, err, errors.ErrKeyNotFound)
}

func TestGetOnEmptyDirectoryReturnsKeyNotFound(t *testing.T) {
	dir := t.TempDir()
	e := newTestEngine(t, dir, options.DefaultWasteThreshold)
	defer e.Close()

	_, err := e.Get("anything")
	assert.ErrorIs(t, err, errors.ErrKeyNotFound)
}

func TestOperationsAfterCloseFail(t *testing.T) {
	dir := t.TempDir()
	e := newTestEngine(t, dir, options.DefaultWasteThreshold)
	require.NoError(t, e.Close())

	assert.ErrorIs(t, e.Set("k", []byte("v")), ErrEngineClosed)
	_, err := e.Get("k")
	assert.ErrorIs(t, err, ErrEngineClosed)
	assert.ErrorIs(t, e.Remove("k"), ErrEngineClosed)
	assert.ErrorIs(t, e.Close(), ErrEngineClosed)
}

func TestBackgroundCompactionLoopReclaimsIdleWaste(t *testing.T) {
	dir := t.TempDir()
	opts := options.NewDefaultOptions()
	opts.DataDir = dir
	opts.WasteThreshold = 64
	opts.CompactInterval = 20 * time.Millisecond

	e, err := New(&Config{Options: &opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	defer e.Close()

	for i := 0; i < 20; i++ {
		require.NoError(t, e.Set("k", []byte(fmt.Sprintf("value-%d", i))))
	}

	require.Eventually(t, func() bool {
		return e.Waste() == 0
	}, time.Second, 10*time.Millisecond)
}

// Open must trigger compaction synchronously when recovered waste already
// exceeds the configured threshold, without waiting for a subsequent
// Set/Remove call to notice.
func TestOpenCompactsWhenRecoveredWasteExceedsThreshold(t *testing.T) {
	dir := t.TempDir()

	// Populate with a high threshold so no compaction happens yet, leaving
	// plenty of superseded bytes on disk for the next Open to recover.
	e := newTestEngine(t, dir, 1<<20)
	for i := 0; i < 50; i++ {
		require.NoError(t, e.Set("k", []byte(fmt.Sprintf("value-%d", i))))
	}
	require.NoError(t, e.Close())

	reopened := newTestEngine(t, dir, 64)
	defer reopened.Close()

	assert.Equal(t, uint64(0), reopened.Waste(), "Open alone should have compacted away the recovered waste")

	value, err := reopened.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("value-49"), value)
}

func TestEngineRejectsMismatchedEngineType(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".engine-type"), []byte("sled"), 0644))

	opts := options.NewDefaultOptions()
	opts.DataDir = dir

	_, err := New(&Config{Options: &opts, Logger: zap.NewNop().Sugar()})
	require.Error(t, err)
	assert.True(t, errors.IsChangeEngineError(err))
}
