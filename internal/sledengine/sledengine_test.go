package sledengine

import (
	"path/filepath"
	"testing"

	"github.com/ignitedb/ignite/internal/kvengine"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenSetGetRemove(t *testing.T) {
	dir := t.TempDir()
	e, err := Open(dir, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.Set("k", []byte("v")))

	value, err := e.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)

	require.NoError(t, e.Remove("k"))

	_, err = e.Get("k")
	assert.ErrorIs(t, err, errors.ErrKeyNotFound)
}

func TestOpenRejectsMismatchedEngineType(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, kvengine.EnsureSentinel(dir, kvengine.KindIgnite))

	_, err := Open(dir, zap.NewNop().Sugar())
	require.Error(t, err)
	assert.True(t, errors.IsChangeEngineError(err))
}

func TestRemoveAbsentKeyFails(t *testing.T) {
	dir := t.TempDir()
	e, err := Open(filepath.Join(dir), zap.NewNop().Sugar())
	require.NoError(t, err)
	defer e.Close()

	err = e.Remove("missing")
	assert.ErrorIs(t, err, errors.ErrKeyNotFound)
}
