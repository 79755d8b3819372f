package writer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestWriter(t *testing.T, path string, segment uint32) *Writer {
	t.Helper()
	w, err := Open(path, segment, zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return w
}

func TestAppendTracksPositionWithoutSeek(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data_0.txt")
	w := newTestWriter(t, path, 0)

	begin, end, err := w.Append([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), begin)
	assert.Equal(t, int64(5), end)
	assert.Equal(t, int64(5), w.Position())

	begin, end, err = w.Append([]byte("world!"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), begin)
	assert.Equal(t, int64(11), end)
}

func TestOpenResumesFromExistingFileSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data_0.txt")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0644))

	w := newTestWriter(t, path, 0)
	assert.Equal(t, int64(10), w.Position())
}

func TestRotateClosesOldAndOpensNew(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "data_0.txt")
	w := newTestWriter(t, first, 0)
	_, _, err := w.Append([]byte("x"))
	require.NoError(t, err)

	second := filepath.Join(dir, "data_1.txt")
	rotated, err := Rotate(w, second, 1, zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { rotated.Close() })

	assert.Equal(t, uint32(1), rotated.Segment())
	assert.Equal(t, int64(0), rotated.Position())

	_, err = w.Append([]byte("y"))
	assert.Error(t, err, "writing to a closed file should fail")
}
