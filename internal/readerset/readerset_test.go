package readerset

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ignitedb/ignite/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeSegment(t *testing.T, path string, entries ...record.Record) []record.Entry {
	t.Helper()
	var all []byte
	var out []record.Entry
	for _, e := range entries {
		encoded, err := record.Encode(e)
		require.NoError(t, err)
		begin := int64(len(all))
		all = append(all, encoded...)
		out = append(out, record.Entry{Begin: begin, End: int64(len(all)), Record: e})
	}
	require.NoError(t, os.WriteFile(path, all, 0644))
	return out
}

func TestGetDecodesExactRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data_0.txt")
	entries := writeSegment(t, path,
		record.NewSet("a", []byte("1")),
		record.NewSet("b", []byte("2")),
	)

	s := New(zap.NewNop().Sugar())
	require.NoError(t, s.Install(0, path))
	t.Cleanup(func() { s.Close() })

	got, err := s.Get(0, entries[1].Begin, uint32(entries[1].End-entries[1].Begin), "b")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Key)
	assert.Equal(t, []byte("2"), got.Value)
}

func TestGetUnknownSegmentErrors(t *testing.T) {
	s := New(zap.NewNop().Sugar())
	_, err := s.Get(99, 0, 1, "a")
	assert.Error(t, err)
}

func TestSectionReadTerminatesAtLength(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data_0.txt")
	entries := writeSegment(t, path, record.NewSet("a", []byte("1")))

	s := New(zap.NewNop().Sugar())
	require.NoError(t, s.Install(0, path))
	t.Cleanup(func() { s.Close() })

	section, err := s.Section(0, entries[0].Begin, uint32(entries[0].End-entries[0].Begin), "a")
	require.NoError(t, err)

	var buf []byte
	var readErr error
	for {
		chunk := make([]byte, 4)
		n, err := section.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if err != nil {
			readErr = err
			break
		}
	}
	assert.ErrorIs(t, readErr, io.EOF)
	assert.Equal(t, int(entries[0].End-entries[0].Begin), len(buf))
}

func TestDropClosesAndForgets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data_0.txt")
	writeSegment(t, path, record.NewSet("a", []byte("1")))

	s := New(zap.NewNop().Sugar())
	require.NoError(t, s.Install(0, path))
	require.NoError(t, s.Drop(0))

	_, err := s.Get(0, 0, 1, "a")
	assert.Error(t, err)
}
