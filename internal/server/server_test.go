package server

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/ignitedb/ignite/internal/threadpool"
	"github.com/ignitedb/ignite/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeEngine is an in-memory stand-in for kvengine.KvsEngine, used so
// server tests don't depend on a real segment directory.
type fakeEngine struct {
	data map[string][]byte
}

func newFakeEngine() *fakeEngine { return &fakeEngine{data: make(map[string][]byte)} }

func (f *fakeEngine) Set(key string, value []byte) error {
	f.data[key] = value
	return nil
}

func (f *fakeEngine) Get(key string) ([]byte, error) {
	v, ok := f.data[key]
	if !ok {
		return nil, errors.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeEngine) Remove(key string) error {
	if _, ok := f.data[key]; !ok {
		return errors.ErrKeyNotFound
	}
	delete(f.data, key)
	return nil
}

func (f *fakeEngine) Close() error { return nil }

func startTestServer(t *testing.T) (addr string, stop func()) {
	t.Helper()
	eng := newFakeEngine()
	pool := threadpool.NewSharedQueue(2, zap.NewNop().Sugar())
	srv := New(eng, pool, zap.NewNop().Sugar())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr = ln.Addr().String()
	ln.Close()

	go srv.ListenAndServe(addr)
	time.Sleep(20 * time.Millisecond)

	return addr, func() {
		srv.Stop()
		pool.Close()
	}
}

func roundTrip(t *testing.T, conn net.Conn, req Request) Response {
	t.Helper()
	require.NoError(t, json.NewEncoder(conn).Encode(req))
	var resp Response
	require.NoError(t, json.NewDecoder(bufio.NewReader(conn)).Decode(&resp))
	return resp
}

func TestServerSetGetRemoveOverTCP(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	resp := roundTrip(t, conn, Request{Op: OpSet, Key: "k", Value: []byte("v")})
	assert.True(t, resp.OK)

	resp = roundTrip(t, conn, Request{Op: OpGet, Key: "k"})
	assert.True(t, resp.OK)
	assert.True(t, resp.Found)
	assert.Equal(t, []byte("v"), resp.Value)

	resp = roundTrip(t, conn, Request{Op: OpRemove, Key: "k"})
	assert.True(t, resp.OK)
}

func TestServerGetMissingKeyReportsNotFound(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	resp := roundTrip(t, conn, Request{Op: OpGet, Key: "missing"})
	assert.True(t, resp.OK)
	assert.False(t, resp.Found)
}

func TestServerUnknownOpReturnsError(t *testing.T) {
	addr, stop := startTestServer(t)
	defer stop()

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	resp := roundTrip(t, conn, Request{Op: "bogus", Key: "k"})
	assert.False(t, resp.OK)
	assert.NotEmpty(t, resp.Error)
}
