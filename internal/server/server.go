// Package server exposes a KvsEngine over a newline-delimited JSON TCP
// protocol, fanning connection handling across a threadpool.ThreadPool. Its
// accept-loop shape — a listener goroutine plus a quit channel closed by
// Stop — is grounded on the broker accept loop in the retrieval pack's
// lightkafka example, adapted from a length-prefixed binary protocol to the
// simpler newline-delimited JSON shape this store's wire format uses.
package server

import (
	"bufio"
	"encoding/json"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/ignitedb/ignite/internal/kvengine"
	"github.com/ignitedb/ignite/internal/threadpool"
	"github.com/ignitedb/ignite/pkg/errors"
	"go.uber.org/zap"
)

// Op names one of the three operations a request may carry.
type Op string

const (
	OpSet    Op = "set"
	OpGet    Op = "get"
	OpRemove Op = "rm"
)

// Request is one newline-delimited JSON line a client sends.
type Request struct {
	Op    Op     `json:"op"`
	Key   string `json:"key"`
	Value []byte `json:"value,omitempty"`
}

// Response is one newline-delimited JSON line the server sends back.
type Response struct {
	OK    bool   `json:"ok"`
	Value []byte `json:"value,omitempty"`
	Found bool   `json:"found,omitempty"`
	Error string `json:"error,omitempty"`
}

// Server accepts TCP connections and serves each one against a bound
// KvsEngine, dispatching each connection to a ThreadPool as one job that
// runs until the client disconnects. With a fixed-size pool, connections
// beyond the worker count wait until a worker is free.
type Server struct {
	log    *zap.SugaredLogger
	engine kvengine.KvsEngine
	pool   threadpool.ThreadPool

	mu       sync.Mutex
	listener net.Listener
	quit     chan struct{}
	wg       sync.WaitGroup
}

// New builds a Server bound to engine, dispatching connection jobs to pool.
func New(engine kvengine.KvsEngine, pool threadpool.ThreadPool, log *zap.SugaredLogger) *Server {
	return &Server{
		log:    log,
		engine: engine,
		pool:   pool,
		quit:   make(chan struct{}),
	}
}

// ListenAndServe binds addr and runs the accept loop until Stop is called
// or the listener errors. It blocks the calling goroutine.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to bind listener").WithPath(addr)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.log.Infow("server listening", "addr", addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return nil
			default:
				s.log.Warnw("accept error", "error", err)
				continue
			}
		}

		s.wg.Add(1)
		s.pool.Spawn(func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		})
	}
}

// Stop closes the listener and waits for in-flight connections to finish.
func (s *Server) Stop() {
	close(s.quit)
	s.mu.Lock()
	if s.listener != nil {
		s.listener.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	connID := uuid.NewString()
	s.log.Debugw("connection accepted", "conn", connID, "remote", conn.RemoteAddr())

	dec := json.NewDecoder(bufio.NewReader(conn))
	enc := json.NewEncoder(conn)

	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			return
		}

		resp := s.dispatch(req)
		if err := enc.Encode(resp); err != nil {
			s.log.Warnw("failed to write response", "conn", connID, "error", err)
			return
		}
	}
}

func (s *Server) dispatch(req Request) Response {
	switch req.Op {
	case OpSet:
		if err := s.engine.Set(req.Key, req.Value); err != nil {
			return errorResponse(err)
		}
		return Response{OK: true}

	case OpGet:
		value, err := s.engine.Get(req.Key)
		if errors.IsKeyNotFound(err) {
			return Response{OK: true, Found: false}
		}
		if err != nil {
			return errorResponse(err)
		}
		return Response{OK: true, Found: true, Value: value}

	case OpRemove:
		if err := s.engine.Remove(req.Key); err != nil {
			return errorResponse(err)
		}
		return Response{OK: true}

	default:
		return errorResponse(errors.NewCommonStringError("unknown operation: " + string(req.Op)))
	}
}

func errorResponse(err error) Response {
	return Response{OK: false, Error: err.Error()}
}
