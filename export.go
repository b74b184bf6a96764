// export.go: TCP server multiplexing remote consumers onto local readers
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0

package eye

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/podo-os/eye/internal/wire"
)

// dispatchJob is one decoded request plus the channel its response is
// delivered back on; connHandlers never touch reader state directly, only
// the single dispatchLoop goroutine does, giving the §9 single-threaded
// dispatch assumption the export reference counter relies on.
type dispatchJob struct {
	req    wire.Request
	respCh chan wire.Response
}

// exportServer is the Export Server, §4.G: a TCP listener whose connection
// handlers forward decoded requests to one serializing dispatch goroutine.
type exportServer struct {
	readers map[string]Reader // pre-filtered to IsExport() == true

	alive    *AliveFlag
	listener net.Listener

	jobs chan dispatchJob
	done chan struct{}

	counts map[string]int // dispatchLoop-owned, no lock needed

	connsMu sync.Mutex
	conns   map[net.Conn]struct{}
	active  atomic.Int32

	acceptWg   sync.WaitGroup
	dispatchWg sync.WaitGroup
}

func newExportServer(readers map[string]Reader) *exportServer {
	exportable := make(map[string]Reader)
	for name, r := range readers {
		if r.IsExport() {
			exportable[name] = r
		}
	}
	return &exportServer{
		readers: exportable,
		alive:   NewAliveFlag(false),
		jobs:    make(chan dispatchJob, 64),
		done:    make(chan struct{}),
		counts:  make(map[string]int),
		conns:   make(map[net.Conn]struct{}),
	}
}

func (s *exportServer) IsRunning() bool { return s.alive.IsRunning() }
func (s *exportServer) Busy() bool      { return s.active.Load() > 0 }

// Start is idempotent (AliveFlag.Start's AlreadyRunning is swallowed by the
// Driver, which is the only caller, per hibernate/wake_up's idempotency).
func (s *exportServer) Start() error {
	if err := s.alive.Start(); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", wire.Port))
	if err != nil {
		s.alive.Stop()
		return newErr(KindIO, "export.listen", err)
	}
	s.listener = ln

	s.acceptWg.Add(1)
	go s.acceptLoop()
	s.dispatchWg.Add(1)
	go s.dispatchLoop()
	return nil
}

func (s *exportServer) acceptLoop() {
	defer s.acceptWg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.alive.IsRunning() {
				return
			}
			log.Error().Err(err).Msg("export accept failed")
			continue
		}
		s.connsMu.Lock()
		s.conns[conn] = struct{}{}
		s.connsMu.Unlock()
		s.active.Add(1)

		s.acceptWg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *exportServer) handleConn(conn net.Conn) {
	defer s.acceptWg.Done()
	defer s.active.Add(-1)
	defer func() {
		s.connsMu.Lock()
		delete(s.conns, conn)
		s.connsMu.Unlock()
		conn.Close()
	}()

	for {
		req, err := wire.ReadRequest(conn)
		if err != nil {
			return
		}

		respCh := make(chan wire.Response, 1)
		select {
		case s.jobs <- dispatchJob{req: req, respCh: respCh}:
		case <-s.done:
			return
		}

		var resp wire.Response
		select {
		case resp = <-respCh:
		case <-s.done:
			return
		}

		if err := wire.WriteResponse(conn, resp); err != nil {
			return
		}
	}
}

// dispatchLoop is the sole goroutine that ever touches s.counts or calls
// Start/Stop/Get on an exported reader.
func (s *exportServer) dispatchLoop() {
	defer s.dispatchWg.Done()
	for {
		select {
		case job := <-s.jobs:
			job.respCh <- s.dispatch(job.req)
		case <-s.done:
			return
		}
	}
}

func (s *exportServer) dispatch(req wire.Request) wire.Response {
	reader, ok := s.readers[req.Reader]
	if !ok {
		name := req.Reader
		return wire.Response{Kind: wire.ResponseNoSuchReader, NoSuchReader: &name}
	}

	switch req.Typ {
	case wire.RequestStart:
		s.counts[req.Reader]++
		if err := reader.Start(); err != nil && !IsKind(err, KindAlreadyRunning) {
			log.Error().Err(err).Str("reader", req.Reader).Msg("export start failed")
		}
		return wire.Response{Kind: wire.ResponseAck}

	case wire.RequestStop:
		c := s.counts[req.Reader]
		if c > 0 {
			c--
		}
		s.counts[req.Reader] = c
		if c == 0 {
			if err := reader.Stop(); err != nil {
				log.Error().Err(err).Str("reader", req.Reader).Msg("export stop failed")
			}
		}
		return wire.Response{Kind: wire.ResponseAck}

	case wire.RequestGet:
		frame, err := reader.Get(nil)
		if err != nil {
			msg := err.Error()
			return wire.Response{Kind: wire.ResponseFrame, FrameErr: &msg}
		}
		defer frame.Close()
		wf := frameToWire(frame)
		return wire.Response{Kind: wire.ResponseFrame, Frame: &wf}

	default:
		msg := fmt.Sprintf("unknown request type %d", req.Typ)
		return wire.Response{Kind: wire.ResponseFrame, FrameErr: &msg}
	}
}

// Stop closes the listener, forces every open connection closed, and joins
// both the accept/connection goroutines and the dispatch goroutine.
func (s *exportServer) Stop() error {
	if !s.alive.IsRunning() {
		return nil
	}
	s.alive.Stop()
	if s.listener != nil {
		s.listener.Close()
	}

	s.connsMu.Lock()
	for c := range s.conns {
		c.Close()
	}
	s.connsMu.Unlock()

	s.acceptWg.Wait()
	close(s.done)
	s.dispatchWg.Wait()
	s.done = make(chan struct{})
	return nil
}
