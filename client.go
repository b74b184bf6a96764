// client.go: remote producer speaking to another process's export server
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0

package eye

import (
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/podo-os/eye/internal/wire"
)

// firstMeta is the one-shot rendezvous result §9 describes: the client
// producer doesn't know its stream's metadata until the server's first
// frame arrives, so Start blocks on it.
type firstMeta struct {
	meta VideoMeta
	err  error
}

// clientReader is a Reader whose producer is a TCP request/response loop
// against another process's Export Server (§4.D). It never exports itself.
type clientReader struct {
	name string
	ip   string

	ring  *Ring
	alive *AliveFlag

	firstMetaCh chan firstMeta
	metaOnce    sync.Once

	mu      sync.Mutex
	meta    VideoMeta
	conn    net.Conn
	wg      sync.WaitGroup
	loopErr error
}

func newClientReader(name, ip string) *clientReader {
	return &clientReader{
		name:        name,
		ip:          ip,
		ring:        NewRing(NewAliveFlag(false), 2),
		alive:       NewAliveFlag(false),
		firstMetaCh: make(chan firstMeta, 1),
	}
}

func (r *clientReader) IsExport() bool  { return false }
func (r *clientReader) IsRunning() bool { return r.alive.IsRunning() }

func (r *clientReader) Meta() VideoMeta {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.meta
}

// Start dials the export server, sends Start{reader=name}, and blocks until
// either the first frame's meta arrives or the producer loop fails.
func (r *clientReader) Start() error {
	if err := r.alive.Start(); err != nil {
		return err
	}

	addr := net.JoinHostPort(r.ip, strconv.Itoa(wire.Port))
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		r.alive.Stop()
		return newErr(KindIO, "client.dial", err)
	}

	if err := wire.WriteRequest(conn, wire.Request{Reader: r.name, Typ: wire.RequestStart}); err != nil {
		conn.Close()
		r.alive.Stop()
		return newErr(KindIO, "client.start", err)
	}
	resp, err := wire.ReadResponse(conn)
	if err != nil {
		conn.Close()
		r.alive.Stop()
		return newErr(KindIO, "client.start", err)
	}
	if resp.Kind == wire.ResponseNoSuchReader {
		conn.Close()
		r.alive.Stop()
		return newErr(KindProtocol, "client.start", fmt.Errorf("no such reader %q on %s", r.name, r.ip))
	}

	r.mu.Lock()
	r.conn = conn
	r.mu.Unlock()
	r.ring.alive.Start()

	r.wg.Add(1)
	go r.run()

	first := <-r.firstMetaCh
	if first.err != nil {
		r.wg.Wait()
		return first.err
	}
	r.mu.Lock()
	r.meta = first.meta
	r.mu.Unlock()
	return nil
}

// run is the producer loop, §4.D step 3: request/response Get in a loop,
// pushing each decoded frame into the ring by move.
func (r *clientReader) run() {
	defer r.wg.Done()

	for r.alive.IsRunning() {
		if err := wire.WriteRequest(r.conn, wire.Request{Reader: r.name, Typ: wire.RequestGet}); err != nil {
			r.fail(newErr(KindIO, "client.get", err))
			break
		}
		resp, err := wire.ReadResponse(r.conn)
		if err != nil {
			r.fail(newErr(KindIO, "client.get", err))
			break
		}
		if resp.Kind != wire.ResponseFrame || resp.Frame == nil {
			if resp.FrameErr != nil {
				r.fail(newErr(KindInternal, "client.get", fmt.Errorf("%s", *resp.FrameErr)))
			} else {
				r.fail(newErr(KindProtocol, "client.get", nil))
			}
			break
		}

		frame, err := frameFromWire(*resp.Frame)
		if err != nil {
			r.fail(newErr(KindDecode, "client.get", err))
			break
		}

		r.metaOnce.Do(func() {
			r.firstMetaCh <- firstMeta{meta: frame.Meta}
		})

		if err := r.ring.PushMove(frame.Image, frame.Timestamp, false); err != nil {
			r.fail(err)
			break
		}
	}

	r.shutdownConn()
	r.alive.Stop()
	r.ring.alive.Stop()
}

// fail records the producer error and, if it happened before any frame
// arrived, wakes up the blocked Start call with it.
func (r *clientReader) fail(err error) {
	r.mu.Lock()
	r.loopErr = err
	r.mu.Unlock()
	log.Error().Err(err).Str("reader", r.name).Msg("client producer stopped")

	r.metaOnce.Do(func() {
		r.firstMetaCh <- firstMeta{err: err}
	})
}

func (r *clientReader) shutdownConn() {
	r.mu.Lock()
	conn := r.conn
	r.conn = nil
	r.mu.Unlock()
	if conn == nil {
		return
	}
	wire.WriteRequest(conn, wire.Request{Reader: r.name, Typ: wire.RequestStop})
	conn.Close()
}

func (r *clientReader) Stop() error {
	r.alive.Stop()
	r.ring.alive.Stop()
	r.wg.Wait()

	r.mu.Lock()
	err := r.loopErr
	r.loopErr = nil
	r.mu.Unlock()
	if err != nil {
		return newErr(KindInternal, "client.stop", err)
	}
	return nil
}

func (r *clientReader) Get(in *Frame) (*Frame, error) {
	if !r.alive.IsRunning() {
		if err := r.Stop(); err != nil {
			return nil, err
		}
		return nil, newErr(KindNotRunning, "reader.get", nil)
	}
	return getFromRing(r.ring, r.Meta(), in)
}

func (r *clientReader) Close() error {
	if r.alive.IsRunning() {
		return newErr(KindAlreadyRunning, "reader.close", nil)
	}
	return nil
}
