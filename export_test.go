// export_test.go
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0

package eye

import (
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/podo-os/eye/internal/wire"
)

func dialExport(t *testing.T) net.Conn {
	t.Helper()
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(wire.Port))
	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("dial export server: %v", err)
	}
	return conn
}

func TestExportServerNoSuchReader(t *testing.T) {
	s := newExportServer(map[string]Reader{})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	conn := dialExport(t)
	defer conn.Close()

	if err := wire.WriteRequest(conn, wire.Request{Reader: "ghost", Typ: wire.RequestGet}); err != nil {
		t.Fatalf("WriteRequest: %v", err)
	}
	resp, err := wire.ReadResponse(conn)
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if resp.Kind != wire.ResponseNoSuchReader {
		t.Fatalf("Kind = %v, want ResponseNoSuchReader", resp.Kind)
	}
}

func TestExportServerRefcountedStartStop(t *testing.T) {
	r := &fakeReader{export: true}
	s := newExportServer(map[string]Reader{"cam": r})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	conn := dialExport(t)
	defer conn.Close()

	sendStart := func() {
		if err := wire.WriteRequest(conn, wire.Request{Reader: "cam", Typ: wire.RequestStart}); err != nil {
			t.Fatalf("WriteRequest start: %v", err)
		}
		if _, err := wire.ReadResponse(conn); err != nil {
			t.Fatalf("ReadResponse start: %v", err)
		}
	}
	sendStop := func() {
		if err := wire.WriteRequest(conn, wire.Request{Reader: "cam", Typ: wire.RequestStop}); err != nil {
			t.Fatalf("WriteRequest stop: %v", err)
		}
		if _, err := wire.ReadResponse(conn); err != nil {
			t.Fatalf("ReadResponse stop: %v", err)
		}
	}

	sendStart()
	sendStart()
	if !r.IsRunning() {
		t.Fatal("expected reader to be running after two Starts")
	}

	sendStop()
	if !r.IsRunning() {
		t.Fatal("expected reader to still be running: net starts = 1")
	}

	sendStop()
	if r.IsRunning() {
		t.Fatal("expected reader to be stopped once net starts reaches 0")
	}
}

func TestExportServerGetRelaysFrame(t *testing.T) {
	r := &fakeReader{export: true, meta: VideoMeta{Width: 4, Height: 4, FPS: 10}}
	s := newExportServer(map[string]Reader{"cam": r})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	conn := dialExport(t)
	defer conn.Close()

	if err := wire.WriteRequest(conn, wire.Request{Reader: "cam", Typ: wire.RequestGet}); err != nil {
		t.Fatalf("WriteRequest: %v", err)
	}
	resp, err := wire.ReadResponse(conn)
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if resp.Kind != wire.ResponseFrame || resp.Frame == nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Frame.Meta.Width != 4 {
		t.Fatalf("Frame.Meta.Width = %d, want 4", resp.Frame.Meta.Width)
	}
}
