// client_test.go
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0

package eye

import (
	"testing"
)

func TestClientReaderGetsMonotonicFrames(t *testing.T) {
	meta := VideoMeta{Width: 4, Height: 4, FPS: 10}
	r := &fakeReader{export: true, meta: meta}
	s := newExportServer(map[string]Reader{"cam": r})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	c := newClientReader("cam", "127.0.0.1")
	if err := c.Start(); err != nil {
		t.Fatalf("client Start: %v", err)
	}
	defer c.Stop()

	if got := c.Meta(); got.Width != meta.Width || got.Height != meta.Height {
		t.Fatalf("Meta() = %+v, want %+v", got, meta)
	}

	// The same Frame is handed back each time so Get waits for the frame
	// after the one last seen.
	var frame *Frame
	var last uint64
	for i := 0; i < 3; i++ {
		var err error
		frame, err = c.Get(frame)
		if err != nil {
			t.Fatalf("Get #%d: %v", i, err)
		}
		if frame.Count <= last {
			t.Fatalf("Get #%d: Count = %d, want > %d", i, frame.Count, last)
		}
		last = frame.Count
	}
	frame.Close()
}

func TestClientReaderNoSuchReaderOnStart(t *testing.T) {
	s := newExportServer(map[string]Reader{})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	c := newClientReader("ghost", "127.0.0.1")
	err := c.Start()
	if err == nil {
		t.Fatal("expected an error starting a client against a reader the server doesn't have")
	}
	if !IsKind(err, KindProtocol) {
		t.Fatalf("err = %v, want KindProtocol", err)
	}
}
