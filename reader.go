// reader.go: the Reader facade shared by every capture source
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0

package eye

import "time"

// waitUs is the pacing threshold: a producer only sleeps out the remainder
// of its target interframe interval when that remainder is at least this
// long. Below it, pacer returns immediately and the producer's own loop
// busy-spins back around rather than risking an oversleep from a sub-3ms
// time.Sleep.
const waitUs = 3000

// skipUs is subtracted from every pacing sleep, so the producer wakes this
// long before its next interframe tick.
const skipUs = 50

// Reader is the polymorphic facade every capture source implements: a
// local device, a video file, an RTSP stream, or a remote export client.
// The Driver holds readers by name and never distinguishes between kinds
// once constructed.
type Reader interface {
	// Start begins the producer loop. Idempotent: starting an
	// already-running reader returns KindAlreadyRunning.
	Start() error

	// Stop ends the producer loop and joins its goroutine. Idempotent:
	// stopping an already-stopped reader is not an error.
	Stop() error

	// IsRunning reports whether the producer loop is active.
	IsRunning() bool

	// IsExport reports whether this reader is eligible to be served by the
	// local Export Server: only Device-backed readers opt in, Client
	// readers never do.
	IsExport() bool

	// Get blocks until a frame newer than in.Count is available, copies it
	// into in, and returns in. Passing a reused Frame avoids an allocation
	// per call; passing nil allocates a fresh one.
	Get(in *Frame) (*Frame, error)

	// Meta reports the stream's configured metadata.
	Meta() VideoMeta

	// Close releases the reader's resources. The reader must be stopped
	// first; Close on a running reader is an error.
	Close() error
}

// getFromRing is the Get implementation shared by every Reader: Ring.Pop
// already blocks (yielding) until a new frame lands or the ring stops, so
// this is a thin wrapper that only supplies a default Frame.
func getFromRing(ring *Ring, meta VideoMeta, in *Frame) (*Frame, error) {
	if in == nil {
		in = NewFrame(meta)
	}
	if err := ring.Pop(in); err != nil {
		return nil, err
	}
	return in, nil
}

// pacer sleeps out the remainder of a target interframe interval, given the
// time a capture call started. usPerFrame of 0 means free-run: no sleep.
//
// Below waitUs of remaining time, pacer returns without sleeping: the
// caller's own loop busy-spins back around immediately rather than trust a
// sub-3ms time.Sleep to wake up on time.
func pacer(usPerFrame int64, started time.Time) {
	if usPerFrame <= 0 {
		return
	}
	target := time.Duration(usPerFrame) * time.Microsecond
	elapsed := time.Since(started)
	remaining := target - elapsed
	if remaining >= waitUs*time.Microsecond {
		time.Sleep(remaining - skipUs*time.Microsecond)
	}
}
