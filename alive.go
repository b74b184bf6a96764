// alive.go: shared liveness flag for producers, the ring, and the export server
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0

package eye

import "sync/atomic"

// AliveFlag is a small shared liveness flag. It is cloned by sharing the
// pointer (never copied by value): the ring, its producer, and every
// consumer observe the same underlying flag.
type AliveFlag struct {
	running atomic.Bool
}

// NewAliveFlag returns a flag initialized to the given state.
func NewAliveFlag(running bool) *AliveFlag {
	f := &AliveFlag{}
	f.running.Store(running)
	return f
}

// Start transitions the flag to running. It fails with KindAlreadyRunning
// if the flag was already running, matching the idempotency contract on
// Reader.Start (§4.E): callers translate that into a no-op where the spec
// calls for idempotent start.
func (f *AliveFlag) Start() error {
	if !f.running.CompareAndSwap(false, true) {
		return newErr(KindAlreadyRunning, "alive.start", nil)
	}
	return nil
}

// Stop transitions the flag to stopped. Idempotent: stopping an
// already-stopped flag is not an error (see the ambiguity note in §9 —
// this module treats stop-on-unstarted as Ok).
func (f *AliveFlag) Stop() {
	f.running.Store(false)
}

// IsRunning reports the current state.
func (f *AliveFlag) IsRunning() bool {
	return f.running.Load()
}

// AssertRunning returns KindNotRunning if the flag is not running.
func (f *AliveFlag) AssertRunning() error {
	if !f.running.Load() {
		return newErr(KindNotRunning, "alive.assert_running", nil)
	}
	return nil
}
