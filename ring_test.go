// ring_test.go: concurrency-contract tests for Ring
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0

package eye

import (
	"sync"
	"testing"
	"time"
)

func fillImage(t *testing.T, img *Image, rows, cols int, fill byte) {
	t.Helper()
	data := make([]byte, rows*cols)
	for i := range data {
		data[i] = fill
	}
	built, err := FromRaw(rows, cols, 0, data)
	if err != nil {
		t.Fatalf("FromRaw: %v", err)
	}
	img.assignFrom(built)
}

func TestRingPushFillPop(t *testing.T) {
	alive := NewAliveFlag(true)
	ring := NewRing(alive, 2)

	for i := byte(1); i <= 3; i++ {
		err := ring.PushFill(func(img *Image) error {
			fillImage(t, img, 2, 2, i)
			return nil
		}, time.Now(), false)
		if err != nil {
			t.Fatalf("PushFill(%d): %v", i, err)
		}
	}

	frame := NewFrame(VideoMeta{})
	if err := ring.Pop(frame); err != nil {
		t.Fatalf("Pop: %v", err)
	}
	// capacity 2, three pushes landed (head=3): consumer starting at
	// count=0 has lagged past the oldest surviving slot (i = 3-1 = 2).
	if frame.Count != 3 {
		t.Fatalf("Count = %d, want 3 (bumped to oldest surviving)", frame.Count)
	}
}

func TestRingMonotoneCounts(t *testing.T) {
	alive := NewAliveFlag(true)
	ring := NewRing(alive, 2)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := byte(0); i < 50; i++ {
			err := ring.PushFill(func(img *Image) error {
				fillImage(t, img, 1, 1, i)
				return nil
			}, time.Now(), false)
			if err != nil {
				t.Errorf("PushFill: %v", err)
				return
			}
		}
		alive.Stop()
	}()

	frame := NewFrame(VideoMeta{})
	var last uint64
	for {
		err := ring.Pop(frame)
		if err != nil {
			if IsKind(err, KindNotRunning) {
				break
			}
			t.Fatalf("Pop: %v", err)
		}
		if frame.Count <= last {
			t.Fatalf("count did not strictly increase: last=%d, got=%d", last, frame.Count)
		}
		last = frame.Count
	}
	wg.Wait()

	if last == 0 {
		t.Fatal("consumer never observed a frame")
	}
}

func TestRingBackpressureBoundsHead(t *testing.T) {
	alive := NewAliveFlag(true)
	ring := NewRing(alive, 2)

	pushed := make(chan struct{})
	go func() {
		for i := byte(0); i < 10; i++ {
			ring.PushFill(func(img *Image) error {
				fillImage(t, img, 1, 1, i)
				return nil
			}, time.Now(), true)
		}
		close(pushed)
	}()

	// Give the producer a chance to race ahead if backpressure were broken.
	time.Sleep(20 * time.Millisecond)
	h := ring.head.Load()
	lw := ring.lowWatermark.Load()
	if h > lw+(ring.capacity-1) {
		t.Fatalf("backpressure violated: head=%d low_watermark=%d capacity=%d", h, lw, ring.capacity)
	}

	// Drain so the producer goroutine can finish within the test.
	frame := NewFrame(VideoMeta{})
	for i := 0; i < 10; i++ {
		if err := ring.Pop(frame); err != nil {
			t.Fatalf("Pop: %v", err)
		}
	}
	<-pushed
}

func TestRingNoBackpressureLiveness(t *testing.T) {
	alive := NewAliveFlag(true)
	ring := NewRing(alive, 2)

	done := make(chan error, 1)
	go func() {
		for i := byte(0); i < 100; i++ {
			if err := ring.PushFill(func(img *Image) error {
				fillImage(t, img, 1, 1, i)
				return nil
			}, time.Now(), false); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("producer failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("producer stalled with no consumer despite backpressure disabled")
	}
}

func TestRingPopNotRunning(t *testing.T) {
	alive := NewAliveFlag(false)
	ring := NewRing(alive, 2)

	frame := NewFrame(VideoMeta{})
	err := ring.Pop(frame)
	if !IsKind(err, KindNotRunning) {
		t.Fatalf("Pop on dead ring: got %v, want KindNotRunning", err)
	}
}
