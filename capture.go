// capture.go: local device/file/RTSP capture producer
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0

package eye

import (
	"sync"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"
)

// deviceReader drives a gocv.VideoCapture handle from its own goroutine at
// the configured target FPS, pushing frames into a Ring by filling the
// slot's matrix in place. It implements Reader.
type deviceReader struct {
	name       string
	filename   string
	meta       VideoMeta
	color      VideoColor
	usPerFrame int64
	export     bool

	ring  *Ring
	alive *AliveFlag

	mu      sync.Mutex
	handle  *gocv.VideoCapture
	wg      sync.WaitGroup
	loopErr error
}

// newDeviceReader builds a reader over a local capture handle. filename is
// already resolved per §6 (Cam → /dev/video{device}, Video → base/path,
// Rtsp → url verbatim).
func newDeviceReader(name, filename string, meta VideoMeta, export bool) *deviceReader {
	return &deviceReader{
		name:       name,
		filename:   filename,
		meta:       meta,
		color:      meta.ColorOrDefault(),
		usPerFrame: meta.UsPerFrame(),
		export:     export,
		ring:       NewRing(NewAliveFlag(false), 2),
		alive:      NewAliveFlag(false),
	}
}

func (r *deviceReader) Meta() VideoMeta { return r.meta }
func (r *deviceReader) IsExport() bool  { return r.export }
func (r *deviceReader) IsRunning() bool { return r.alive.IsRunning() }

// Start opens the capture handle, applies the configured width/height/fps/
// codec, and spawns the producer goroutine.
func (r *deviceReader) Start() error {
	if err := r.alive.Start(); err != nil {
		return err
	}

	cap, err := gocv.VideoCaptureFile(r.filename)
	if err != nil {
		r.alive.Stop()
		return newErr(KindIO, "capture.open", err)
	}
	cap.Set(gocv.VideoCaptureFrameWidth, float64(r.meta.Width))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(r.meta.Height))
	cap.Set(gocv.VideoCaptureFPS, float64(r.meta.FPS))
	if fourcc, ok := r.meta.FourCC(); ok {
		cap.Set(gocv.VideoCaptureFOURCC, float64(gocv.VideoWriterFourcc(fourcc[0], fourcc[1], fourcc[2], fourcc[3])))
	}

	r.mu.Lock()
	r.handle = cap
	r.loopErr = nil
	r.mu.Unlock()

	r.ring.alive.Start()

	r.wg.Add(1)
	go r.run()
	return nil
}

// run is the producer loop, §4.C: read a frame, convert color, push, pace.
func (r *deviceReader) run() {
	defer r.wg.Done()

	backpressure := r.usPerFrame == 0
	for r.alive.IsRunning() {
		t0 := now().UTC()

		err := r.ring.PushFill(func(img *Image) error {
			r.mu.Lock()
			cap := r.handle
			r.mu.Unlock()
			if cap == nil || !cap.Read(img.Mat()) {
				return newErr(KindIO, "capture.read", nil)
			}
			return r.color.Convert(img)
		}, t0, backpressure)
		if err != nil {
			r.mu.Lock()
			r.loopErr = err
			r.mu.Unlock()
			log.Error().Err(err).Str("reader", r.name).Msg("capture producer stopped")
			break
		}

		pacer(r.usPerFrame, t0)
	}

	r.alive.Stop()
	r.ring.alive.Stop()

	r.mu.Lock()
	if r.handle != nil {
		r.handle.Close()
		r.handle = nil
	}
	r.mu.Unlock()
}

// Stop flips alive, joins the producer, and surfaces any captured error.
func (r *deviceReader) Stop() error {
	r.alive.Stop()
	r.ring.alive.Stop()
	r.wg.Wait()

	r.mu.Lock()
	err := r.loopErr
	r.loopErr = nil
	r.mu.Unlock()
	if err != nil {
		return newErr(KindInternal, "capture.stop", err)
	}
	return nil
}

func (r *deviceReader) Get(in *Frame) (*Frame, error) {
	if !r.alive.IsRunning() {
		if err := r.Stop(); err != nil {
			return nil, err
		}
		return nil, newErr(KindNotRunning, "reader.get", nil)
	}
	return getFromRing(r.ring, r.meta, in)
}

func (r *deviceReader) Close() error {
	if r.alive.IsRunning() {
		return newErr(KindAlreadyRunning, "reader.close", nil)
	}
	return nil
}
