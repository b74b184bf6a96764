// frame.go: the unit of data handed from the ring to a consumer
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0

package eye

// time is only needed for the Timestamp field's type; NewFrame sources the
// value itself from the cached clock in clock.go.
import "time"

// Frame bundles one captured image with the metadata of the stream it came
// from, the wall-clock time it was captured, and the monotonically
// increasing sequence number the Ring assigned it at push time.
//
// Count is zero for a freshly allocated Frame that has never been through
// Ring.Pop; callers pass it back in to request "the frame after this one".
type Frame struct {
	Image     Image     `msgpack:"image"`
	Meta      VideoMeta `msgpack:"meta"`
	Timestamp time.Time `msgpack:"timestamp"`
	Count     uint64    `msgpack:"count"`
}

// NewFrame returns a Frame with an empty image, timestamp = now, count = 0,
// ready to be handed to Ring.Pop as the consumer's reusable slot.
func NewFrame(meta VideoMeta) *Frame {
	return &Frame{
		Image:     NewImage(),
		Meta:      meta,
		Timestamp: now().UTC(),
	}
}

// Close releases the Frame's image resources. Frames returned by Get should
// be closed once a consumer is done with them, the way a gocv.Mat is.
func (f *Frame) Close() error {
	if f == nil {
		return nil
	}
	return f.Image.Close()
}
