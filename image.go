// image.go: the pixel-matrix envelope shared between producer and consumers
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0

package eye

import (
	"github.com/vmihailenco/msgpack/v5"
	"gocv.io/x/gocv"
)

// Image is a pixel matrix, either view-backed (the underlying gocv.Mat
// aliases memory owned elsewhere — a VideoCapture's internal frame buffer)
// or owning (constructed from a byte buffer that Image itself keeps alive).
//
// Image is not safe for concurrent use; the Ring's per-slot lock is the
// synchronization boundary for the bytes it wraps.
type Image struct {
	mat gocv.Mat
	// owned anchors the backing byte slice for FromRaw-constructed images
	// so it is never reallocated out from under mat for the life of Image.
	owned []byte
}

// NewImage returns an empty, owning image, mirroring Image::default() in
// the original: zero rows/cols until the first producer write.
func NewImage() Image {
	return Image{mat: gocv.NewMat()}
}

// FromRaw constructs an owning image whose matrix view aliases data.
// data must not be reallocated for the lifetime of the returned Image —
// callers that need to retain the bytes elsewhere must copy first.
func FromRaw(rows, cols int, typ gocv.MatType, data []byte) (Image, error) {
	mat, err := gocv.NewMatFromBytes(rows, cols, typ, data)
	if err != nil {
		return Image{}, newErr(KindIO, "image.from_raw", err)
	}
	return Image{mat: mat, owned: data}, nil
}

// Mat exposes the underlying matrix for device reads and color conversion.
// Callers must hold the Ring slot lock (or otherwise have exclusive access)
// for the duration of any mutation.
func (img *Image) Mat() *gocv.Mat { return &img.mat }

// Rows, Cols, Type, and Channels mirror the corresponding Mat accessors,
// read by serialization and by VideoColor.Convert.
func (img *Image) Rows() int            { return img.mat.Rows() }
func (img *Image) Cols() int            { return img.mat.Cols() }
func (img *Image) Type() gocv.MatType   { return img.mat.Type() }
func (img *Image) Channels() int        { return img.mat.Channels() }
func (img *Image) Empty() bool          { return img.mat.Empty() }

// CopyTo copies img's pixel bytes into dst, resizing dst's backing matrix
// if its shape differs. Used by Ring.Pop to hand a consumer its own copy
// without holding the slot lock any longer than necessary.
func (img *Image) CopyTo(dst *Image) error {
	if img.mat.Empty() {
		if !dst.mat.Empty() {
			dst.mat.Close()
		}
		dst.mat = gocv.NewMat()
		return nil
	}
	img.mat.CopyTo(&dst.mat)
	return nil
}

// assignFrom replaces img's matrix with src's (move semantics for the
// client producer's push_move path, §4.B): src is consumed, not copied.
func (img *Image) assignFrom(src Image) {
	if !img.mat.Empty() {
		img.mat.Close()
	}
	img.mat = src.mat
	img.owned = src.owned
}

// Close releases the underlying native Mat. Safe to call on a zero Image.
func (img *Image) Close() error {
	return img.mat.Close()
}

// imageWire is the 4-field record {rows, cols, typ, data} that the spec's
// §4.A contract requires: rows/cols/typ describe the matrix, data is the
// contiguous pixel buffer (row-major, element size implied by typ).
type imageWire struct {
	Rows int    `msgpack:"rows"`
	Cols int    `msgpack:"cols"`
	Typ  int    `msgpack:"typ"`
	Data []byte `msgpack:"data"`
}

// EncodeMsgpack implements msgpack.CustomEncoder so Image serializes as the
// wire-contract 4-field record rather than its unexported gocv.Mat guts.
func (img Image) EncodeMsgpack(enc *msgpack.Encoder) error {
	w := imageWire{Rows: img.Rows(), Cols: img.Cols(), Typ: int(img.Type())}
	if !img.mat.Empty() {
		w.Data = img.mat.ToBytes()
	}
	return enc.Encode(w)
}

// DecodeMsgpack implements msgpack.CustomDecoder, rebuilding an owning
// Image from the 4-field record. The client producer and export server do
// not go through it: they convert via wire.Image in wireconv.go.
func (img *Image) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w imageWire
	if err := dec.Decode(&w); err != nil {
		return err
	}
	if w.Rows == 0 || w.Cols == 0 || len(w.Data) == 0 {
		img.mat = gocv.NewMat()
		return nil
	}
	built, err := FromRaw(w.Rows, w.Cols, gocv.MatType(w.Typ), w.Data)
	if err != nil {
		return err
	}
	*img = built
	return nil
}
