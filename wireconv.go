// wireconv.go: conversions between in-process types and the wire envelope
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0

package eye

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/podo-os/eye/internal/wire"
)

func metaToWire(m VideoMeta) wire.Meta {
	w := wire.Meta{Width: m.Width, Height: m.Height, FPS: m.FPS}
	if m.Codec != nil {
		codec := *m.Codec
		w.Codec = &codec
	}
	if m.Color != nil {
		color := m.Color.String()
		w.Color = &color
	}
	return w
}

func metaFromWire(w wire.Meta) (VideoMeta, error) {
	m := VideoMeta{Width: w.Width, Height: w.Height, FPS: w.FPS}
	if w.Codec != nil {
		codec := *w.Codec
		m.Codec = &codec
	}
	if w.Color != nil {
		var c VideoColor
		switch *w.Color {
		case "Grayscale":
			c = ColorGrayscale
		case "Color":
			c = ColorColor
		default:
			return VideoMeta{}, newErr(KindDecode, "wire.meta", nil)
		}
		m.Color = &c
	}
	return m, nil
}

func imageToWire(img *Image) wire.Image {
	w := wire.Image{Rows: img.Rows(), Cols: img.Cols(), Typ: int(img.Type())}
	if !img.mat.Empty() {
		w.Data = img.mat.ToBytes()
	}
	return w
}

func imageFromWire(w wire.Image) (Image, error) {
	if w.Rows == 0 || w.Cols == 0 || len(w.Data) == 0 {
		return NewImage(), nil
	}
	return FromRaw(w.Rows, w.Cols, gocv.MatType(w.Typ), w.Data)
}

func frameToWire(f *Frame) wire.Frame {
	return wire.Frame{
		Image:         imageToWire(&f.Image),
		Meta:          metaToWire(f.Meta),
		TimestampNano: f.Timestamp.UnixNano(),
		Count:         f.Count,
	}
}

func frameFromWire(w wire.Frame) (*Frame, error) {
	img, err := imageFromWire(w.Image)
	if err != nil {
		return nil, err
	}
	meta, err := metaFromWire(w.Meta)
	if err != nil {
		return nil, err
	}
	return &Frame{
		Image:     img,
		Meta:      meta,
		Timestamp: time.Unix(0, w.TimestampNano).UTC(),
		Count:     w.Count,
	}, nil
}
