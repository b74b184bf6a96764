// meta.go: immutable video stream metadata and color-mode conversion
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0

package eye

import (
	"fmt"

	"gocv.io/x/gocv"
)

// VideoColor is the target color mode a producer converts every frame into
// before it reaches the ring. Grayscale and Color(BGR) mirror the two modes
// opencv::imgproc exposes via cvtColor.
type VideoColor int

const (
	// ColorDefault is the zero value; VideoMeta.ColorOrDefault maps it to Color.
	ColorDefault VideoColor = iota
	ColorGrayscale
	ColorColor
)

func (c VideoColor) String() string {
	switch c {
	case ColorGrayscale:
		return "Grayscale"
	case ColorColor:
		return "Color"
	default:
		return "Color"
	}
}

// Convert mutates img in place so its channel count matches c, matching the
// original's VideoColor::convert. Channel counts outside {1, 3} are
// KindUnimplemented, same as the original's unreachable arm.
func (c VideoColor) Convert(img *Image) error {
	mat := img.Mat()
	switch c {
	case ColorGrayscale:
		switch mat.Channels() {
		case 1:
			return nil
		case 3:
			origin := mat.Clone()
			defer origin.Close()
			gocv.CvtColor(origin, mat, gocv.ColorBGRToGray)
			return nil
		default:
			return newErr(KindUnimplemented, "color.convert", nil)
		}
	case ColorColor, ColorDefault:
		switch mat.Channels() {
		case 1:
			origin := mat.Clone()
			defer origin.Close()
			gocv.CvtColor(origin, mat, gocv.ColorGrayToBGR)
			return nil
		case 3:
			return nil
		default:
			return newErr(KindUnimplemented, "color.convert", nil)
		}
	default:
		return newErr(KindInternal, "color.convert", nil)
	}
}

// UnmarshalYAML accepts the bare config strings "Grayscale"/"Color",
// matching the textual enum shape in spec.md §6.
func (c *VideoColor) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	switch s {
	case "Grayscale":
		*c = ColorGrayscale
	case "Color":
		*c = ColorColor
	default:
		return fmt.Errorf("unknown color mode %q (want Grayscale or Color)", s)
	}
	return nil
}

// MarshalYAML emits the same textual form UnmarshalYAML accepts.
func (c VideoColor) MarshalYAML() (any, error) {
	return c.String(), nil
}

// VideoMeta is immutable after construction. FPS of 0 means free-run: no
// pacing, and (per §4.C) backpressure is enabled because the source is
// assumed finite (a file) rather than a live feed.
type VideoMeta struct {
	// Codec is an optional 4-character FourCC passed through to the device.
	Codec *string `yaml:"codec,omitempty" msgpack:"codec"`
	// Color defaults to Color(BGR) when unset, matching VideoColor::default.
	Color *VideoColor `yaml:"color,omitempty" msgpack:"color"`

	Width  uint32 `yaml:"width" msgpack:"width"`
	Height uint32 `yaml:"height" msgpack:"height"`
	FPS    uint32 `yaml:"fps" msgpack:"fps"`
}

// ColorOrDefault returns the configured color mode, or Color(BGR) if unset.
func (m VideoMeta) ColorOrDefault() VideoColor {
	if m.Color == nil {
		return ColorColor
	}
	return *m.Color
}

// FourCC returns the four codec bytes and whether a codec was configured.
func (m VideoMeta) FourCC() ([4]byte, bool) {
	var out [4]byte
	if m.Codec == nil || len(*m.Codec) != 4 {
		return out, false
	}
	copy(out[:], *m.Codec)
	return out, true
}

// UsPerFrame returns the producer's target interframe interval in
// microseconds, or 0 for free-run (spec §4.C).
func (m VideoMeta) UsPerFrame() int64 {
	if m.FPS == 0 {
		return 0
	}
	return 1_000_000 / int64(m.FPS)
}
