// config.go: reader configuration variants, §6
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0

package eye

import (
	"fmt"
	"path/filepath"
)

// configurable is the narrow contract every config variant satisfies: how
// to decide export eligibility and how to build the Reader it describes.
type configurable interface {
	isExport() bool
	spawn(name, basePath string) (Reader, error)
}

// CamConfig opens a local /dev/videoN device. Only Cam may set Export.
type CamConfig struct {
	Device uint16      `yaml:"device"`
	Export bool        `yaml:"export,omitempty"`
	Width  uint32      `yaml:"width"`
	Height uint32      `yaml:"height"`
	FPS    uint32      `yaml:"fps"`
	Codec  *string     `yaml:"codec,omitempty"`
	Color  *VideoColor `yaml:"color,omitempty"`
}

func (c CamConfig) meta() VideoMeta {
	return VideoMeta{Codec: c.Codec, Color: c.Color, Width: c.Width, Height: c.Height, FPS: c.FPS}
}
func (c CamConfig) isExport() bool { return c.Export }
func (c CamConfig) spawn(name, _ string) (Reader, error) {
	filename := fmt.Sprintf("/dev/video%d", c.Device)
	return newDeviceReader(name, filename, c.meta(), c.isExport()), nil
}

// VideoConfig reads a file relative to the host's base path.
type VideoConfig struct {
	Path   string      `yaml:"path"`
	Width  uint32      `yaml:"width"`
	Height uint32      `yaml:"height"`
	FPS    uint32      `yaml:"fps"`
	Codec  *string     `yaml:"codec,omitempty"`
	Color  *VideoColor `yaml:"color,omitempty"`
}

func (c VideoConfig) meta() VideoMeta {
	return VideoMeta{Codec: c.Codec, Color: c.Color, Width: c.Width, Height: c.Height, FPS: c.FPS}
}
func (c VideoConfig) isExport() bool { return false }
func (c VideoConfig) spawn(name, basePath string) (Reader, error) {
	filename := filepath.Join(basePath, c.Path)
	return newDeviceReader(name, filename, c.meta(), false), nil
}

// RtspConfig opens a network stream URL verbatim.
type RtspConfig struct {
	URL    string      `yaml:"url"`
	Width  uint32      `yaml:"width"`
	Height uint32      `yaml:"height"`
	FPS    uint32      `yaml:"fps"`
	Codec  *string     `yaml:"codec,omitempty"`
	Color  *VideoColor `yaml:"color,omitempty"`
}

func (c RtspConfig) meta() VideoMeta {
	return VideoMeta{Codec: c.Codec, Color: c.Color, Width: c.Width, Height: c.Height, FPS: c.FPS}
}
func (c RtspConfig) isExport() bool { return false }
func (c RtspConfig) spawn(name, _ string) (Reader, error) {
	return newDeviceReader(name, c.URL, c.meta(), false), nil
}

// ClientConfig is a reader whose producer is a remote export server.
type ClientConfig struct {
	IP string `yaml:"ip"`
}

func (c ClientConfig) isExport() bool { return false }
func (c ClientConfig) spawn(name, _ string) (Reader, error) {
	return newClientReader(name, c.IP), nil
}

// OneConfig is the tagged-union config entry, §6: exactly one of Cam,
// Video, Rtsp, or Client is set in any well-formed document.
type OneConfig struct {
	Cam    *CamConfig    `yaml:"Cam,omitempty"`
	Video  *VideoConfig  `yaml:"Video,omitempty"`
	Rtsp   *RtspConfig   `yaml:"Rtsp,omitempty"`
	Client *ClientConfig `yaml:"Client,omitempty"`
}

func (c OneConfig) resolve() (configurable, error) {
	switch {
	case c.Cam != nil:
		return *c.Cam, nil
	case c.Video != nil:
		return *c.Video, nil
	case c.Rtsp != nil:
		return *c.Rtsp, nil
	case c.Client != nil:
		return *c.Client, nil
	default:
		return nil, newErr(KindDecode, "config.one", fmt.Errorf("no Cam/Video/Rtsp/Client variant set"))
	}
}

// Config is the outer document: reader name → its configuration, §4.H.
type Config map[string]OneConfig
