// config_test.go
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0

package eye

import (
	"testing"

	"gopkg.in/yaml.v3"
)

const sampleConfigYAML = `
front-door:
  Cam: { device: 0, export: true, width: 1280, height: 720, fps: 30 }
sample-clip:
  Video: { path: "clips/sample.mp4", width: 640, height: 480, fps: 30 }
parking-lot:
  Rtsp: { url: "rtsp://10.0.0.4/stream1", width: 1920, height: 1080, fps: 15 }
remote-front-door:
  Client: { ip: "10.0.0.9" }
`

func TestConfigUnmarshalAndResolve(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(sampleConfigYAML), &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(cfg) != 4 {
		t.Fatalf("len(cfg) = %d, want 4", len(cfg))
	}

	cam, err := cfg["front-door"].resolve()
	if err != nil {
		t.Fatalf("resolve front-door: %v", err)
	}
	if !cam.isExport() {
		t.Fatal("expected front-door to be exportable")
	}
	reader, err := cam.spawn("front-door", "/base")
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	dr, ok := reader.(*deviceReader)
	if !ok {
		t.Fatalf("spawn returned %T, want *deviceReader", reader)
	}
	if dr.filename != "/dev/video0" {
		t.Fatalf("filename = %q, want /dev/video0", dr.filename)
	}

	video, err := cfg["sample-clip"].resolve()
	if err != nil {
		t.Fatalf("resolve sample-clip: %v", err)
	}
	if video.isExport() {
		t.Fatal("expected Video reader to never be exportable")
	}
	vr, err := video.spawn("sample-clip", "/base")
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if got := vr.(*deviceReader).filename; got != "/base/clips/sample.mp4" {
		t.Fatalf("filename = %q, want /base/clips/sample.mp4", got)
	}

	client, err := cfg["remote-front-door"].resolve()
	if err != nil {
		t.Fatalf("resolve remote-front-door: %v", err)
	}
	cr, err := client.spawn("remote-front-door", "/base")
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if _, ok := cr.(*clientReader); !ok {
		t.Fatalf("spawn returned %T, want *clientReader", cr)
	}
}

func TestOneConfigResolveEmptyIsDecodeError(t *testing.T) {
	var one OneConfig
	if _, err := one.resolve(); !IsKind(err, KindDecode) {
		t.Fatalf("resolve on empty OneConfig: got %v, want KindDecode", err)
	}
}
