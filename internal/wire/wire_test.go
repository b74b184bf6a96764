// wire_test.go
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0

package wire

import (
	"bytes"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("hello, export server")

	if err := WriteFrame(&buf, TypeRequest, payload); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	typ, got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if typ != TypeRequest {
		t.Fatalf("typ = %d, want TypeRequest", typ)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload = %q, want %q", got, payload)
	}
}

func TestReadFrameRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0xFF, 0xFF, TypeRequest, 0, 0, 0, 0})
	if _, _, err := ReadFrame(buf); err == nil {
		t.Fatal("expected an error for invalid magic bytes")
	}
}

func TestRequestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	req := Request{Reader: "front-door", Typ: RequestGet}

	if err := WriteRequest(&buf, req); err != nil {
		t.Fatalf("WriteRequest: %v", err)
	}
	got, err := ReadRequest(&buf)
	if err != nil {
		t.Fatalf("ReadRequest: %v", err)
	}
	if got != req {
		t.Fatalf("got %+v, want %+v", got, req)
	}
}

func TestResponseRoundTripAck(t *testing.T) {
	var buf bytes.Buffer
	resp := Response{Kind: ResponseAck}

	if err := WriteResponse(&buf, resp); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	got, err := ReadResponse(&buf)
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if got.Kind != ResponseAck {
		t.Fatalf("Kind = %v, want ResponseAck", got.Kind)
	}
}

func TestResponseRoundTripFrame(t *testing.T) {
	var buf bytes.Buffer
	width := uint32(640)
	resp := Response{
		Kind: ResponseFrame,
		Frame: &Frame{
			Image:         Image{Rows: 2, Cols: 2, Typ: 0, Data: []byte{1, 2, 3, 4}},
			Meta:          Meta{Width: width, Height: 480, FPS: 30},
			TimestampNano: 123456789,
			Count:         7,
		},
	}

	if err := WriteResponse(&buf, resp); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	got, err := ReadResponse(&buf)
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if got.Frame == nil || got.Frame.Count != 7 || got.Frame.Meta.Width != width {
		t.Fatalf("unexpected round-tripped frame: %+v", got.Frame)
	}
}

func TestReadRequestRejectsWrongFrameType(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, TypeResponse, []byte{}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if _, err := ReadRequest(&buf); err == nil {
		t.Fatal("expected an error reading a response frame as a request")
	}
}
