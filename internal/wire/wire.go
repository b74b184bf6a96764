// Package wire implements the length-prefixed binary framing and message
// envelopes that the export server and client producer exchange over TCP.
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0
package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Magic identifies an eye export-protocol frame.
var Magic = [2]byte{0x45, 0x59} // "EY"

// Port is the fixed TCP port the export server listens on.
const Port = 9804

// FrameHeaderSize is magic(2) + type(1) + length(4).
const FrameHeaderSize = 7

const (
	TypeRequest  uint8 = 0x01
	TypeResponse uint8 = 0x02
)

// WriteFrame writes one magic-tagged, length-prefixed frame.
func WriteFrame(w io.Writer, typ uint8, payload []byte) error {
	header := make([]byte, FrameHeaderSize)
	header[0], header[1] = Magic[0], Magic[1]
	header[2] = typ
	binary.BigEndian.PutUint32(header[3:7], uint32(len(payload)))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("writing frame header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("writing frame payload: %w", err)
	}
	return nil
}

// ReadFrame reads one frame, validating the magic bytes.
func ReadFrame(r io.Reader) (typ uint8, payload []byte, err error) {
	header := make([]byte, FrameHeaderSize)
	if _, err = io.ReadFull(r, header); err != nil {
		return 0, nil, fmt.Errorf("reading frame header: %w", err)
	}
	if header[0] != Magic[0] || header[1] != Magic[1] {
		return 0, nil, fmt.Errorf("invalid magic bytes: 0x%02x%02x", header[0], header[1])
	}
	typ = header[2]
	n := binary.BigEndian.Uint32(header[3:7])
	payload = make([]byte, n)
	if _, err = io.ReadFull(r, payload); err != nil {
		return 0, nil, fmt.Errorf("reading frame payload: %w", err)
	}
	return typ, payload, nil
}

// RequestType enumerates the three operations a client may ask the export
// server to perform against a named reader.
type RequestType int

const (
	RequestStart RequestType = iota
	RequestStop
	RequestGet
)

func (t RequestType) String() string {
	switch t {
	case RequestStart:
		return "Start"
	case RequestStop:
		return "Stop"
	case RequestGet:
		return "Get"
	default:
		return "Unknown"
	}
}

// Request is the client-to-server envelope, §4.G.
type Request struct {
	Reader string      `msgpack:"reader"`
	Typ    RequestType `msgpack:"typ"`
}

// ResponseKind discriminates the three server-to-client response shapes.
type ResponseKind int

const (
	ResponseFrame ResponseKind = iota
	ResponseNoSuchReader
	ResponseAck
)

// Image mirrors the 4-field wire record from §4.A, independent of any
// in-process matrix representation.
type Image struct {
	Rows int    `msgpack:"rows"`
	Cols int    `msgpack:"cols"`
	Typ  int    `msgpack:"typ"`
	Data []byte `msgpack:"data"`
}

// Meta mirrors VideoMeta's wire shape; Color is carried as its textual
// name so either peer's enum numbering is irrelevant.
type Meta struct {
	Codec  *string `msgpack:"codec"`
	Color  *string `msgpack:"color"`
	Width  uint32  `msgpack:"width"`
	Height uint32  `msgpack:"height"`
	FPS    uint32  `msgpack:"fps"`
}

// Frame mirrors the {image, meta, timestamp, count} record from §4.A.
// Timestamp travels as Unix nanoseconds to stay codec-agnostic.
type Frame struct {
	Image         Image  `msgpack:"image"`
	Meta          Meta   `msgpack:"meta"`
	TimestampNano int64  `msgpack:"timestamp"`
	Count         uint64 `msgpack:"count"`
}

// Response is the server-to-client envelope, §4.G: exactly one of Frame,
// FrameErr, or NoSuchReader is set when Kind selects it; Ack carries none.
type Response struct {
	Kind ResponseKind `msgpack:"kind"`

	Frame        *Frame  `msgpack:"frame,omitempty"`
	FrameErr     *string `msgpack:"frame_err,omitempty"`
	NoSuchReader *string `msgpack:"no_such_reader,omitempty"`
}

// WriteRequest msgpack-encodes req and writes it as a TypeRequest frame.
func WriteRequest(w io.Writer, req Request) error {
	payload, err := msgpack.Marshal(req)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	return WriteFrame(w, TypeRequest, payload)
}

// ReadRequest reads a TypeRequest frame and decodes it.
func ReadRequest(r io.Reader) (Request, error) {
	var req Request
	typ, payload, err := ReadFrame(r)
	if err != nil {
		return req, err
	}
	if typ != TypeRequest {
		return req, fmt.Errorf("expected request frame, got type 0x%02x", typ)
	}
	if err := msgpack.Unmarshal(payload, &req); err != nil {
		return req, fmt.Errorf("decoding request: %w", err)
	}
	return req, nil
}

// WriteResponse msgpack-encodes resp and writes it as a TypeResponse frame.
func WriteResponse(w io.Writer, resp Response) error {
	payload, err := msgpack.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	return WriteFrame(w, TypeResponse, payload)
}

// ReadResponse reads a TypeResponse frame and decodes it.
func ReadResponse(r io.Reader) (Response, error) {
	var resp Response
	typ, payload, err := ReadFrame(r)
	if err != nil {
		return resp, err
	}
	if typ != TypeResponse {
		return resp, fmt.Errorf("expected response frame, got type 0x%02x", typ)
	}
	if err := msgpack.Unmarshal(payload, &resp); err != nil {
		return resp, fmt.Errorf("decoding response: %w", err)
	}
	return resp, nil
}
