// errors.go: error kinds shared across the capture pipeline
//
// Copyright (c) 2025 podo-os
// SPDX-License-Identifier: MPL-2.0

package eye

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind tags an Error with the semantic category spec'd for the driver core.
// Kinds are not syntactic wrappers around a particular Go stdlib error —
// callers should branch on Kind, not on message text.
type Kind int

const (
	// KindIO covers filesystem, socket, and device access failures.
	KindIO Kind = iota
	// KindDecode covers configuration parse failures.
	KindDecode
	// KindNotRunning is returned from Get when the producer has stopped.
	KindNotRunning
	// KindAlreadyRunning is returned from Start on an already-running reader.
	KindAlreadyRunning
	// KindProtocol covers unexpected remote responses and NoSuchReader at start.
	KindProtocol
	// KindInternal covers producer-side failures surfaced at Stop, and
	// otherwise-unreachable branches.
	KindInternal
	// KindUnimplemented covers e.g. color conversion from an unsupported
	// channel count.
	KindUnimplemented
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindDecode:
		return "decode"
	case KindNotRunning:
		return "not_running"
	case KindAlreadyRunning:
		return "already_running"
	case KindProtocol:
		return "protocol"
	case KindInternal:
		return "internal"
	case KindUnimplemented:
		return "unimplemented"
	default:
		return "unknown"
	}
}

// Error is the single error type produced by this module. Op names the
// failing operation (e.g. "ring.pop", "export.listen") for log
// correlation; Err, when set, is the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// newErr builds an *Error, attaching a stack trace via pkg/errors when
// wrapping an existing cause so producer-loop failures remain diagnosable
// once they resurface at Stop() or Get().
func newErr(kind Kind, op string, cause error) *Error {
	if cause != nil {
		cause = pkgerrors.WithStack(cause)
	}
	return &Error{Kind: kind, Op: op, Err: cause}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !asError(err, &e) {
		return false
	}
	return e.Kind == kind
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
