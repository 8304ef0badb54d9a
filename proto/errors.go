// Package proto implements the frame message codec: a self-describing
// msgpack record carrying {kind, payload, crc32}, verified structurally
// and by checksum before any field is trusted.
package proto

import (
	"errors"
	"fmt"

	"github.com/lumatrix/vfdstream/types"
)

// Sentinel errors classifying message rejection.
// Use errors.Is(err, ErrXxx) for typed assertions.
var (
	// ErrStructuralInvalid indicates the record failed schema or bounds
	// verification before any field was read.
	ErrStructuralInvalid = errors.New("structurally invalid message")

	// ErrPayloadMissing indicates the record decoded but carries no
	// payload bytes.
	ErrPayloadMissing = errors.New("payload missing")

	// ErrChecksumMismatch indicates the payload bytes do not match the
	// carried CRC32.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrFrameTooLarge indicates a payload beyond the device packet bound.
	ErrFrameTooLarge = errors.New("frame too large")

	// ErrDecodeTruncated indicates a delta payload that did not
	// decompress to the exact framebuffer size. It has no wire status
	// of its own; the device discards the delta silently.
	ErrDecodeTruncated = errors.New("delta decode truncated")
)

// MessageError wraps an underlying error with its rejection class.
// It preserves the original error in the chain for errors.As inspection.
type MessageError struct {
	// Kind is the sentinel error for classification.
	Kind error
	// Msg describes what was being verified.
	Msg string
	// Err is the underlying error, if any.
	Err error
}

func (e *MessageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Msg, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Kind)
}

// Unwrap returns the underlying error for chain traversal.
func (e *MessageError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target sentinel.
func (e *MessageError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// StatusFor maps a rejection to the status byte the device answers
// with. Structural and checksum failures collapse into the same wire
// status deliberately; only a missing payload is distinguishable.
func StatusFor(err error) types.Status {
	switch {
	case err == nil:
		return types.StatusOK
	case errors.Is(err, ErrPayloadMissing):
		return types.StatusErrNoData
	default:
		return types.StatusErrVerify
	}
}
