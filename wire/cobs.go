// Package wire implements packet framing for the serial link.
//
// Packets are delimited with Consistent Overhead Byte Stuffing: the
// encoded form never contains 0x00 except as the trailing terminator,
// so a receiver can resynchronize on any terminator regardless of how
// much of the preceding stream was lost or corrupted.
package wire

import (
	"errors"
	"fmt"
)

// Delimiter terminates every encoded packet on the wire.
const Delimiter byte = 0x00

// maxBlock is the longest run of non-delimiter bytes a single code
// byte can cover.
const maxBlock = 0xFE

// ErrMalformed reports a stuffed run that cannot be decoded.
var ErrMalformed = errors.New("malformed cobs data")

// EncodedSizeBound returns the worst-case encoded size for n payload
// bytes, including the trailing delimiter.
func EncodedSizeBound(n int) int {
	return n + n/maxBlock + 2
}

// Encode stuffs p and appends the packet delimiter. The result is safe
// to write to the link as one self-delimiting packet.
func Encode(p []byte) []byte {
	dst := make([]byte, 0, EncodedSizeBound(len(p)))

	codeIdx := 0
	dst = append(dst, 0)
	code := byte(1)

	for _, b := range p {
		if b == Delimiter {
			dst[codeIdx] = code
			codeIdx = len(dst)
			dst = append(dst, 0)
			code = 1
			continue
		}
		dst = append(dst, b)
		code++
		if code == 0xFF {
			dst[codeIdx] = code
			codeIdx = len(dst)
			dst = append(dst, 0)
			code = 1
		}
	}
	dst[codeIdx] = code

	return append(dst, Delimiter)
}

// Decode unstuffs one encoded run. p must not include the trailing
// delimiter. An empty run decodes to an empty packet.
func Decode(p []byte) ([]byte, error) {
	if len(p) == 0 {
		return nil, nil
	}

	dst := make([]byte, 0, len(p))
	for i := 0; i < len(p); {
		code := p[i]
		if code == Delimiter {
			return nil, fmt.Errorf("%w: delimiter inside run at offset %d", ErrMalformed, i)
		}
		i++

		n := int(code) - 1
		if i+n > len(p) {
			return nil, fmt.Errorf("%w: code %d at offset %d overruns input", ErrMalformed, code, i-1)
		}
		dst = append(dst, p[i:i+n]...)
		i += n

		// A full 254-byte block carries no implicit zero.
		if code != 0xFF && i < len(p) {
			dst = append(dst, Delimiter)
		}
	}
	return dst, nil
}
