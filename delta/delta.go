// Package delta decides between full and XOR-delta frame encodings on
// the producer side, and applies diffs on the consumer side.
package delta

import (
	"fmt"

	"github.com/lumatrix/vfdstream/rle"
	"github.com/lumatrix/vfdstream/types"
)

// DefaultKeyframeInterval forces a full frame every 30th frame, which
// bounds the staleness caused by a single lost delta to 29 frames.
const DefaultKeyframeInterval = 30

// Encoder chooses the cheapest valid representation of each outgoing
// frame. Not safe for concurrent use; the producer owns it exclusively.
type Encoder struct {
	// ref mirrors what the device framebuffer should contain after the
	// last enqueued frame. It is updated at enqueue time, on the
	// assumption of eventual delivery; periodic keyframes repair drift
	// when that assumption fails.
	ref      []byte
	size     int
	interval int
	compress bool
	count    uint64
}

// NewEncoder creates an encoder for fixed-size frames.
// interval is the keyframe period in frames; values below 1 fall back
// to DefaultKeyframeInterval. compress false disables deltas entirely.
func NewEncoder(size, interval int, compress bool) *Encoder {
	if interval < 1 {
		interval = DefaultKeyframeInterval
	}
	return &Encoder{
		size:     size,
		interval: interval,
		compress: compress,
	}
}

// Encode picks the representation for cur and advances the reference
// buffer. A delta is chosen only when compression is enabled, a
// reference exists, this is not a keyframe slot, and the compressed
// diff is strictly smaller than the raw frame. The returned payload is
// owned by the caller.
func (e *Encoder) Encode(cur []byte) (types.FrameKind, []byte, error) {
	if len(cur) != e.size {
		return 0, nil, fmt.Errorf("frame is %d bytes, want %d", len(cur), e.size)
	}

	keyframe := e.count%uint64(e.interval) == 0
	e.count++

	var kind types.FrameKind
	var payload []byte

	if e.compress && e.ref != nil && !keyframe {
		diff := make([]byte, e.size)
		for i := range cur {
			diff[i] = cur[i] ^ e.ref[i]
		}
		if comp := rle.Encode(diff); len(comp) < e.size {
			kind = types.FrameDelta
			payload = comp
		}
	}

	if payload == nil {
		kind = types.FrameFull
		payload = append([]byte(nil), cur...)
	}

	if e.ref == nil {
		e.ref = make([]byte, e.size)
	}
	copy(e.ref, cur)

	return kind, payload, nil
}

// Reset forgets the reference buffer and keyframe phase, forcing the
// next frame to full. Used when the link is (re)opened.
func (e *Encoder) Reset() {
	e.ref = nil
	e.count = 0
}

// Apply XORs a decoded diff into state in place. Both buffers must be
// the same length; the caller verifies that before calling.
func Apply(state, diff []byte) {
	for i := range diff {
		state[i] ^= diff[i]
	}
}
