package device

import (
	"bytes"
	"testing"

	"github.com/lumatrix/vfdstream/delta"
	"github.com/lumatrix/vfdstream/types"
)

// A lost delta frame leaves the device state stale, and the periodic
// keyframe is the only repair mechanism: there is no retransmission.
// This exercises the drift bound end to end through the real encoder
// and the real apply path.
func TestDevice_KeyframeRepairsLostDelta(t *testing.T) {
	const interval = 4
	enc := delta.NewEncoder(types.FrameSize, interval, true)
	d := newTestDevice(nil, nil)

	cur := make([]byte, types.FrameSize)
	diverged := false

	for i := 0; i < interval+1; i++ {
		cur[i*3] = byte(0xC0 + i)

		kind, payload, err := enc.Encode(cur)
		if err != nil {
			t.Fatalf("frame %d: Encode failed: %v", i, err)
		}

		if i == 1 {
			// The first delta is lost in transit. The encoder has
			// already advanced its reference, mirroring enqueue-time
			// reference updates.
			if kind != types.FrameDelta {
				t.Fatalf("frame 1: kind = %v, want delta", kind)
			}
			continue
		}

		if status := feed(t, d, framePacket(t, kind, payload)); status != types.StatusOK {
			t.Fatalf("frame %d: status = %#x, want OK", i, byte(status))
		}

		matches := bytes.Equal(d.State(), cur)
		switch {
		case i == 0:
			if !matches {
				t.Fatalf("initial full frame not applied")
			}
		case i < interval:
			// Between the loss and the next keyframe the state is
			// allowed (and here expected) to be stale.
			if !matches {
				diverged = true
			}
		case i == interval:
			if !matches {
				t.Fatalf("state still stale after keyframe at frame %d", i)
			}
		}
	}

	if !diverged {
		t.Error("lost delta never caused divergence; test exercised nothing")
	}
}
