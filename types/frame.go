package types

// FrameKind discriminates full-state frames from XOR-delta frames.
type FrameKind int8

// Frame kind constants. Values are fixed on the wire; the device
// firmware switches on them directly.
const (
	FrameFull  FrameKind = 0
	FrameDelta FrameKind = 1
)

// Valid returns true for a kind the device knows how to apply.
func (k FrameKind) Valid() bool {
	return k == FrameFull || k == FrameDelta
}

func (k FrameKind) String() string {
	switch k {
	case FrameFull:
		return "full"
	case FrameDelta:
		return "delta"
	default:
		return "unknown"
	}
}

// Display geometry and wire limits for the reference device
// (Futaba NAGP1250 class VFD, 140x32 px at 1 bpp).
const (
	// DisplayWidth is the horizontal pixel count.
	DisplayWidth = 140
	// DisplayHeight is the vertical pixel count.
	DisplayHeight = 32
	// FrameSize is the packed framebuffer size in bytes (1 bit per pixel).
	FrameSize = DisplayWidth * DisplayHeight / 8
	// MaxPacketSize is the largest decoded packet the device accepts.
	MaxPacketSize = 1024
)

// FrameMessage is the unit of transfer between producer and device.
// All fields use msgpack tags to match the device wire format.
type FrameMessage struct {
	// Kind selects full replacement or XOR delta application.
	Kind FrameKind `msgpack:"type"`
	// Data is the payload: the raw framebuffer for full frames, or a
	// run-length compressed XOR diff for delta frames. Never empty on
	// a valid message.
	Data []byte `msgpack:"data"`
	// Checksum is CRC32 (IEEE) over Data, exactly as carried in Data.
	Checksum uint32 `msgpack:"crc32"`
}
