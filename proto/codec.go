package proto

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/lumatrix/vfdstream/types"
)

// Marshal serializes a frame for transmission, computing the checksum
// over the payload bytes. The payload must be non-empty and within the
// device packet bound.
func Marshal(kind types.FrameKind, payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, &MessageError{Kind: ErrPayloadMissing, Msg: "marshal frame"}
	}
	if len(payload) > types.MaxPacketSize {
		return nil, &MessageError{Kind: ErrFrameTooLarge, Msg: "marshal frame"}
	}

	msg := types.FrameMessage{
		Kind:     kind,
		Data:     payload,
		Checksum: Checksum(payload),
	}
	out, err := msgpack.Marshal(&msg)
	if err != nil {
		return nil, &MessageError{Kind: ErrStructuralInvalid, Msg: "marshal frame", Err: err}
	}
	return out, nil
}

// Unmarshal verifies and decodes one received record.
//
// Verification order matches the device: structural decode first (no
// field is read from an unverified buffer), then payload presence,
// then checksum over the payload bytes. The returned message is only
// valid when err is nil.
func Unmarshal(p []byte) (*types.FrameMessage, error) {
	var msg types.FrameMessage
	if err := msgpack.Unmarshal(p, &msg); err != nil {
		return nil, &MessageError{Kind: ErrStructuralInvalid, Msg: "decode frame", Err: err}
	}
	if !msg.Kind.Valid() {
		return nil, &MessageError{Kind: ErrStructuralInvalid, Msg: "decode frame kind"}
	}
	if len(msg.Data) == 0 {
		return nil, &MessageError{Kind: ErrPayloadMissing, Msg: "decode frame"}
	}
	if len(msg.Data) > types.MaxPacketSize {
		return nil, &MessageError{Kind: ErrFrameTooLarge, Msg: "decode frame"}
	}
	if Checksum(msg.Data) != msg.Checksum {
		return nil, &MessageError{Kind: ErrChecksumMismatch, Msg: "verify frame"}
	}
	return &msg, nil
}
