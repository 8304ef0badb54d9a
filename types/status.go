package types

// Status is the single acknowledgment byte the device writes back
// after processing each packet. It is sent unframed.
type Status byte

// Status byte constants. The values are fixed by the device firmware.
const (
	// StatusOK acknowledges an accepted packet.
	StatusOK Status = 0xA5
	// StatusErrVerify reports a structural or checksum failure. The two
	// are indistinguishable at status-byte granularity.
	StatusErrVerify Status = 0xE1
	// StatusErrNoData reports a message whose payload is absent.
	StatusErrNoData Status = 0xE2
	// StatusErrOther is reserved. The device never emits it.
	StatusErrOther Status = 0xE3
)

// OK returns true for the success acknowledgment.
func (s Status) OK() bool { return s == StatusOK }

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusErrVerify:
		return "verify_failed"
	case StatusErrNoData:
		return "no_data"
	case StatusErrOther:
		return "other"
	default:
		return "unknown"
	}
}
