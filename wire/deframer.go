package wire

import (
	"bufio"
	"io"
)

// receiveBufSize mirrors the device-side serial receive buffer.
const receiveBufSize = 2048

// Deframer splits a continuous byte stream into decoded packets.
//
// It is a pull-based iterator: each Next call buffers bytes until a
// delimiter is observed, unstuffs the buffered run, and returns the
// decoded packet. Internal state resets at every delimiter whether or
// not the run decoded cleanly, so one corrupted packet never takes
// down framing for the packets behind it.
type Deframer struct {
	r   *bufio.Reader
	buf []byte
	max int

	// dropped counts packets discarded for overflow or decode failure
	// since the deframer was created.
	dropped uint64
}

// NewDeframer wraps r with a packet iterator. maxPacket bounds the
// stuffed size of a single packet; longer runs are dropped without
// tearing down the stream.
func NewDeframer(r io.Reader, maxPacket int) *Deframer {
	return &Deframer{
		r:   bufio.NewReaderSize(r, receiveBufSize),
		buf: make([]byte, 0, maxPacket),
		max: maxPacket,
	}
}

// Next returns the next decoded packet in arrival order. Oversized and
// undecodable runs are skipped. Returns io.EOF once the underlying
// stream ends with no packet pending.
func (d *Deframer) Next() ([]byte, error) {
	d.buf = d.buf[:0]
	overflow := false

	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return nil, err
		}

		if b != Delimiter {
			if len(d.buf) == d.max {
				overflow = true
				continue
			}
			d.buf = append(d.buf, b)
			continue
		}

		if overflow {
			d.dropped++
			d.buf = d.buf[:0]
			overflow = false
			continue
		}

		pkt, err := Decode(d.buf)
		d.buf = d.buf[:0]
		if err != nil {
			d.dropped++
			continue
		}
		return pkt, nil
	}
}

// Dropped reports how many packets were discarded for overflow or
// framing corruption.
func (d *Deframer) Dropped() uint64 {
	return d.dropped
}
