// Package producer implements the sending endpoint: frame encoding,
// packetization, and the stop-and-wait flow control that paces
// emission to the device's acknowledgment rate.
package producer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/lumatrix/vfdstream/delta"
	"github.com/lumatrix/vfdstream/log"
	"github.com/lumatrix/vfdstream/metrics"
	"github.com/lumatrix/vfdstream/proto"
	"github.com/lumatrix/vfdstream/types"
	"github.com/lumatrix/vfdstream/wire"
)

// helloByte is the bootstrap sentinel sent as the first packet after
// link open. The device answers it with a status byte, which is all
// the producer waits for.
const helloByte byte = 0xFF

// Options configures a Sender. Zero values fall back to the reference
// defaults.
type Options struct {
	// FrameSize is the raw framebuffer size in bytes.
	FrameSize int
	// AckTimeout bounds the wait for a status byte after each send.
	AckTimeout time.Duration
	// KeyframeInterval forces a full frame every N frames.
	KeyframeInterval int
	// Compress enables delta frames.
	Compress bool
	// QueueDepth is the send queue capacity in frames.
	QueueDepth int
	// Logger receives protocol events. Defaults to a stderr logger.
	Logger *log.Logger
	// Collector receives protocol counters. Optional.
	Collector *metrics.Collector
}

// Sender drives one streaming session over a link.
//
// The capture side hands frames to Enqueue; Run drains the queue under
// the stop-and-wait gate. At most one frame is ever outstanding, so
// frames arrive at the device in transmission order with no pipelining.
type Sender struct {
	link      io.ReadWriter
	enc       *delta.Encoder
	queue     chan []byte
	frameSize int
	timeout   time.Duration
	logger    *log.Logger
	collector *metrics.Collector
}

// New creates a Sender for the given link.
func New(link io.ReadWriter, opts Options) *Sender {
	if opts.FrameSize <= 0 {
		opts.FrameSize = types.FrameSize
	}
	if opts.AckTimeout <= 0 {
		opts.AckTimeout = 200 * time.Millisecond
	}
	if opts.QueueDepth <= 0 {
		opts.QueueDepth = 8
	}
	if opts.Logger == nil {
		opts.Logger = log.NewLogger("producer", "")
	}
	return &Sender{
		link:      link,
		enc:       delta.NewEncoder(opts.FrameSize, opts.KeyframeInterval, opts.Compress),
		queue:     make(chan []byte, opts.QueueDepth),
		frameSize: opts.FrameSize,
		timeout:   opts.AckTimeout,
		logger:    opts.Logger,
		collector: opts.Collector,
	}
}

// Enqueue offers a frame for transmission without blocking. The frame
// is copied. Returns false when the queue is full and the frame was
// dropped; dropping here is the bandwidth bound, not an error.
func (s *Sender) Enqueue(frame []byte) bool {
	if len(frame) != s.frameSize {
		return false
	}
	cp := append([]byte(nil), frame...)
	select {
	case s.queue <- cp:
		return true
	default:
		s.collector.IncQueueDrop()
		return false
	}
}

// Run executes the flow-control loop until ctx is canceled or the link
// fails. It bootstraps with the hello packet, then alternates between
// READY (emit the next queued frame) and AWAITING_ACK (one frame
// outstanding, liveness timer armed).
//
// A timer expiry is a liveness guard, not a retransmission trigger:
// the unacknowledged frame is abandoned and the loop moves on, relying
// on periodic keyframes to repair any resulting drift.
func (s *Sender) Run(ctx context.Context) error {
	acks := make(chan byte, 1)
	go s.readAcks(acks)

	if err := s.bootstrap(ctx, acks); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame := <-s.queue:
			if err := s.transmit(frame); err != nil {
				return err
			}
			if err := s.awaitAck(ctx, acks); err != nil {
				return err
			}
		}
	}
}

// readAcks forwards status bytes off the link one at a time. The
// channel closes when the link stops producing bytes.
func (s *Sender) readAcks(acks chan<- byte) {
	defer close(acks)
	buf := make([]byte, 1)
	for {
		n, err := s.link.Read(buf)
		if n == 1 {
			acks <- buf[0]
		}
		if err != nil {
			return
		}
	}
}

// bootstrap sends the hello packet and blocks until the device emits
// its first status byte. Any status value releases the gate.
func (s *Sender) bootstrap(ctx context.Context, acks <-chan byte) error {
	if _, err := s.link.Write(wire.Encode([]byte{helloByte})); err != nil {
		return fmt.Errorf("write hello packet: %w", err)
	}
	s.logger.Info("awaiting device", nil)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case status, ok := <-acks:
		if !ok {
			return fmt.Errorf("link closed before first status byte")
		}
		s.logger.Info("device ready", map[string]any{"status": types.Status(status).String()})
		return nil
	}
}

// transmit encodes and writes one frame packet.
func (s *Sender) transmit(frame []byte) error {
	kind, payload, err := s.enc.Encode(frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	record, err := proto.Marshal(kind, payload)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}

	pkt := wire.Encode(record)
	if _, err := s.link.Write(pkt); err != nil {
		return fmt.Errorf("write frame packet: %w", err)
	}

	s.collector.IncFrameSent(kind == types.FrameDelta, len(pkt))
	s.logger.Debug("frame sent", map[string]any{
		"kind":       kind.String(),
		"payload":    len(payload),
		"wire_bytes": len(pkt),
	})
	return nil
}

// awaitAck blocks in AWAITING_ACK until a status byte arrives or the
// liveness timer fires. The timer is canceled on the ack path so a
// late ack cannot race a stale forced-ready transition.
func (s *Sender) awaitAck(ctx context.Context, acks <-chan byte) error {
	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case status, ok := <-acks:
		if !ok {
			return fmt.Errorf("link closed while awaiting ack")
		}
		st := types.Status(status)
		s.collector.IncAck(st.OK())
		if !st.OK() {
			s.logger.Warn("device rejected frame", map[string]any{"status": st.String()})
		}
		return nil
	case <-timer.C:
		// No ack. Force READY and keep going; the outstanding frame is
		// neither resent nor confirmed.
		s.collector.IncAckTimeout()
		s.logger.Warn("ack timeout, forcing ready", map[string]any{"timeout": s.timeout.String()})
		return nil
	}
}
