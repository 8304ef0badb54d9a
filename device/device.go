// Package device implements the consuming endpoint: a host-side stand
// in for the display firmware. It owns the persistent framebuffer,
// applies validated frames to it, and answers every packet with a
// single status byte.
package device

import (
	"context"
	"errors"
	"io"

	"github.com/lumatrix/vfdstream/delta"
	"github.com/lumatrix/vfdstream/log"
	"github.com/lumatrix/vfdstream/metrics"
	"github.com/lumatrix/vfdstream/proto"
	"github.com/lumatrix/vfdstream/rle"
	"github.com/lumatrix/vfdstream/types"
	"github.com/lumatrix/vfdstream/wire"
)

// Renderer consumes the reconstructed framebuffer after every
// processed packet. The display layer behind it is opaque to the
// protocol.
type Renderer interface {
	Render(frame []byte) error
}

// BannerRenderer is implemented by renderers that can show a text
// banner before streaming starts.
type BannerRenderer interface {
	Banner(text string) error
}

// Options configures a Device.
type Options struct {
	// FrameSize is the framebuffer size in bytes.
	FrameSize int
	// Renderer receives the framebuffer after each packet. Optional.
	Renderer Renderer
	// Logger receives protocol events. Defaults to a stderr logger.
	Logger *log.Logger
	// Collector receives protocol counters. Optional.
	Collector *metrics.Collector
}

// Device processes packets one at a time, fully, in arrival order.
// That single-outstanding-packet property is what makes the producer's
// stop-and-wait discipline sufficient as the only backpressure
// mechanism.
type Device struct {
	link      io.ReadWriter
	state     []byte
	renderer  Renderer
	logger    *log.Logger
	collector *metrics.Collector
}

// New creates a Device with a zeroed framebuffer. The buffer is
// allocated once and never reallocated; only validated frames mutate
// it.
func New(link io.ReadWriter, opts Options) *Device {
	if opts.FrameSize <= 0 {
		opts.FrameSize = types.FrameSize
	}
	if opts.Logger == nil {
		opts.Logger = log.NewLogger("device", "")
	}
	return &Device{
		link:      link,
		state:     make([]byte, opts.FrameSize),
		renderer:  opts.Renderer,
		logger:    opts.Logger,
		collector: opts.Collector,
	}
}

// State returns a copy of the current framebuffer.
func (d *Device) State() []byte {
	return append([]byte(nil), d.state...)
}

// Run serves packets until the link ends or ctx is canceled. Since the
// deframer blocks in a read, cancellation takes effect once the link
// is closed; callers shutting down should close the link after
// canceling ctx.
//
// On startup the device shows its boot banner and emits one OK status;
// the producer's bootstrap waits on that byte.
func (d *Device) Run(ctx context.Context) error {
	if br, ok := d.renderer.(BannerRenderer); ok {
		if err := br.Banner("Stream Ready"); err != nil {
			d.logger.Warn("banner failed", map[string]any{"error": err.Error()})
		}
	}
	d.sendStatus(types.StatusOK)

	deframer := wire.NewDeframer(d.link, types.MaxPacketSize)
	for {
		pkt, err := deframer.Next()
		d.collector.SetFramingDrops(int64(deframer.Dropped()))
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// Empty packets carry nothing and get no status.
		if len(pkt) == 0 {
			continue
		}

		d.sendStatus(d.handlePacket(pkt))
	}
}

// handlePacket runs one packet through the full pipeline: structural
// validation, checksum verification, state application, publish.
// Always returns a status; per-packet failures never stop the loop.
func (d *Device) handlePacket(pkt []byte) types.Status {
	d.collector.IncPacketReceived()

	msg, err := proto.Unmarshal(pkt)
	if err != nil {
		status := proto.StatusFor(err)
		if status == types.StatusErrNoData {
			d.collector.IncPayloadMissing()
		} else {
			d.collector.IncVerifyFailure()
		}
		d.logger.Warn("frame rejected", map[string]any{
			"error":  err.Error(),
			"status": status.String(),
		})
		return status
	}

	switch msg.Kind {
	case types.FrameFull:
		// Oversized full frames are skipped without touching state,
		// but the packet is still published and acknowledged.
		if len(msg.Data) <= len(d.state) {
			copy(d.state, msg.Data)
		}
	case types.FrameDelta:
		diff := rle.Decode(msg.Data, len(d.state))
		if len(diff) == len(d.state) {
			delta.Apply(d.state, diff)
		} else {
			// Truncated delta: discard without applying. The frame is
			// still rendered and acknowledged OK, matching the shipped
			// firmware; only the counter records the loss.
			d.collector.IncDeltaDiscarded()
			d.logger.Debug("delta discarded", map[string]any{
				"decoded":  len(diff),
				"expected": len(d.state),
			})
		}
	}

	d.publish()
	d.collector.IncPacketApplied()
	return types.StatusOK
}

// publish hands the framebuffer to the renderer.
func (d *Device) publish() {
	if d.renderer == nil {
		return
	}
	if err := d.renderer.Render(d.state); err != nil {
		d.logger.Warn("render failed", map[string]any{"error": err.Error()})
	}
}

// sendStatus writes one unframed status byte back to the producer.
func (d *Device) sendStatus(status types.Status) {
	if _, err := d.link.Write([]byte{byte(status)}); err != nil {
		d.logger.Warn("status write failed", map[string]any{"error": err.Error()})
	}
}
