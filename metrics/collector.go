// Package metrics provides per-session protocol counters.
//
// The Collector accumulates counters for one link session. It is a
// leaf package with no internal dependencies. Counters feed shutdown
// summaries and tests; there is no exporter.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of the session counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after
// creation.
type Snapshot struct {
	// Producer side
	FramesSent  int64
	FullFrames  int64
	DeltaFrames int64
	AcksOK      int64
	AcksError   int64
	AckTimeouts int64
	QueueDrops  int64
	BytesOnWire int64

	// Device side
	PacketsReceived int64
	PacketsApplied  int64
	VerifyFailures  int64
	PayloadMissing  int64
	DeltasDiscarded int64
	FramingDrops    int64

	// Dimensions (informational, set at construction)
	Role string
	Port string
}

// Collector accumulates protocol counters for a single session.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver
// safe so wiring is optional everywhere.
type Collector struct {
	mu sync.Mutex

	framesSent  int64
	fullFrames  int64
	deltaFrames int64
	acksOK      int64
	acksError   int64
	ackTimeouts int64
	queueDrops  int64
	bytesOnWire int64

	packetsReceived int64
	packetsApplied  int64
	verifyFailures  int64
	payloadMissing  int64
	deltasDiscarded int64
	framingDrops    int64

	role string
	port string
}

// NewCollector creates a Collector with dimension labels.
func NewCollector(role, port string) *Collector {
	return &Collector{role: role, port: port}
}

// IncFrameSent records one emitted frame of the given kind and its
// on-wire size.
func (c *Collector) IncFrameSent(delta bool, wireBytes int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.framesSent++
	if delta {
		c.deltaFrames++
	} else {
		c.fullFrames++
	}
	c.bytesOnWire += int64(wireBytes)
	c.mu.Unlock()
}

// IncAck records a received acknowledgment byte.
func (c *Collector) IncAck(ok bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	if ok {
		c.acksOK++
	} else {
		c.acksError++
	}
	c.mu.Unlock()
}

// IncAckTimeout records a liveness timer expiry with no ack.
func (c *Collector) IncAckTimeout() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.ackTimeouts++
	c.mu.Unlock()
}

// IncQueueDrop records a frame dropped because the send queue was full.
func (c *Collector) IncQueueDrop() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.queueDrops++
	c.mu.Unlock()
}

// IncPacketReceived records one deframed packet on the device side.
func (c *Collector) IncPacketReceived() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.packetsReceived++
	c.mu.Unlock()
}

// IncPacketApplied records a packet that mutated or republished state.
func (c *Collector) IncPacketApplied() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.packetsApplied++
	c.mu.Unlock()
}

// IncVerifyFailure records a structural or checksum rejection.
func (c *Collector) IncVerifyFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.verifyFailures++
	c.mu.Unlock()
}

// IncPayloadMissing records a message with no payload.
func (c *Collector) IncPayloadMissing() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.payloadMissing++
	c.mu.Unlock()
}

// IncDeltaDiscarded records a delta whose decode missed the exact
// framebuffer size and was dropped without application.
func (c *Collector) IncDeltaDiscarded() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.deltasDiscarded++
	c.mu.Unlock()
}

// SetFramingDrops records the deframer's running drop count.
func (c *Collector) SetFramingDrops(n int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.framingDrops = n
	c.mu.Unlock()
}

// Snapshot returns an immutable copy of all counters.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		FramesSent:      c.framesSent,
		FullFrames:      c.fullFrames,
		DeltaFrames:     c.deltaFrames,
		AcksOK:          c.acksOK,
		AcksError:       c.acksError,
		AckTimeouts:     c.ackTimeouts,
		QueueDrops:      c.queueDrops,
		BytesOnWire:     c.bytesOnWire,
		PacketsReceived: c.packetsReceived,
		PacketsApplied:  c.packetsApplied,
		VerifyFailures:  c.verifyFailures,
		PayloadMissing:  c.payloadMissing,
		DeltasDiscarded: c.deltasDiscarded,
		FramingDrops:    c.framingDrops,
		Role:            c.role,
		Port:            c.port,
	}
}
