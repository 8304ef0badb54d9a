package metrics

import (
	"sync"
	"testing"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector("producer", "/dev/ttyUSB0")

	c.IncFrameSent(false, 600)
	c.IncFrameSent(true, 90)
	c.IncFrameSent(true, 110)
	c.IncAck(true)
	c.IncAck(true)
	c.IncAck(false)
	c.IncAckTimeout()
	c.IncQueueDrop()

	s := c.Snapshot()
	if s.FramesSent != 3 {
		t.Errorf("FramesSent = %d, want 3", s.FramesSent)
	}
	if s.FullFrames != 1 || s.DeltaFrames != 2 {
		t.Errorf("Full/Delta = %d/%d, want 1/2", s.FullFrames, s.DeltaFrames)
	}
	if s.BytesOnWire != 800 {
		t.Errorf("BytesOnWire = %d, want 800", s.BytesOnWire)
	}
	if s.AcksOK != 2 || s.AcksError != 1 {
		t.Errorf("AcksOK/AcksError = %d/%d, want 2/1", s.AcksOK, s.AcksError)
	}
	if s.AckTimeouts != 1 {
		t.Errorf("AckTimeouts = %d, want 1", s.AckTimeouts)
	}
	if s.QueueDrops != 1 {
		t.Errorf("QueueDrops = %d, want 1", s.QueueDrops)
	}
	if s.Role != "producer" || s.Port != "/dev/ttyUSB0" {
		t.Errorf("dimensions = %q/%q", s.Role, s.Port)
	}
}

func TestCollector_NilReceiverSafe(t *testing.T) {
	var c *Collector
	c.IncFrameSent(true, 10)
	c.IncAck(true)
	c.IncAckTimeout()
	c.IncQueueDrop()
	c.IncPacketReceived()
	c.IncPacketApplied()
	c.IncVerifyFailure()
	c.IncPayloadMissing()
	c.IncDeltaDiscarded()
	c.SetFramingDrops(3)

	if s := c.Snapshot(); s != (Snapshot{}) {
		t.Errorf("nil collector snapshot not zero: %+v", s)
	}
}

func TestCollector_ConcurrentIncrements(t *testing.T) {
	c := NewCollector("device", "")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.IncPacketReceived()
				c.IncPacketApplied()
			}
		}()
	}
	wg.Wait()

	s := c.Snapshot()
	if s.PacketsReceived != 800 || s.PacketsApplied != 800 {
		t.Errorf("counters = %d/%d, want 800/800", s.PacketsReceived, s.PacketsApplied)
	}
}
