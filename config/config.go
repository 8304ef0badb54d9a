// Package config loads link and protocol settings from a YAML file.
//
// All values are optional and fall back to the reference defaults.
// CLI flags override config values.
package config

import (
	"fmt"
	"time"

	"github.com/lumatrix/vfdstream/types"
)

// Reference defaults, matching the shipped device firmware.
const (
	DefaultBaud             = 230400
	DefaultAckTimeout       = 200 * time.Millisecond
	DefaultKeyframeInterval = 30
	DefaultQueueDepth       = 8
)

// Config represents a vfdstream.yaml configuration file.
type Config struct {
	// Port is the serial device path (e.g. /dev/ttyUSB0).
	Port string `yaml:"port"`
	// Baud is the link speed in bits per second.
	Baud int `yaml:"baud"`
	// AckTimeout bounds how long the producer waits for a status byte
	// before forcing itself ready again.
	AckTimeout Duration `yaml:"ack_timeout"`
	// Compress enables delta frames. Off means every frame is full.
	Compress *bool `yaml:"compress"`
	// KeyframeInterval forces a full frame every N frames.
	KeyframeInterval int `yaml:"keyframe_interval"`
	// QueueDepth is the producer's send queue capacity in frames.
	QueueDepth int `yaml:"queue_depth"`
	// Display describes the target framebuffer geometry.
	Display DisplayConfig `yaml:"display"`
}

// DisplayConfig holds the framebuffer geometry, 1 bit per pixel.
type DisplayConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// FrameSize returns the packed framebuffer size in bytes.
func (d DisplayConfig) FrameSize() int {
	return d.Width * d.Height / 8
}

// Duration wraps time.Duration for YAML string parsing (e.g. "200ms").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "200ms" or "1s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Default returns the reference configuration.
func Default() *Config {
	compress := true
	return &Config{
		Baud:             DefaultBaud,
		AckTimeout:       Duration{DefaultAckTimeout},
		Compress:         &compress,
		KeyframeInterval: DefaultKeyframeInterval,
		QueueDepth:       DefaultQueueDepth,
		Display: DisplayConfig{
			Width:  types.DisplayWidth,
			Height: types.DisplayHeight,
		},
	}
}

// ApplyDefaults fills every unset field from the reference defaults.
func (c *Config) ApplyDefaults() {
	d := Default()
	if c.Baud == 0 {
		c.Baud = d.Baud
	}
	if c.AckTimeout.Duration == 0 {
		c.AckTimeout = d.AckTimeout
	}
	if c.Compress == nil {
		c.Compress = d.Compress
	}
	if c.KeyframeInterval == 0 {
		c.KeyframeInterval = d.KeyframeInterval
	}
	if c.QueueDepth == 0 {
		c.QueueDepth = d.QueueDepth
	}
	if c.Display.Width == 0 {
		c.Display.Width = d.Display.Width
	}
	if c.Display.Height == 0 {
		c.Display.Height = d.Display.Height
	}
}

// Validate checks field ranges after defaults are applied.
func (c *Config) Validate() error {
	if c.Baud <= 0 {
		return fmt.Errorf("baud must be positive, got %d", c.Baud)
	}
	if c.AckTimeout.Duration <= 0 {
		return fmt.Errorf("ack_timeout must be positive, got %v", c.AckTimeout.Duration)
	}
	if c.KeyframeInterval < 1 {
		return fmt.Errorf("keyframe_interval must be at least 1, got %d", c.KeyframeInterval)
	}
	if c.QueueDepth < 1 {
		return fmt.Errorf("queue_depth must be at least 1, got %d", c.QueueDepth)
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("display geometry must be positive, got %dx%d", c.Display.Width, c.Display.Height)
	}
	if c.Display.Width*c.Display.Height%8 != 0 {
		return fmt.Errorf("display pixel count %d is not byte-aligned", c.Display.Width*c.Display.Height)
	}
	if c.Display.FrameSize() > types.MaxPacketSize {
		return fmt.Errorf("frame size %d exceeds packet bound %d", c.Display.FrameSize(), types.MaxPacketSize)
	}
	return nil
}
