package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_FullConfig(t *testing.T) {
	yaml := `port: /dev/ttyUSB1
baud: 115200
ack_timeout: 350ms
compress: false
keyframe_interval: 10
queue_depth: 4

display:
  width: 256
  height: 16
`
	cfg := loadString(t, yaml)

	if cfg.Port != "/dev/ttyUSB1" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.Baud != 115200 {
		t.Errorf("Baud = %d", cfg.Baud)
	}
	if cfg.AckTimeout.Duration != 350*time.Millisecond {
		t.Errorf("AckTimeout = %v", cfg.AckTimeout.Duration)
	}
	if cfg.Compress == nil || *cfg.Compress {
		t.Errorf("Compress = %v, want false", cfg.Compress)
	}
	if cfg.KeyframeInterval != 10 {
		t.Errorf("KeyframeInterval = %d", cfg.KeyframeInterval)
	}
	if cfg.QueueDepth != 4 {
		t.Errorf("QueueDepth = %d", cfg.QueueDepth)
	}
	if cfg.Display.FrameSize() != 512 {
		t.Errorf("FrameSize = %d, want 512", cfg.Display.FrameSize())
	}
}

func TestLoad_EmptyConfigGetsDefaults(t *testing.T) {
	cfg := loadString(t, "port: /dev/ttyUSB0\n")

	if cfg.Baud != DefaultBaud {
		t.Errorf("Baud = %d, want %d", cfg.Baud, DefaultBaud)
	}
	if cfg.AckTimeout.Duration != DefaultAckTimeout {
		t.Errorf("AckTimeout = %v, want %v", cfg.AckTimeout.Duration, DefaultAckTimeout)
	}
	if cfg.Compress == nil || !*cfg.Compress {
		t.Errorf("Compress = %v, want true", cfg.Compress)
	}
	if cfg.KeyframeInterval != DefaultKeyframeInterval {
		t.Errorf("KeyframeInterval = %d, want %d", cfg.KeyframeInterval, DefaultKeyframeInterval)
	}
	if cfg.Display.FrameSize() != 560 {
		t.Errorf("FrameSize = %d, want 560", cfg.Display.FrameSize())
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	_, err := loadStringErr(t, "ack_timeout: soon\n")
	if err == nil || !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("err = %v, want invalid duration", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "zero baud", mutate: func(c *Config) { c.Baud = -1 }, want: "baud"},
		{name: "zero timeout", mutate: func(c *Config) { c.AckTimeout.Duration = -time.Second }, want: "ack_timeout"},
		{name: "zero interval", mutate: func(c *Config) { c.KeyframeInterval = -2 }, want: "keyframe_interval"},
		{name: "zero queue", mutate: func(c *Config) { c.QueueDepth = -1 }, want: "queue_depth"},
		{name: "bad geometry", mutate: func(c *Config) { c.Display.Width = -140 }, want: "geometry"},
		{name: "unaligned pixels", mutate: func(c *Config) { c.Display = DisplayConfig{Width: 3, Height: 3} }, want: "byte-aligned"},
		{
			name:   "frame exceeds packet bound",
			mutate: func(c *Config) { c.Display.Width = 512; c.Display.Height = 64 },
			want:   "packet bound",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate err = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func loadString(t *testing.T, yaml string) *Config {
	t.Helper()
	cfg, err := loadStringErr(t, yaml)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return cfg
}

func loadStringErr(t *testing.T, yaml string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vfdstream.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return Load(path)
}
