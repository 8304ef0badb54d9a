// Package cmd provides CLI commands for the vfdstream binary.
package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/lumatrix/vfdstream/config"
)

// Shared flags for commands that open a serial link.
var (
	// ConfigFlag points at a YAML settings file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to YAML config file",
	}

	// PortFlag selects the serial device.
	PortFlag = &cli.StringFlag{
		Name:    "port",
		Aliases: []string{"p"},
		Usage:   "Serial device path (e.g. /dev/ttyUSB0)",
	}

	// BaudFlag overrides the link speed.
	BaudFlag = &cli.IntFlag{
		Name:  "baud",
		Usage: "Link speed in bits per second",
	}
)

// LinkFlags returns the shared flags for commands that open a link.
func LinkFlags() []cli.Flag {
	return []cli.Flag{
		ConfigFlag,
		PortFlag,
		BaudFlag,
	}
}

// loadSettings resolves the effective configuration: file values first,
// then flag overrides, then validation.
func loadSettings(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if port := c.String("port"); port != "" {
		cfg.Port = port
	}
	if baud := c.Int("baud"); baud > 0 {
		cfg.Baud = baud
	}
	if c.IsSet("ack-timeout") {
		cfg.AckTimeout = config.Duration{Duration: c.Duration("ack-timeout")}
	}
	if c.IsSet("keyframe-interval") {
		cfg.KeyframeInterval = c.Int("keyframe-interval")
	}
	if c.IsSet("queue-depth") {
		cfg.QueueDepth = c.Int("queue-depth")
	}
	if c.Bool("no-compress") {
		off := false
		cfg.Compress = &off
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Port == "" {
		return nil, fmt.Errorf("no serial port: use --port or set port in the config file")
	}
	return cfg, nil
}
