package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lumatrix/vfdstream/log"
	"github.com/lumatrix/vfdstream/metrics"
	"github.com/lumatrix/vfdstream/producer"
	"github.com/lumatrix/vfdstream/transport"
)

// SendCommand returns the send command: stream framebuffer snapshots
// to a display over a serial link.
func SendCommand() *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: "Stream raw framebuffer snapshots to a display",
		Flags: append(LinkFlags(),
			&cli.StringFlag{
				Name:    "frames",
				Aliases: []string{"i"},
				Usage:   "Raw frame source: file of concatenated framebuffers, or - for stdin",
				Value:   "-",
			},
			&cli.Float64Flag{
				Name:  "fps",
				Usage: "Capture rate in frames per second",
				Value: 30,
			},
			&cli.BoolFlag{
				Name:  "loop",
				Usage: "Replay the frame file from the start on EOF",
			},
			&cli.BoolFlag{
				Name:  "no-compress",
				Usage: "Disable delta frames; send every frame in full",
			},
			&cli.IntFlag{
				Name:  "keyframe-interval",
				Usage: "Force a full frame every N frames",
			},
			&cli.DurationFlag{
				Name:  "ack-timeout",
				Usage: "How long to wait for a status byte before forcing ready",
			},
			&cli.IntFlag{
				Name:  "queue-depth",
				Usage: "Send queue capacity in frames",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Suppress the session summary",
			},
		),
		Action: sendAction,
	}
}

func sendAction(c *cli.Context) error {
	cfg, err := loadSettings(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fps := c.Float64("fps")
	if fps <= 0 {
		return cli.Exit("fps must be positive", 1)
	}

	link, err := transport.OpenSerial(cfg.Port, cfg.Baud)
	if err != nil {
		return fmt.Errorf("open serial port: %w", err)
	}
	defer func() { _ = link.Close() }()

	logger := log.NewLogger("producer", cfg.Port)
	collector := metrics.NewCollector("producer", cfg.Port)

	sender := producer.New(link, producer.Options{
		FrameSize:        cfg.Display.FrameSize(),
		AckTimeout:       cfg.AckTimeout.Duration,
		KeyframeInterval: cfg.KeyframeInterval,
		Compress:         *cfg.Compress,
		QueueDepth:       cfg.QueueDepth,
		Logger:           logger,
		Collector:        collector,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- sender.Run(ctx) }()

	feedErr := feedFrames(ctx, c.String("frames"), c.Bool("loop"), cfg.Display.FrameSize(), fps, sender)

	// Let the in-flight frame drain, then stop the flow-control loop.
	cancel()
	err = <-runErr
	_ = link.Close()

	if !c.Bool("quiet") {
		printSessionSummary(collector.Snapshot())
	}

	if feedErr != nil {
		return fmt.Errorf("frame source: %w", feedErr)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stream: %w", err)
	}
	return nil
}

// feedFrames reads fixed-size frames from the source and enqueues them
// at the capture rate until EOF, source error, or cancellation.
func feedFrames(ctx context.Context, source string, loop bool, frameSize int, fps float64, sender *producer.Sender) error {
	open := func() (io.ReadCloser, error) {
		if source == "-" {
			return io.NopCloser(os.Stdin), nil
		}
		return os.Open(source)
	}

	r, err := open()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	ticker := time.NewTicker(time.Duration(float64(time.Second) / fps))
	defer ticker.Stop()

	frame := make([]byte, frameSize)
	for {
		if _, err := io.ReadFull(r, frame); err != nil {
			if errors.Is(err, io.EOF) {
				if loop && source != "-" {
					_ = r.Close()
					if r, err = open(); err != nil {
						return err
					}
					continue
				}
				return nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("trailing partial frame in %s", source)
			}
			return err
		}

		sender.Enqueue(frame)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func printSessionSummary(snap metrics.Snapshot) {
	fmt.Printf("\n=== Session Summary ===\n")
	fmt.Printf("Frames Sent:   %d (full: %d, delta: %d)\n", snap.FramesSent, snap.FullFrames, snap.DeltaFrames)
	fmt.Printf("Bytes On Wire: %d\n", snap.BytesOnWire)
	fmt.Printf("Acks:          %d ok, %d error\n", snap.AcksOK, snap.AcksError)
	fmt.Printf("Ack Timeouts:  %d\n", snap.AckTimeouts)
	fmt.Printf("Queue Drops:   %d\n", snap.QueueDrops)
}
