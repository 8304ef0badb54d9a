package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"github.com/lumatrix/vfdstream/device"
	"github.com/lumatrix/vfdstream/log"
	"github.com/lumatrix/vfdstream/metrics"
	"github.com/lumatrix/vfdstream/render"
	"github.com/lumatrix/vfdstream/transport"
)

// DisplayCommand returns the display command: emulate the display
// endpoint in the terminal.
func DisplayCommand() *cli.Command {
	return &cli.Command{
		Name:  "display",
		Usage: "Emulate the display device on a serial link",
		Flags: append(LinkFlags(),
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Dump frames as text instead of the interactive view",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Suppress the session summary",
			},
		),
		Action: displayAction,
	}
}

func displayAction(c *cli.Context) error {
	cfg, err := loadSettings(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	link, err := transport.OpenSerial(cfg.Port, cfg.Baud)
	if err != nil {
		return fmt.Errorf("open serial port: %w", err)
	}
	defer func() { _ = link.Close() }()

	logger := log.NewLogger("device", cfg.Port)
	collector := metrics.NewCollector("device", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := device.Options{
		FrameSize: cfg.Display.FrameSize(),
		Logger:    logger,
		Collector: collector,
	}

	var prog *tea.Program
	if c.Bool("plain") {
		opts.Renderer = render.NewWriter(os.Stdout, cfg.Display.Width, cfg.Display.Height)
	} else {
		var term *render.Terminal
		term, prog = render.NewTerminal(cfg.Display.Width, cfg.Display.Height)
		opts.Renderer = term
	}

	dev := device.New(link, opts)

	devErr := make(chan error, 1)
	go func() {
		devErr <- dev.Run(ctx)
		cancel()
	}()

	var viewErr error
	if prog != nil {
		// The view owns the terminal until the user quits or the device
		// loop ends; closing the link unblocks the device's read.
		go func() {
			<-ctx.Done()
			prog.Quit()
		}()
		_, viewErr = prog.Run()
	} else {
		<-ctx.Done()
	}

	cancel()
	_ = link.Close()
	err = <-devErr

	if !c.Bool("quiet") {
		printDeviceSummary(collector.Snapshot())
	}

	if viewErr != nil {
		return fmt.Errorf("view: %w", viewErr)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("device: %w", err)
	}
	return nil
}

func printDeviceSummary(snap metrics.Snapshot) {
	fmt.Printf("\n=== Session Summary ===\n")
	fmt.Printf("Packets Received: %d\n", snap.PacketsReceived)
	fmt.Printf("Packets Applied:  %d\n", snap.PacketsApplied)
	fmt.Printf("Verify Failures:  %d\n", snap.VerifyFailures)
	fmt.Printf("Payload Missing:  %d\n", snap.PayloadMissing)
	fmt.Printf("Deltas Discarded: %d\n", snap.DeltasDiscarded)
	fmt.Printf("Framing Drops:    %d\n", snap.FramingDrops)
}
