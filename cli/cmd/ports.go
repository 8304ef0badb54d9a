package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/lumatrix/vfdstream/transport"
)

// PortsCommand returns the ports command. Read-only: it enumerates
// serial devices without opening any of them.
func PortsCommand() *cli.Command {
	return &cli.Command{
		Name:   "ports",
		Usage:  "List available serial ports",
		Action: portsAction,
	}
}

func portsAction(c *cli.Context) error {
	ports, err := transport.ListPorts()
	if err != nil {
		return fmt.Errorf("enumerate serial ports: %w", err)
	}

	if len(ports) == 0 {
		fmt.Println("no serial ports found")
		return nil
	}
	for _, p := range ports {
		fmt.Println(p)
	}
	return nil
}
