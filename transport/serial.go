// Package transport opens the byte link the protocol runs over.
//
// The physical layer is opaque to the protocol: anything satisfying
// Link works, including the in-memory pipe used by tests.
package transport

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

// Link is a reliable-ordered, lossy-at-the-message-level byte stream
// between the two endpoints.
type Link interface {
	io.ReadWriteCloser
}

// OpenSerial opens a serial port in 8N1 mode at the given speed.
func OpenSerial(path string, baud int) (Link, error) {
	port, err := serial.Open(path, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", path, err)
	}
	return port, nil
}

// ListPorts returns the serial port paths visible on this host.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}
