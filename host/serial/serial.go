// Package serial opens the bench's console port from the host.
package serial

import (
	"io"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - In-memory pipes (simulation and tests)
type Port interface {
	io.ReadWriteCloser

	// Flush discards unread input and unsent output
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (USB CDC on the Teensy ignores this)
	Baud int

	// Read timeout in milliseconds (0 = blocking). A read that times out
	// returns io.EOF.
	ReadTimeout int
}

// DefaultConfig returns the configuration both boards' consoles use
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}
