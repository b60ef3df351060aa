//go:build !wasm

package serial

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// tarmPort is a host serial device opened through tarm/serial.
type tarmPort struct {
	*serial.Port
	device string
}

// Open opens the device described by cfg. A nil cfg is an error; use
// DefaultConfig for the bench's settings.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("serial: nil config")
	}
	p, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", cfg.Device, err)
	}
	return &tarmPort{Port: p, device: cfg.Device}, nil
}

// String returns the device path.
func (p *tarmPort) String() string {
	return p.device
}
