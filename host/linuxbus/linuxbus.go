//go:build !tinygo

// Package linuxbus runs the codec from a Linux host: the control port on
// an I2C adapter and the reset line on a GPIO, both through periph.
package linuxbus

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"codecbench/core"
)

var ErrUnknownPin = errors.New("linuxbus: unknown GPIO pin")

// Bus is an opened I2C adapter. It satisfies the drivers.I2C interface.
type Bus struct {
	bus i2c.BusCloser
}

// Open initializes the host drivers and opens the named I2C bus ("" for
// the first one) at speedHz.
func Open(name string, speedHz int64) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", name, err)
	}
	if speedHz > 0 {
		if err := b.SetSpeed(physic.Frequency(speedHz) * physic.Hertz); err != nil {
			b.Close()
			return nil, fmt.Errorf("set i2c speed: %w", err)
		}
	}
	return &Bus{bus: b}, nil
}

// Tx implements drivers.I2C.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	return b.bus.Tx(addr, w, r)
}

// Close releases the adapter.
func (b *Bus) Close() error {
	return b.bus.Close()
}

func (b *Bus) String() string {
	return b.bus.String()
}

// GPIO is a core.GPIODriver over gpioreg pins. core pin numbers map to
// registered names; unmapped numbers are looked up as "GPIO<n>".
type GPIO struct {
	names map[core.GPIOPin]string
	pins  map[core.GPIOPin]gpio.PinIO
}

// NewGPIO returns a driver with the given pin names.
func NewGPIO(names map[core.GPIOPin]string) *GPIO {
	if names == nil {
		names = make(map[core.GPIOPin]string)
	}
	return &GPIO{names: names, pins: make(map[core.GPIOPin]gpio.PinIO)}
}

func (g *GPIO) lookup(pin core.GPIOPin) (gpio.PinIO, error) {
	if p, ok := g.pins[pin]; ok {
		return p, nil
	}
	name, ok := g.names[pin]
	if !ok {
		name = "GPIO" + core.Utoa(uint32(pin))
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPin, name)
	}
	g.pins[pin] = p
	return p, nil
}

// ConfigureOutput implements core.GPIODriver. The pin starts low, which
// holds the codec in reset.
func (g *GPIO) ConfigureOutput(pin core.GPIOPin) error {
	p, err := g.lookup(pin)
	if err != nil {
		return err
	}
	return p.Out(gpio.Low)
}

// SetPin implements core.GPIODriver.
func (g *GPIO) SetPin(pin core.GPIOPin, value bool) error {
	p, err := g.lookup(pin)
	if err != nil {
		return err
	}
	return p.Out(gpio.Level(value))
}

// GetPin implements core.GPIODriver.
func (g *GPIO) GetPin(pin core.GPIOPin) (bool, error) {
	p, err := g.lookup(pin)
	if err != nil {
		return false, err
	}
	return p.Read() == gpio.High, nil
}
