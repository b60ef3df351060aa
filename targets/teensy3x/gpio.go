//go:build teensy36

package main

import (
	"errors"
	"machine"

	"codecbench/core"
)

var errPinNotConfigured = errors.New("gpio: pin not configured as output")

// TeensyGPIODriver implements core.GPIODriver with machine pins. core pin
// numbers are machine.Pin values.
type TeensyGPIODriver struct {
	configuredPins map[core.GPIOPin]machine.Pin
}

// NewTeensyGPIODriver returns a driver with no pins configured.
func NewTeensyGPIODriver() *TeensyGPIODriver {
	return &TeensyGPIODriver{configuredPins: make(map[core.GPIOPin]machine.Pin)}
}

func (d *TeensyGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.configuredPins[pin] = p
	return nil
}

func (d *TeensyGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	p, ok := d.configuredPins[pin]
	if !ok {
		return errPinNotConfigured
	}
	p.Set(value)
	return nil
}

func (d *TeensyGPIODriver) GetPin(pin core.GPIOPin) (bool, error) {
	p, ok := d.configuredPins[pin]
	if !ok {
		return false, errPinNotConfigured
	}
	return p.Get(), nil
}
