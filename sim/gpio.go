package sim

import (
	"errors"

	"codecbench/core"
)

var errPinNotOutput = errors.New("sim: pin not configured as output")

// PinChange is one recorded output transition.
type PinChange struct {
	Pin   core.GPIOPin
	Value bool
	Clock uint32
}

// Pins is a core.GPIODriver that records every output change with the
// system time it happened at.
type Pins struct {
	Changes []PinChange

	outputs map[core.GPIOPin]bool
	levels  map[core.GPIOPin]bool
}

// NewPins returns a driver with no pins configured.
func NewPins() *Pins {
	return &Pins{
		outputs: make(map[core.GPIOPin]bool),
		levels:  make(map[core.GPIOPin]bool),
	}
}

// ConfigureOutput implements core.GPIODriver.
func (p *Pins) ConfigureOutput(pin core.GPIOPin) error {
	p.outputs[pin] = true
	return nil
}

// SetPin implements core.GPIODriver.
func (p *Pins) SetPin(pin core.GPIOPin, value bool) error {
	if !p.outputs[pin] {
		return errPinNotOutput
	}
	p.levels[pin] = value
	p.Changes = append(p.Changes, PinChange{Pin: pin, Value: value, Clock: core.GetTime()})
	return nil
}

// GetPin implements core.GPIODriver.
func (p *Pins) GetPin(pin core.GPIOPin) (bool, error) {
	return p.levels[pin], nil
}
