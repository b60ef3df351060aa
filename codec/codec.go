// Package codec controls a Cirrus Logic CS4272 through its I2C control
// port: single register writes and reads, the power-up sequence and a
// register dump for bring-up.
package codec

import (
	"errors"
	"io"

	"codecbench/core"
	"codecbench/i2c"

	"tinygo.org/x/drivers"
)

// Messages printed when a register access is not acknowledged.
const (
	MsgAddressNack  = "Codec did not acknowledge address byte.\r\n"
	MsgRegisterNack = "Codec did not acknowledge register address byte.\r\n"
	MsgDataNack     = "Codec did not acknowledge data byte.\r\n"
)

// Ratio selects for Mode Control, by board.
const (
	RatioTeensy = 2 // MCLK = 256 x LRCLK
	RatioFPGA   = 3 // MCLK = 512 x LRCLK
)

// Config describes how the codec is wired.
type Config struct {
	// Address is the 7-bit bus address; zero means Address.
	Address uint16
	// ResetPin drives the codec's active-low reset.
	ResetPin core.GPIOPin
	// RatioSelect is written to the Mode Control ratio field.
	RatioSelect uint8
	// BusInit brings up the I2C engine. It runs first in Init.
	BusInit func() error
	// BusSettleMs is the wait after BusInit; zero means 100.
	BusSettleMs uint32
}

// Device is a CS4272 on an I2C bus.
type Device struct {
	bus  drivers.I2C
	gpio core.GPIODriver
	cfg  Config
	out  io.Writer

	wbuf [2]byte
	rbuf [1]byte
}

// New returns a codec on bus whose reset line is driven through gpio. A nil
// gpio uses the driver registered with core.SetGPIODriver.
func New(bus drivers.I2C, gpio core.GPIODriver, cfg Config) *Device {
	if cfg.Address == 0 {
		cfg.Address = Address
	}
	if cfg.BusSettleMs == 0 {
		cfg.BusSettleMs = 100
	}
	return &Device{bus: bus, gpio: gpio, cfg: cfg}
}

// SetOutput sends acknowledge failure messages to w, normally the serial
// console. Without an output they go to the debug writer.
func (d *Device) SetOutput(w io.Writer) {
	d.out = w
}

func (d *Device) print(msg string) {
	if d.out != nil {
		io.WriteString(d.out, msg)
		return
	}
	core.DebugPrintln(msg)
}

// report prints the message for a failed access. index is the position of
// the unacknowledged byte: 0 the device address, 1 the register, 2 on the
// data.
func (d *Device) report(err error) {
	var nack *i2c.NackError
	switch {
	case errors.As(err, &nack):
		switch nack.Index {
		case 0:
			d.print(MsgAddressNack)
		case 1:
			d.print(MsgRegisterNack)
		default:
			d.print(MsgDataNack)
		}
	case errors.Is(err, i2c.ErrAddressNack):
		d.print(MsgAddressNack)
	case errors.Is(err, i2c.ErrDataNack):
		d.print(MsgDataNack)
	}
}

// WriteRegister writes value to reg in one transaction.
func (d *Device) WriteRegister(reg, value uint8) error {
	d.wbuf[0] = reg
	d.wbuf[1] = value
	err := d.bus.Tx(d.cfg.Address, d.wbuf[:2], nil)
	if err != nil {
		d.report(err)
	}
	return err
}

// ReadRegister sets the address pointer to reg and reads one byte back in
// a single compound transaction, turning the bus around with a repeated
// START. It returns 0 along with the error when any byte is not
// acknowledged.
func (d *Device) ReadRegister(reg uint8) (uint8, error) {
	d.wbuf[0] = reg
	d.rbuf[0] = 0
	if err := d.bus.Tx(d.cfg.Address, d.wbuf[:1], d.rbuf[:1]); err != nil {
		d.report(err)
		return 0, err
	}
	return d.rbuf[0], nil
}

// Init brings up the bus, cycles reset and programs the codec for master
// mode with the configured ratio, leaving it powered up. Register write
// failures are printed but do not stop the sequence; the first one is
// returned at the end.
func (d *Device) Init() error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	if d.cfg.BusInit != nil {
		if err := d.cfg.BusInit(); err != nil {
			return err
		}
	}
	if err := core.Delay(d.cfg.BusSettleMs); err != nil {
		return err
	}

	gpio := d.gpio
	if gpio == nil {
		gpio = core.MustGPIO()
	}
	if err := core.PulseLow(gpio, d.cfg.ResetPin, 1); err != nil {
		return err
	}
	// The control port must be enabled 1-10ms after reset goes high.
	steps := []struct {
		reg, value uint8
		waitMs     uint32
	}{
		{RegModeCtrl2, Mode2PowerDown | Mode2CtrlPortEn, 1},
		{RegModeControl, RatioSelect(d.cfg.RatioSelect) | ModeMaster, 10},
		{RegModeCtrl2, Mode2CtrlPortEn, 10},
	}
	if err := core.Delay(2); err != nil {
		return err
	}
	for _, st := range steps {
		keep(d.WriteRegister(st.reg, st.value))
		if err := core.Delay(st.waitMs); err != nil {
			return err
		}
	}
	return first
}

// DumpRegisters reads every register and prints one
// "Address XXXXXXXX XXXXXXXX" line for each. Unreadable registers print as
// zero.
func (d *Device) DumpRegisters(w io.Writer) error {
	for reg := uint8(FirstRegister); reg <= LastRegister; reg++ {
		v, _ := d.ReadRegister(reg)
		line := "Address " + core.Hex32(uint32(reg)) + " " + core.Hex32(uint32(v)) + "\r\n"
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

// ChipID returns the part number and revision.
func (d *Device) ChipID() (part, rev uint8, err error) {
	id, err := d.ReadRegister(RegChipID)
	if err != nil {
		return 0, 0, err
	}
	return ChipPart(id), ChipRevision(id), nil
}
