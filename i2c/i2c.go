// Package i2c drives the codec's two-wire control bus as a single master.
//
// Two engines exist. CommandMaster talks to an FPGA core that exposes each
// bus phase (START, byte, ACK, STOP) as a strobe in a command register; the
// protocol sequencing lives in Transactor. Controller drives the Kinetis
// on-chip I2C block, where the hardware frames bytes and the software only
// sequences mode bits and polls status flags.
//
// Both implement Tx(addr, w, r), the tinygo.org/x/drivers I2C interface, so
// the codec layer never depends on a particular engine.
package i2c

import "codecbench/core"

// Master exposes the individual bus phases of a command-style I2C engine.
// Every phase except RecvByte and RecvAck must be followed by WaitReady
// before the next one is issued.
type Master interface {
	SendStart()
	SendStop()
	SendByte(b byte)
	RecvByte() (byte, error)
	SendAck(ack bool)
	RecvAck() (bool, error)
	WaitReady() error
}

// Transactor sequences Master phases into complete transactions.
type Transactor struct {
	m     Master
	owned bool // a START is outstanding
}

// NewTransactor returns a Transactor driving m.
func NewTransactor(m Master) *Transactor {
	return &Transactor{m: m}
}

// Tx writes w and then reads into r from the device at addr. With both
// buffers non-empty the read follows a repeated START so the bus is never
// released between the phases. A nil buffer skips that phase.
func (t *Transactor) Tx(addr uint16, w, r []byte) error {
	if len(w) > MaxTransfer || len(r) > MaxTransfer {
		return ErrTooManyBytes
	}
	if len(w) == 0 && len(r) == 0 {
		return nil
	}

	a := uint8(addr & 0x7F)
	if len(w) > 0 {
		if err := t.transmit(a, w); err != nil {
			return t.abort(err)
		}
	}
	if len(r) > 0 {
		if err := t.receive(a, r); err != nil {
			return t.abort(err)
		}
	}
	return t.stop()
}

// Write is a master-transmit transaction.
func (t *Transactor) Write(addr uint16, data []byte) error {
	return t.Tx(addr, data, nil)
}

// Read is a master-receive transaction. It returns the number of bytes
// stored in buf, which is zero on any error.
func (t *Transactor) Read(addr uint16, buf []byte) (int, error) {
	if err := t.Tx(addr, nil, buf); err != nil {
		return 0, err
	}
	return len(buf), nil
}

func (t *Transactor) transmit(addr uint8, w []byte) error {
	if err := t.start(); err != nil {
		return err
	}
	if err := t.sendByte(addr<<1, 0); err != nil {
		return err
	}
	for i, b := range w {
		if err := t.sendByte(b, i+1); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transactor) receive(addr uint8, r []byte) error {
	if err := t.start(); err != nil {
		return err
	}
	if err := t.sendByte(addr<<1|1, 0); err != nil {
		return err
	}
	last := len(r) - 1
	for i := range r {
		b, err := t.m.RecvByte()
		if err != nil {
			return err
		}
		r[i] = b
		// NACK tells the slave the final byte has been taken.
		t.m.SendAck(i != last)
		if err := t.m.WaitReady(); err != nil {
			return err
		}
	}
	return nil
}

// start issues START, or a repeated START when the bus is already held.
func (t *Transactor) start() error {
	repeated := uint32(0)
	if t.owned {
		repeated = 1
	}
	t.m.SendStart()
	t.owned = true
	core.RecordEvent(core.EvtBusStart, repeated, 0)
	return t.m.WaitReady()
}

func (t *Transactor) stop() error {
	t.m.SendStop()
	t.owned = false
	core.RecordEvent(core.EvtBusStop, 0, 0)
	return t.m.WaitReady()
}

func (t *Transactor) sendByte(b byte, index int) error {
	t.m.SendByte(b)
	if err := t.m.WaitReady(); err != nil {
		return err
	}
	ack, err := t.m.RecvAck()
	if err != nil {
		return err
	}
	if !ack {
		core.RecordEvent(core.EvtBusNack, uint32(index), uint32(b))
		return &NackError{Index: index}
	}
	return nil
}

// abort releases the bus after a failed phase. The original error wins over
// any error from the STOP itself.
func (t *Transactor) abort(err error) error {
	_ = t.stop()
	return err
}
