package i2c

import "codecbench/core"

// Kinetis I2C0 base address.
const ControllerBase = 0x40066000

// Controller registers (8 bits wide, byte offsets).
const (
	RegA1  = 0x0
	RegF   = 0x1
	RegC1  = 0x2
	RegS   = 0x3
	RegD   = 0x4
	RegC2  = 0x5
	RegFLT = 0x6
)

// C1 bits
const (
	C1IICEN = 0x80
	C1IICIE = 0x40
	C1MST   = 0x20
	C1TX    = 0x10
	C1TXAK  = 0x08
	C1RSTA  = 0x04
)

// S bits. IICIF and ARBL are write-one-to-clear.
const (
	STCF   = 0x80
	SIAAS  = 0x40
	SBUSY  = 0x20
	SARBL  = 0x10
	SRAM   = 0x08
	SSRW   = 0x04
	SIICIF = 0x02
	SRXAK  = 0x01
)

// C2HDRS selects high drive on the bus pins.
const C2HDRS = 0x20

const (
	controllerDivider = 0x27 // 100kHz at a 48MHz bus clock
	controllerFilter  = 4    // glitch filter, bus clock cycles
)

// Controller drives the Kinetis on-chip I2C module. Unlike CommandMaster the
// hardware frames START, bytes and STOP itself; Write and Read poll the
// interrupt flag after every byte.
type Controller struct {
	regs core.RegisterIO
	base uint32

	initialized  bool
	readErr      error
	platformInit func()

	// SpinLimit bounds every status poll when non-zero.
	SpinLimit uint32
}

// NewController returns a controller whose registers start at base.
// platformInit, if not nil, gates the module clock and muxes the pins; it
// runs once from Init.
func NewController(regs core.RegisterIO, base uint32, platformInit func()) *Controller {
	return &Controller{regs: regs, base: base, platformInit: platformInit}
}

func (c *Controller) write(reg, v uint32) {
	c.regs.WriteWord(c.base+reg, v&0xFF)
}

func (c *Controller) read(reg uint32) uint32 {
	return c.regs.ReadWord(c.base+reg) & 0xFF
}

// Init configures and enables the module. Only the first call has any
// effect.
func (c *Controller) Init() {
	if c.initialized {
		return
	}
	if c.platformInit != nil {
		c.platformInit()
	}
	c.write(RegF, controllerDivider)
	c.write(RegFLT, controllerFilter)
	c.write(RegC2, C2HDRS)
	c.write(RegC1, C1IICEN)
	c.initialized = true
}

// Initialized reports whether Init has run.
func (c *Controller) Initialized() bool {
	return c.initialized
}

// Write transmits data to the slave at addr and releases the bus.
func (c *Controller) Write(addr uint16, data []byte) error {
	if len(data) > MaxTransfer {
		return ErrTooManyBytes
	}
	err := c.transmit(uint8(addr&0x7F), data)
	c.release()
	return err
}

// Read receives len(buf) bytes from the slave at addr. It returns the
// number of bytes stored. The error is also kept for ReadErr.
func (c *Controller) Read(addr uint16, buf []byte) (int, error) {
	n, err := c.receive(uint8(addr&0x7F), buf)
	c.readErr = err
	return n, err
}

// ReadErr returns the error of the most recent Read. A successful Read
// clears it.
func (c *Controller) ReadErr() error {
	return c.readErr
}

// Tx writes w then reads r. When both are present the bus is kept and the
// read starts with a repeated START.
func (c *Controller) Tx(addr uint16, w, r []byte) error {
	if len(w) > MaxTransfer || len(r) > MaxTransfer {
		return ErrTooManyBytes
	}
	a := uint8(addr & 0x7F)
	if len(w) > 0 {
		if err := c.transmit(a, w); err != nil {
			c.release()
			return err
		}
		if len(r) == 0 {
			c.release()
			return nil
		}
	}
	if len(r) > 0 {
		_, err := c.Read(uint16(a), r)
		return err
	}
	return nil
}

// acquire takes the bus: a repeated START when this module is already
// master, otherwise wait for the bus to go idle and START.
func (c *Controller) acquire() error {
	c.write(RegS, SIICIF|SARBL)

	if c.read(RegC1)&C1MST != 0 {
		c.write(RegC1, C1IICEN|C1MST|C1RSTA|C1TX)
		core.RecordEvent(core.EvtBusStart, 1, 0)
		return nil
	}

	var spins uint32
	for c.read(RegS)&SBUSY != 0 {
		spins++
		if c.SpinLimit != 0 && spins >= c.SpinLimit {
			return ErrTimeout
		}
	}
	c.write(RegC1, C1IICEN|C1MST|C1TX)
	core.RecordEvent(core.EvtBusStart, 0, 0)
	return nil
}

// release sends STOP by dropping MST and leaves the module enabled.
func (c *Controller) release() {
	c.write(RegC1, C1IICEN)
	core.RecordEvent(core.EvtBusStop, 0, 0)
}

// waitTransfer polls the interrupt flag, which is set at the end of every
// byte whether or not it was acknowledged or arbitration was lost, then
// clears it.
func (c *Controller) waitTransfer() error {
	var spins uint32
	for c.read(RegS)&SIICIF == 0 {
		spins++
		if c.SpinLimit != 0 && spins >= c.SpinLimit {
			return ErrTimeout
		}
	}
	c.write(RegS, SIICIF)
	return nil
}

// checkByte inspects the status after byte index of a phase.
func (c *Controller) checkByte(index int) error {
	stat := c.read(RegS)
	if stat&SRXAK != 0 {
		core.RecordEvent(core.EvtBusNack, uint32(index), 0)
		return &NackError{Index: index}
	}
	if stat&SARBL != 0 {
		c.write(RegS, SARBL)
		core.RecordEvent(core.EvtBusArbLost, uint32(index), 0)
		return ErrArbitrationLost
	}
	return nil
}

// transmit sends the address and data bytes without releasing the bus.
func (c *Controller) transmit(addr uint8, data []byte) error {
	if err := c.acquire(); err != nil {
		return err
	}
	for i := 0; i <= len(data); i++ {
		if i == 0 {
			c.write(RegD, uint32(addr)<<1)
		} else {
			c.write(RegD, uint32(data[i-1]))
		}
		if err := c.waitTransfer(); err != nil {
			return err
		}
		if err := c.checkByte(i); err != nil {
			return err
		}
	}
	return nil
}

// receive runs a complete master-receive phase including the STOP.
func (c *Controller) receive(addr uint8, buf []byte) (int, error) {
	if len(buf) > MaxTransfer {
		return 0, ErrTooManyBytes
	}
	if len(buf) == 0 {
		return 0, nil
	}

	if err := c.acquire(); err != nil {
		c.release()
		return 0, err
	}

	c.write(RegD, uint32(addr)<<1|1)
	if err := c.waitTransfer(); err != nil {
		c.release()
		return 0, err
	}
	if err := c.checkByte(0); err != nil {
		c.release()
		return 0, err
	}

	// Switch to receive. TXAK set before a byte is clocked in makes the
	// master NACK that byte, so it goes up before the final byte starts.
	remaining := len(buf)
	if remaining == 1 {
		c.write(RegC1, C1IICEN|C1MST|C1TXAK)
	} else {
		c.write(RegC1, C1IICEN|C1MST)
	}

	// In receive mode a read of D returns the previous byte and clocks in
	// the next one; this first read only starts the transfer.
	_ = c.read(RegD)

	count := 0
	for remaining > 1 {
		if err := c.waitTransfer(); err != nil {
			c.release()
			return count, err
		}
		remaining--
		if remaining == 1 {
			c.write(RegC1, C1IICEN|C1MST|C1TXAK)
		}
		buf[count] = byte(c.read(RegD))
		count++
	}

	if err := c.waitTransfer(); err != nil {
		c.release()
		return count, err
	}
	// Back to transmit so reading the last byte does not clock another.
	c.write(RegC1, C1IICEN|C1MST|C1TX)
	buf[count] = byte(c.read(RegD))
	count++
	c.release()
	return count, nil
}
