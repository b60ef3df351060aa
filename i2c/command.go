package i2c

import "codecbench/core"

// CommandBase is the command engine's offset within the FPGA IO module
// address space.
const CommandBase = 0x00040000

// Command engine registers, relative to the engine base.
const (
	RegStatCtrl    = 0x0 // status and control
	RegDivideRatio = 0x4
	RegDataOut     = 0x8
	RegDataIn      = 0xC
)

// Status/control bits
const (
	SCModEn      = 1 << 0 // module enable
	SCModBusy    = 1 << 1 // set while a strobe is being executed
	SCStartStr   = 1 << 2
	SCStopStr    = 1 << 3
	SCSendByte   = 1 << 4
	SCRecvByte   = 1 << 5
	SCSendAckStr = 1 << 6
	SCSendAck    = 1 << 7 // level sent by SCSendAckStr: 1 = ACK, 0 = NACK
	SCRecvAckStr = 1 << 8
	SCAckRcvd    = 1 << 9
)

// DefaultDivideRatio gives a 100kHz bus from the 100MHz fabric clock.
const DefaultDivideRatio = 250

// CommandMaster implements Master over the FPGA command register engine.
type CommandMaster struct {
	regs core.RegisterIO
	base uint32

	// SpinLimit bounds WaitReady when non-zero. Zero waits forever, which
	// matches the hardware contract; a wedged bus then hangs the caller.
	SpinLimit uint32
}

// NewCommandMaster returns an engine whose registers start at base.
func NewCommandMaster(regs core.RegisterIO, base uint32) *CommandMaster {
	return &CommandMaster{regs: regs, base: base}
}

func (c *CommandMaster) write(reg, v uint32) {
	c.regs.WriteWord(c.base+reg, v)
}

func (c *CommandMaster) read(reg uint32) uint32 {
	return c.regs.ReadWord(c.base + reg)
}

// SetDivideRatio sets the bus clock divider. Call before EnableInterface.
func (c *CommandMaster) SetDivideRatio(ratio uint8) {
	c.write(RegDivideRatio, uint32(ratio))
}

// EnableInterface turns on the master logic.
func (c *CommandMaster) EnableInterface() {
	c.write(RegStatCtrl, SCModEn)
}

// DisableInterface turns off the master logic.
func (c *CommandMaster) DisableInterface() {
	c.write(RegStatCtrl, 0)
}

// Init sets the divider and enables the interface. Running it again leaves
// the registers unchanged.
func (c *CommandMaster) Init(ratio uint8) {
	c.SetDivideRatio(ratio)
	c.EnableInterface()
}

// WaitReady spins until the engine finishes the current strobe.
func (c *CommandMaster) WaitReady() error {
	var spins uint32
	for c.read(RegStatCtrl)&SCModBusy != 0 {
		spins++
		if c.SpinLimit != 0 && spins >= c.SpinLimit {
			return ErrTimeout
		}
	}
	return nil
}

// SendStart issues a START (or repeated START while the bus is held).
func (c *CommandMaster) SendStart() {
	c.write(RegStatCtrl, SCStartStr|SCModEn)
}

// SendStop issues a STOP and releases the bus.
func (c *CommandMaster) SendStop() {
	c.write(RegStatCtrl, SCStopStr|SCModEn)
}

// SendByte loads the data register and strobes a transmit.
func (c *CommandMaster) SendByte(b byte) {
	c.write(RegDataOut, uint32(b))
	c.write(RegStatCtrl, SCSendByte|SCModEn)
}

// RecvByte strobes a receive and returns the byte once the engine is idle.
func (c *CommandMaster) RecvByte() (byte, error) {
	c.write(RegStatCtrl, SCRecvByte|SCModEn)
	if err := c.WaitReady(); err != nil {
		return 0, err
	}
	return byte(c.read(RegDataIn) & 0xFF), nil
}

// SendAck sends ACK (true) or NACK (false) after a received byte.
func (c *CommandMaster) SendAck(ack bool) {
	if ack {
		c.write(RegStatCtrl, SCSendAck|SCSendAckStr|SCModEn)
	} else {
		c.write(RegStatCtrl, SCSendAckStr|SCModEn)
	}
}

// RecvAck clocks in the slave's acknowledge bit and reports whether it was
// an ACK.
func (c *CommandMaster) RecvAck() (bool, error) {
	c.write(RegStatCtrl, SCRecvAckStr|SCModEn)
	if err := c.WaitReady(); err != nil {
		return false, err
	}
	return c.read(RegStatCtrl)&SCAckRcvd != 0, nil
}
