package i2s

import "codecbench/core"

// FPGABase is the I2S slave's offset within the FPGA IO module address
// space.
const FPGABase = 0x00080000

// FPGA I2S slave registers, relative to the slave base.
const (
	RegStatus = 0x0
	RegTxR    = 0x4
	RegTxL    = 0x8
	RegRxR    = 0xC
	RegRxL    = 0x10
)

// StatusFrameReady is set in RegStatus once a new frame has been received.
// Reading RegRxR clears it.
const StatusFrameReady = 1 << 0

// FPGAPort is the polled I2S slave of the FPGA board.
type FPGAPort struct {
	regs core.RegisterIO
	base uint32

	// SpinLimit bounds WaitFrame when non-zero.
	SpinLimit uint32
}

// NewFPGAPort returns a port whose registers start at base.
func NewFPGAPort(regs core.RegisterIO, base uint32) *FPGAPort {
	return &FPGAPort{regs: regs, base: base}
}

// Configure has nothing to set up: the slave runs from the codec clocks.
func (p *FPGAPort) Configure() error {
	return nil
}

// WaitFrame spins on the frame-ready bit.
func (p *FPGAPort) WaitFrame() error {
	var spins uint32
	for p.regs.ReadWord(p.base+RegStatus)&StatusFrameReady == 0 {
		spins++
		if p.SpinLimit != 0 && spins >= p.SpinLimit {
			return ErrTimeout
		}
	}
	return nil
}

// WriteFrame latches the next output frame.
func (p *FPGAPort) WriteFrame(left, right uint32) {
	p.regs.WriteWord(p.base+RegTxL, left)
	p.regs.WriteWord(p.base+RegTxR, right)
}

// ReadFrame returns the received frame. RX_R is read last since it
// acknowledges the frame.
func (p *FPGAPort) ReadFrame() (uint32, uint32) {
	l := p.regs.ReadWord(p.base + RegRxL)
	r := p.regs.ReadWord(p.base + RegRxR)
	return l, r
}
