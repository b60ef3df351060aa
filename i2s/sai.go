package i2s

import "codecbench/core"

// SAIBase is the Kinetis I2S0 (SAI) block.
const SAIBase = 0x4002F000

// SAI registers, relative to the block base.
const (
	RegTCSR = 0x00
	RegTCR1 = 0x04
	RegTCR2 = 0x08
	RegTCR3 = 0x0C
	RegTCR4 = 0x10
	RegTCR5 = 0x14
	RegTDR0 = 0x20
	RegTMR  = 0x60
	RegRCSR = 0x80
	RegRCR1 = 0x84
	RegRCR2 = 0x88
	RegRCR3 = 0x8C
	RegRCR4 = 0x90
	RegRCR5 = 0x94
	RegRDR0 = 0xA0
	RegRMR  = 0xE0
	RegMCR  = 0x100
	RegMDR  = 0x104
)

// TCSR/RCSR bits
const (
	CSREnable = 1 << 31 // TE / RE
	CSRBCE    = 1 << 28 // bit clock enable
	CSRFR     = 1 << 25 // FIFO reset
	CSRFRF    = 1 << 16 // FIFO request flag
	CSRFRIE   = 1 << 8  // FIFO request interrupt enable
)

// Field encoders for the transmit/receive configuration registers. The
// receive registers share the layout.
func crWatermark(n uint32) uint32  { return n & 0x7 }
func crSync(n uint32) uint32       { return (n & 0x3) << 30 }
func crFrameSize(n uint32) uint32  { return (n & 0xF) << 16 }
func crSyncWidth(n uint32) uint32  { return (n & 0x1F) << 8 }
func crWordNWidth(n uint32) uint32 { return (n & 0x1F) << 24 }
func crWord0Width(n uint32) uint32 { return (n & 0x1F) << 16 }
func crFirstBit(n uint32) uint32   { return (n & 0x1F) << 8 }

const (
	cr2BCP = 1 << 25 // bit clock active low
	cr3CE  = 1 << 16 // data channel 0 enable
	cr4MF  = 1 << 4  // MSB first
	cr4FSP = 1 << 1  // frame sync active low
)

// Watermark is the transmit FIFO level at or below which the FIFO request
// interrupt fires.
const Watermark = 2

// PrimeWords is the number of zero words queued before the interrupt is
// enabled: enough to sit above the watermark while keeping the left/right
// word order.
const PrimeWords = 4

// SAIPort drives the Kinetis SAI block as a clock slave: 2-word frames,
// 32-bit slots, MSB first, data channel 0 only, receiver synchronous to
// the transmitter.
type SAIPort struct {
	regs core.RegisterIO
	base uint32
	irq  *core.IRQ

	platformInit func()
}

// NewSAIPort returns a port at base that will service its transmit FIFO
// from irq. platformInit gates the block clock and muxes the pins; it may
// be nil.
func NewSAIPort(regs core.RegisterIO, base uint32, irq *core.IRQ, platformInit func()) *SAIPort {
	return &SAIPort{regs: regs, base: base, irq: irq, platformInit: platformInit}
}

func (p *SAIPort) write(reg, v uint32) {
	p.regs.WriteWord(p.base+reg, v)
}

func (p *SAIPort) setBits(reg, mask uint32) {
	core.SetBits(p.regs, p.base+reg, mask)
}

func (p *SAIPort) clearBits(reg, mask uint32) {
	core.ClearBits(p.regs, p.base+reg, mask)
}

// Configure programs both directions for 24-bit samples left-justified in
// 32-bit words with the codec supplying MCLK, bit clock and frame sync.
func (p *SAIPort) Configure() error {
	if p.platformInit != nil {
		p.platformInit()
	}

	// External MCLK: the divider stays off.
	p.write(RegMCR, 0)
	p.write(RegMDR, 0)

	p.write(RegTMR, 0)
	p.write(RegTCR1, crWatermark(Watermark))
	p.write(RegTCR2, crSync(0)|cr2BCP)
	p.write(RegTCR3, cr3CE)
	p.write(RegTCR4, crFrameSize(1)|crSyncWidth(31)|cr4MF|cr4FSP)
	p.write(RegTCR5, crWordNWidth(31)|crWord0Width(31)|crFirstBit(31))

	p.write(RegRMR, 0)
	p.write(RegRCR1, crWatermark(Watermark))
	p.write(RegRCR2, crSync(1)|cr2BCP)
	p.write(RegRCR3, cr3CE)
	p.write(RegRCR4, crFrameSize(1)|crSyncWidth(31)|cr4MF|cr4FSP)
	p.write(RegRCR5, crWordNWidth(31)|crWord0Width(31)|crFirstBit(31))
	return nil
}

// Start enables the receiver, then the transmitter with its FIFO request
// interrupt, primes the transmit FIFO and only then unmasks the IRQ, all
// with interrupts held off.
func (p *SAIPort) Start(handler func()) {
	state := core.DisableInterrupts()
	defer core.RestoreInterrupts(state)

	p.setBits(RegRCSR, CSREnable|CSRFR)
	p.setBits(RegTCSR, CSREnable|CSRBCE|CSRFR|CSRFRIE)

	for i := 0; i < PrimeWords; i++ {
		p.write(RegTDR0, 0)
	}

	p.irq.SetHandler(handler)
	p.irq.Enable()
}

// Stop masks the IRQ and disables both directions.
func (p *SAIPort) Stop() {
	state := core.DisableInterrupts()
	defer core.RestoreInterrupts(state)

	p.irq.Disable()
	p.clearBits(RegTCSR, CSREnable)
	p.clearBits(RegRCSR, CSREnable)
}

// WriteFrame queues left then right.
func (p *SAIPort) WriteFrame(left, right uint32) {
	p.write(RegTDR0, left)
	p.write(RegTDR0, right)
}

// ReadFrame drains one frame, left word first.
func (p *SAIPort) ReadFrame() (uint32, uint32) {
	l := p.regs.ReadWord(p.base + RegRDR0)
	r := p.regs.ReadWord(p.base + RegRDR0)
	return l, r
}
