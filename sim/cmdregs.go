package sim

// Offsets and bits of the FPGA command engine, duplicated here so the
// model stays independent of the driver it is checking.
const (
	cmdStatCtrl    = 0x0
	cmdDivideRatio = 0x4
	cmdDataOut     = 0x8
	cmdDataIn      = 0xC

	scModEn      = 1 << 0
	scModBusy    = 1 << 1
	scStartStr   = 1 << 2
	scStopStr    = 1 << 3
	scSendByte   = 1 << 4
	scRecvByte   = 1 << 5
	scSendAckStr = 1 << 6
	scSendAck    = 1 << 7
	scRecvAckStr = 1 << 8
	scAckRcvd    = 1 << 9
)

// CommandRegs models the FPGA I2C command engine register block. Each
// strobe acts on Bus immediately and leaves the busy flag set for
// BusyPolls status reads.
type CommandRegs struct {
	Bus *Bus

	// BusyPolls is how many status reads report busy after a strobe.
	BusyPolls int
	// Stuck keeps the busy flag set forever.
	Stuck bool

	Enabled bool
	Divider uint32
	Strobes int

	dataOut uint32
	dataIn  uint32
	lastAck bool
	ackRcvd bool
	busy    int
}

// NewCommandRegs returns the register block wired to bus.
func NewCommandRegs(bus *Bus) *CommandRegs {
	return &CommandRegs{Bus: bus, BusyPolls: 2}
}

// ReadWord implements core.RegisterIO. Offsets are relative to the engine
// base; mount the block in an AddressSpace to place it elsewhere.
func (c *CommandRegs) ReadWord(offset uint32) uint32 {
	switch offset {
	case cmdStatCtrl:
		v := uint32(0)
		if c.Enabled {
			v |= scModEn
		}
		if c.ackRcvd {
			v |= scAckRcvd
		}
		if c.Stuck || c.busy > 0 {
			v |= scModBusy
			if c.busy > 0 {
				c.busy--
			}
		}
		return v
	case cmdDivideRatio:
		return c.Divider
	case cmdDataOut:
		return c.dataOut
	case cmdDataIn:
		return c.dataIn
	}
	return 0
}

// WriteWord implements core.RegisterIO.
func (c *CommandRegs) WriteWord(offset uint32, v uint32) {
	switch offset {
	case cmdDivideRatio:
		c.Divider = v & 0xFF
	case cmdDataOut:
		c.dataOut = v & 0xFF
	case cmdStatCtrl:
		c.Enabled = v&scModEn != 0
		if !c.Enabled {
			return
		}
		strobe := v &^ (scModEn | scSendAck)
		if strobe == 0 {
			return
		}
		c.Strobes++
		c.busy = c.BusyPolls
		switch {
		case strobe&scStartStr != 0:
			c.Bus.Start()
		case strobe&scStopStr != 0:
			c.Bus.Stop()
		case strobe&scSendByte != 0:
			c.lastAck = c.Bus.Write(byte(c.dataOut))
		case strobe&scRecvByte != 0:
			c.dataIn = uint32(c.Bus.Read())
		case strobe&scSendAckStr != 0:
			c.Bus.Ack(v&scSendAck != 0)
		case strobe&scRecvAckStr != 0:
			c.ackRcvd = c.lastAck
		}
	}
}

// Mount maps a register block at base within a larger address space.
type Mount struct {
	Base  uint32
	Size  uint32
	Block interface {
		ReadWord(offset uint32) uint32
		WriteWord(offset uint32, v uint32)
	}
}

// AddressSpace routes word accesses to mounted blocks, like the FPGA IO
// module bus. Unmapped reads return zero.
type AddressSpace struct {
	Mounts []Mount
}

func (a *AddressSpace) find(addr uint32) (Mount, bool) {
	for _, m := range a.Mounts {
		if addr >= m.Base && addr < m.Base+m.Size {
			return m, true
		}
	}
	return Mount{}, false
}

// ReadWord implements core.RegisterIO.
func (a *AddressSpace) ReadWord(addr uint32) uint32 {
	if m, ok := a.find(addr); ok {
		return m.Block.ReadWord(addr - m.Base)
	}
	return 0
}

// WriteWord implements core.RegisterIO.
func (a *AddressSpace) WriteWord(addr uint32, v uint32) {
	if m, ok := a.find(addr); ok {
		m.Block.WriteWord(addr-m.Base, v)
	}
}
