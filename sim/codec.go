package sim

// CS4272 is a register-echo model of the codec's control port. The first
// byte written after the address is the memory address pointer (MAP); bit 7
// of the MAP enables auto-increment. Reads return the register at the MAP.
type CS4272 struct {
	Regs [9]byte

	// NackData makes the codec NACK the Nth data byte (1 is the MAP byte)
	// of every write transaction. Zero disables it.
	NackData int

	mapPtr    byte
	incr      bool
	expectMap bool
	written   int
}

// NewCS4272 returns a codec with the power-on register defaults.
func NewCS4272() *CS4272 {
	c := &CS4272{}
	c.Regs[0x02] = 0x80
	c.Regs[0x03] = 0x29
	c.Regs[0x08] = 0x00
	return c
}

func (c *CS4272) Start() {}

func (c *CS4272) Address(read bool) bool {
	if !read {
		c.expectMap = true
		c.written = 0
	}
	return true
}

func (c *CS4272) WriteByte(b byte) bool {
	c.written++
	if c.NackData != 0 && c.written == c.NackData {
		return false
	}
	if c.expectMap {
		c.mapPtr = b & 0x7F
		c.incr = b&0x80 != 0
		c.expectMap = false
		return true
	}
	// Chip ID is read-only.
	if c.mapPtr >= 1 && c.mapPtr < 8 {
		c.Regs[c.mapPtr] = b
	}
	if c.incr {
		c.mapPtr++
	}
	return true
}

func (c *CS4272) ReadByte() byte {
	var v byte
	if int(c.mapPtr) < len(c.Regs) {
		v = c.Regs[c.mapPtr]
	}
	if c.incr {
		c.mapPtr++
	}
	return v
}

func (c *CS4272) MasterAck(bool) {}

func (c *CS4272) Stop() {
	c.expectMap = false
}
