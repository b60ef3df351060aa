package core

// RegisterIO is word access to a block of peripheral registers, addressed by
// byte offset from the block base. On the FPGA board this is the IO module
// bus; on the Kinetis targets it is plain MMIO; in tests it is a simulator.
type RegisterIO interface {
	ReadWord(offset uint32) uint32
	WriteWord(offset uint32, value uint32)
}

// SetBits read-modify-writes the register at offset, setting mask.
func SetBits(r RegisterIO, offset, mask uint32) {
	r.WriteWord(offset, r.ReadWord(offset)|mask)
}

// ClearBits read-modify-writes the register at offset, clearing mask.
func ClearBits(r RegisterIO, offset, mask uint32) {
	r.WriteWord(offset, r.ReadWord(offset)&^mask)
}
