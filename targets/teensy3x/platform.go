//go:build teensy36

package main

// System integration module clock gates
const (
	simSCGC4     = 0x40048034
	simSCGC6     = 0x4004803C
	simSCGC4I2C0 = 1 << 6
	simSCGC6I2S  = 1 << 15
)

// Port control
const (
	portBBase = 0x4004A000
	portCBase = 0x4004B000

	pcrODE = 1 << 5 // open drain
	pcrDSE = 1 << 6 // high drive strength
	pcrSRE = 1 << 2 // slow slew rate
)

func pcr(port uint32, pin uint32) uint32 {
	return port + 4*pin
}

func pcrMux(n uint32) uint32 {
	return (n & 0x7) << 8
}

// i2cPlatformInit gates the I2C0 clock and puts SDA0 (PTB3) and SCL0 (PTB2)
// on the module as open-drain outputs.
func i2cPlatformInit() {
	reg32(simSCGC4).SetBits(simSCGC4I2C0)
	reg32(pcr(portBBase, 3)).Set(pcrMux(2) | pcrODE | pcrSRE | pcrDSE)
	reg32(pcr(portBBase, 2)).Set(pcrMux(2) | pcrODE | pcrSRE | pcrDSE)
}

// saiPlatformInit gates the I2S0 clock and routes TX, LRCLK, BCLK, RX and
// MCLK on port C.
func saiPlatformInit() {
	reg32(simSCGC6).SetBits(simSCGC6I2S)
	reg32(pcr(portCBase, 1)).Set(pcrMux(6)) // TXD0
	reg32(pcr(portCBase, 2)).Set(pcrMux(6)) // TX_FS
	reg32(pcr(portCBase, 3)).Set(pcrMux(6)) // TX_BCLK
	reg32(pcr(portCBase, 5)).Set(pcrMux(4)) // RXD0
	reg32(pcr(portCBase, 6)).Set(pcrMux(6)) // MCLK
}
