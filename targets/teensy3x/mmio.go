//go:build teensy36

package main

import (
	"runtime/volatile"
	"unsafe"
)

// wordMMIO is core.RegisterIO over 32-bit peripheral registers addressed
// absolutely (the SAI block).
type wordMMIO struct{}

func (wordMMIO) ReadWord(addr uint32) uint32 {
	return (*volatile.Register32)(unsafe.Pointer(uintptr(addr))).Get()
}

func (wordMMIO) WriteWord(addr uint32, v uint32) {
	(*volatile.Register32)(unsafe.Pointer(uintptr(addr))).Set(v)
}

// byteMMIO is core.RegisterIO over 8-bit registers (the I2C module), which
// must not be accessed with wider bus cycles.
type byteMMIO struct{}

func (byteMMIO) ReadWord(addr uint32) uint32 {
	return uint32((*volatile.Register8)(unsafe.Pointer(uintptr(addr))).Get())
}

func (byteMMIO) WriteWord(addr uint32, v uint32) {
	(*volatile.Register8)(unsafe.Pointer(uintptr(addr))).Set(uint8(v))
}

func reg32(addr uint32) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(uintptr(addr)))
}
