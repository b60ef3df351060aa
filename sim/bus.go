// Package sim models the codec board hardware closely enough to run the
// bring-up code without a board: a phase-level I2C bus with a CS4272 on it,
// the register files of both I2C engines and both I2S blocks, a loopback
// audio path and a sample clock driven by the core scheduler.
package sim

import (
	"strings"

	"codecbench/core"
)

// Phase is one element of an I2C transaction as seen on the wire.
type Phase uint8

const (
	PhaseStart Phase = iota
	PhaseRepeatedStart
	PhaseStop
	PhaseWrite // byte driven by the master
	PhaseRead  // byte driven by the slave
	PhaseAck   // acknowledge, from whichever side received the byte
	PhaseNack
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "START"
	case PhaseRepeatedStart:
		return "RSTART"
	case PhaseStop:
		return "STOP"
	case PhaseWrite:
		return "W"
	case PhaseRead:
		return "R"
	case PhaseAck:
		return "ACK"
	case PhaseNack:
		return "NACK"
	}
	return "?"
}

// Record is one logged bus phase. Byte is set for PhaseWrite/PhaseRead;
// Clock is the system time the phase was driven at.
type Record struct {
	Phase Phase
	Byte  byte
	Clock uint32
}

func (r Record) String() string {
	if r.Phase == PhaseWrite || r.Phase == PhaseRead {
		const hex = "0123456789abcdef"
		return r.Phase.String() + ":" + string([]byte{hex[r.Byte>>4], hex[r.Byte&0xF]})
	}
	return r.Phase.String()
}

// Target is a slave device on the simulated bus.
type Target interface {
	// Start is called on every START or repeated START addressed to any device.
	Start()
	// Address is called when the target is addressed; it returns the ACK.
	Address(read bool) bool
	// WriteByte receives a master byte and returns the ACK.
	WriteByte(b byte) bool
	// ReadByte supplies the next byte for the master.
	ReadByte() byte
	// MasterAck reports the master's ACK/NACK after a ReadByte.
	MasterAck(ack bool)
	// Stop is called when the master releases the bus.
	Stop()
}

// Bus is a single-master I2C bus that logs every phase.
type Bus struct {
	Log []Record

	targets    map[uint8]Target
	active     Target
	owned      bool
	expectAddr bool
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{targets: make(map[uint8]Target)}
}

// Attach places t at the 7-bit address addr.
func (b *Bus) Attach(addr uint8, t Target) {
	b.targets[addr&0x7F] = t
}

// Owned reports whether a START is outstanding.
func (b *Bus) Owned() bool {
	return b.owned
}

func (b *Bus) log(p Phase, v byte) {
	b.Log = append(b.Log, Record{Phase: p, Byte: v, Clock: core.GetTime()})
}

// Start drives a START, or a repeated START while the bus is owned.
func (b *Bus) Start() {
	if b.owned {
		b.log(PhaseRepeatedStart, 0)
	} else {
		b.log(PhaseStart, 0)
	}
	b.owned = true
	b.expectAddr = true
	b.active = nil
	for _, t := range b.targets {
		t.Start()
	}
}

// Stop drives a STOP.
func (b *Bus) Stop() {
	b.log(PhaseStop, 0)
	if b.active != nil {
		b.active.Stop()
	}
	b.owned = false
	b.active = nil
	b.expectAddr = false
}

// Write clocks out a master byte and returns the slave acknowledge. The
// first byte after a START selects the target.
func (b *Bus) Write(v byte) bool {
	b.log(PhaseWrite, v)

	ack := false
	if b.expectAddr {
		b.expectAddr = false
		if t, ok := b.targets[v>>1]; ok && t.Address(v&1 == 1) {
			b.active = t
			ack = true
		}
	} else if b.active != nil {
		ack = b.active.WriteByte(v)
	}

	if ack {
		b.log(PhaseAck, 0)
	} else {
		b.log(PhaseNack, 0)
	}
	return ack
}

// Read clocks in a slave byte. An idle bus reads as 0xFF.
func (b *Bus) Read() byte {
	v := byte(0xFF)
	if b.active != nil {
		v = b.active.ReadByte()
	}
	b.log(PhaseRead, v)
	return v
}

// Ack drives the master's acknowledge after Read.
func (b *Bus) Ack(ack bool) {
	if ack {
		b.log(PhaseAck, 0)
	} else {
		b.log(PhaseNack, 0)
	}
	if b.active != nil {
		b.active.MasterAck(ack)
	}
}

// Reset clears the log.
func (b *Bus) Reset() {
	b.Log = b.Log[:0]
}

// Count returns how many records of phase p are in the log.
func (b *Bus) Count(p Phase) int {
	n := 0
	for _, r := range b.Log {
		if r.Phase == p {
			n++
		}
	}
	return n
}

// Transactions splits the log at every STOP. A trailing unterminated
// transaction is returned as the last element.
func (b *Bus) Transactions() [][]Record {
	var out [][]Record
	start := 0
	for i, r := range b.Log {
		if r.Phase == PhaseStop {
			out = append(out, b.Log[start:i+1])
			start = i + 1
		}
	}
	if start < len(b.Log) {
		out = append(out, b.Log[start:])
	}
	return out
}

// String renders the log as space separated phases.
func (b *Bus) String() string {
	parts := make([]string, len(b.Log))
	for i, r := range b.Log {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ")
}
