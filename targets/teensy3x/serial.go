//go:build teensy36

package main

import (
	"machine"
	"time"
)

// serialPort adapts machine.Serial to io.ReadWriter for the console.
// Read never blocks: with nothing buffered it sleeps briefly and returns
// no data, and the console polls again.
type serialPort struct{}

func (serialPort) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if machine.Serial.Buffered() == 0 {
		time.Sleep(time.Millisecond)
		return 0, nil
	}
	b, err := machine.Serial.ReadByte()
	if err != nil {
		return 0, err
	}
	p[0] = b
	return 1, nil
}

func (serialPort) Write(p []byte) (int, error) {
	return machine.Serial.Write(p)
}

// debugWrite sends debug lines to the console port.
func debugWrite(s string) {
	machine.Serial.Write([]byte(s))
	machine.Serial.Write([]byte("\r\n"))
}
