//go:build teensy36

// Firmware for the Teensy bench: Kinetis I2C0 controls the codec, the SAI
// block exchanges samples from its transmit FIFO interrupt.
package main

import (
	"context"
	"machine"
	"runtime/interrupt"
	"time"

	"codecbench/codec"
	"codecbench/console"
	"codecbench/core"
	"codecbench/i2c"
	"codecbench/i2s"
	"codecbench/sinetest"
)

const (
	irqI2S0TX = 28 // I2S0 transmit vector

	resetPin = machine.D02 // PTD0

	captureLen = 4080
	runs       = 255 // kept passes; 256 including the warm-up pass
	tableLen   = 240
)

var saiIRQ = core.NewIRQ(nil)

func main() {
	time.Sleep(100 * time.Millisecond)

	core.SetDelayFunc(func(ms uint32) {
		time.Sleep(time.Duration(ms) * time.Millisecond)
	})
	core.SetDebugWriter(debugWrite)
	core.InitAsyncDebug()

	core.SetGPIODriver(NewTeensyGPIODriver())

	line := interrupt.New(irqI2S0TX, func(interrupt.Interrupt) {
		saiIRQ.Fire()
	})
	saiIRQ.SetLine(line)

	ctrl := i2c.NewController(byteMMIO{}, i2c.ControllerBase, i2cPlatformInit)
	dev := codec.New(ctrl, nil, codec.Config{
		ResetPin:    core.GPIOPin(resetPin),
		RatioSelect: codec.RatioTeensy,
		BusInit: func() error {
			ctrl.Init()
			return nil
		},
	})

	x, err := i2s.NewExchange(i2s.Config{
		Table:      sinetest.GenerateSine(tableLen, sinetest.Amplitude),
		CaptureLen: captureLen,
		Runs:       runs,
		Channel:    i2s.Right,
		Accumulate: true,
	})
	if err != nil {
		core.DebugPrintln("[MAIN] exchange: " + err.Error())
		return
	}
	port := i2s.NewSAIPort(wordMMIO{}, i2s.SAIBase, saiIRQ, saiPlatformInit)
	eng := i2s.NewIRQEngine(port, x)

	con := console.New(serialPort{})
	bench := sinetest.New(con, dev, eng, sinetest.VariantB())
	if err := bench.Run(context.Background()); err != nil {
		core.DebugPrintln("[MAIN] bench stopped: " + err.Error())
		core.DumpEvents()
	}
	for {
		time.Sleep(time.Second)
	}
}
