// Package board assembles complete simulated benches: the register-level
// hardware models from sim behind the real drivers, for both boards.
package board

import (
	"codecbench/codec"
	"codecbench/console"
	"codecbench/core"
	"codecbench/i2c"
	"codecbench/i2s"
	"codecbench/sim"
	"codecbench/sinetest"
)

// ResetPin is the codec reset line on both simulated boards.
const ResetPin core.GPIOPin = 0

// Options sizes the simulated run.
type Options struct {
	Table      []int32
	CaptureLen int
	Runs       int
	Channel    i2s.Channel
	Accumulate bool

	// Latency is the loopback delay in frames.
	Latency int
	// SampleRate drives variant B's frame clock; zero means 48kHz.
	SampleRate uint32
}

// Board is one simulated bench with its drivers.
type Board struct {
	Bus   *sim.Bus
	Chip  *sim.CS4272
	Pins  *sim.Pins
	Path  *sim.Loopback
	Space *sim.AddressSpace

	Codec    *codec.Device
	Engine   *i2s.Engine
	Exchange *i2s.Exchange

	// Variant A
	Command    *sim.CommandRegs
	Transactor *i2c.Transactor
	I2S        *sim.FPGAI2S

	// Variant B
	Controller *i2c.Controller
	Kinetis    *sim.KinetisI2C
	SAI        *sim.KinetisSAI
	IRQ        *core.IRQ
	Clock      *sim.SampleClock
}

func newBoard(opt Options) (*Board, error) {
	x, err := i2s.NewExchange(i2s.Config{
		Table:      opt.Table,
		CaptureLen: opt.CaptureLen,
		Runs:       opt.Runs,
		Channel:    opt.Channel,
		Accumulate: opt.Accumulate,
	})
	if err != nil {
		return nil, err
	}
	bus := sim.NewBus()
	chip := sim.NewCS4272()
	bus.Attach(codec.Address, chip)
	return &Board{
		Bus:      bus,
		Chip:     chip,
		Pins:     sim.NewPins(),
		Path:     sim.NewLoopback(opt.Latency),
		Space:    &sim.AddressSpace{},
		Exchange: x,
	}, nil
}

// NewA returns the FPGA board: command register I2C engine and the polled
// I2S slave on one IO module bus.
func NewA(opt Options) (*Board, error) {
	b, err := newBoard(opt)
	if err != nil {
		return nil, err
	}
	b.Command = sim.NewCommandRegs(b.Bus)
	b.I2S = sim.NewFPGAI2S(b.Path)
	b.Space.Mounts = []sim.Mount{
		{Base: i2c.CommandBase, Size: 0x10, Block: b.Command},
		{Base: i2s.FPGABase, Size: 0x14, Block: b.I2S},
	}

	master := i2c.NewCommandMaster(b.Space, i2c.CommandBase)
	b.Transactor = i2c.NewTransactor(master)
	b.Codec = codec.New(b.Transactor, b.Pins, codec.Config{
		ResetPin:    ResetPin,
		RatioSelect: codec.RatioFPGA,
		BusInit: func() error {
			master.SetDivideRatio(i2c.DefaultDivideRatio)
			if err := core.Delay(1); err != nil {
				return err
			}
			master.EnableInterface()
			return nil
		},
	})

	port := i2s.NewFPGAPort(b.Space, i2s.FPGABase)
	b.Engine = i2s.NewPolledEngine(port, b.Exchange)
	return b, nil
}

// NewB returns the Teensy board: Kinetis I2C controller and the SAI block
// clocked at the sample rate from the core timer list. It resets the core
// timer state.
func NewB(opt Options) (*Board, error) {
	b, err := newBoard(opt)
	if err != nil {
		return nil, err
	}
	core.TimerInit()

	b.Kinetis = sim.NewKinetisI2C(b.Bus)
	b.IRQ = core.NewIRQ(nil)
	b.SAI = sim.NewKinetisSAI(b.Path, b.IRQ)
	b.Space.Mounts = []sim.Mount{
		{Base: i2c.ControllerBase, Size: 0x8, Block: b.Kinetis},
		{Base: i2s.SAIBase, Size: 0x108, Block: b.SAI},
	}

	b.Controller = i2c.NewController(b.Space, i2c.ControllerBase, nil)
	b.Codec = codec.New(b.Controller, b.Pins, codec.Config{
		ResetPin:    ResetPin,
		RatioSelect: codec.RatioTeensy,
		BusInit: func() error {
			b.Controller.Init()
			return nil
		},
	})

	port := i2s.NewSAIPort(b.Space, i2s.SAIBase, b.IRQ, nil)
	b.Engine = i2s.NewIRQEngine(port, b.Exchange)

	rate := opt.SampleRate
	if rate == 0 {
		rate = 48000
	}
	b.Clock = sim.NewSampleClock(rate, b.SAI)
	b.Clock.Start()
	return b, nil
}

// Bench returns the orchestrator for this board on con.
func (b *Board) Bench(con *console.Console, cfg sinetest.Config) *sinetest.Bench {
	return sinetest.New(con, b.Codec, b.Engine, cfg)
}

// Close stops the frame clock.
func (b *Board) Close() {
	if b.Clock != nil {
		b.Clock.Stop()
	}
}
