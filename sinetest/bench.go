// Package sinetest runs the codec loopback test: bring the codec up, pick
// the output channel, then play a sine through the I2S engine and print
// what came back.
package sinetest

import (
	"context"
	"errors"

	"codecbench/codec"
	"codecbench/console"
	"codecbench/core"
	"codecbench/i2c"
	"codecbench/i2s"
)

// Format selects how captured samples are printed.
type Format uint8

const (
	// FormatSingle prints the selected channel, one "<n>\r\n" per sample.
	FormatSingle Format = iota
	// FormatPair prints "<right>,<left>\r\n" per sample.
	FormatPair
)

// RegisterStyle selects the register read-back format.
type RegisterStyle uint8

const (
	RegistersHex     RegisterStyle = iota // "Address 00000001 00000029"
	RegistersDecimal                      // "Address 1: 41"
)

// Console messages
const (
	MsgCodecInitialized = "Codec Initialized\r\n"
	MsgReadingBack      = "Reading back registers\r\n"
	MsgSelectChannel    = "Please select the channel (L/R)\r\n> "
	MsgInvalidChannel   = "Invalid channel selection.\r\n"
	MsgInitPrompt       = "Init codec? (y/n)\r\n>"
	MsgStartPrompt      = "Start test? (y/n)\r\n>"
)

// Config is the sequencing of one board's test.
type Config struct {
	ConfirmInit  bool // ask before touching the codec
	ConfirmStart bool // ask before every run

	// SelectChannel prompts for the channel once; otherwise Channel is
	// used as is.
	SelectChannel bool
	Channel       i2s.Channel

	StartupDelayMs  uint32 // before codec init
	PostInitDelayMs uint32 // after codec init, before the I2S setup
	RegisterDelayMs uint32 // after each register read-back line
	HPFWaitMs       uint32 // ADC high-pass filter settling
	SampleDelayMs   uint32 // after each printed sample line

	Registers RegisterStyle
	Format    Format

	// Repeat is the number of runs; zero runs until the context ends or
	// the console closes.
	Repeat int

	HPFMessage   string
	StartMessage string
	DoneMessage  string
	EndMessage   string
}

// VariantA is the FPGA board sequence: one run on an interactively chosen
// channel, single-column output.
func VariantA() Config {
	return Config{
		SelectChannel:   true,
		StartupDelayMs:  1000,
		PostInitDelayMs: 1000,
		HPFWaitMs:       5000,
		Registers:       RegistersHex,
		Format:          FormatSingle,
		Repeat:          1,
		HPFMessage:      "Waiting 5 seconds for codec HPF to stabilize...\r\n",
		StartMessage:    "Starting Sine test...\r\n",
		DoneMessage:     "Test finished, printing samples.\r\n",
		EndMessage:      "End of samples\r\n",
	}
}

// VariantB is the Teensy sequence: confirm prompts, right channel out,
// right,left pairs printed, repeating forever.
func VariantB() Config {
	return Config{
		ConfirmInit:     true,
		ConfirmStart:    true,
		Channel:         i2s.Right,
		StartupDelayMs:  100,
		PostInitDelayMs: 100,
		RegisterDelayMs: 100,
		HPFWaitMs:       10000,
		SampleDelayMs:   50,
		Registers:       RegistersDecimal,
		Format:          FormatPair,
		HPFMessage:      "Waiting 10 seconds for ADC high pass filter to stabilize\r\n",
		StartMessage:    "Starting test.\r\n",
		EndMessage:      "End of data.\r\n",
	}
}

// Bench sequences one board: console, codec and I2S engine.
type Bench struct {
	con   *console.Console
	codec *codec.Device
	eng   *i2s.Engine
	cfg   Config

	channel  i2s.Channel
	selected bool
	runs     int
}

// New returns a bench. The codec's acknowledge messages go to con.
func New(con *console.Console, dev *codec.Device, eng *i2s.Engine, cfg Config) *Bench {
	dev.SetOutput(con)
	return &Bench{con: con, codec: dev, eng: eng, cfg: cfg, channel: cfg.Channel}
}

// Channel returns the output channel in use.
func (b *Bench) Channel() i2s.Channel {
	return b.channel
}

// Runs returns the number of completed runs.
func (b *Bench) Runs() int {
	return b.runs
}

// busError reports whether err came from a register access. Those were
// already printed by the codec and never stop the bench.
func busError(err error) bool {
	return errors.Is(err, i2c.ErrAddressNack) ||
		errors.Is(err, i2c.ErrDataNack) ||
		errors.Is(err, i2c.ErrArbitrationLost) ||
		errors.Is(err, i2c.ErrTimeout)
}

// Setup brings up the codec and the I2S port, prints the register
// read-back and waits out the ADC high-pass filter.
func (b *Bench) Setup() error {
	if b.cfg.ConfirmInit {
		if err := b.con.Confirm(MsgInitPrompt); err != nil {
			return err
		}
	}
	if err := core.Delay(b.cfg.StartupDelayMs); err != nil {
		return err
	}

	if err := b.codec.Init(); err != nil && !busError(err) {
		return err
	}
	if err := core.Delay(b.cfg.PostInitDelayMs); err != nil {
		return err
	}
	if err := b.eng.Configure(); err != nil {
		return err
	}

	if err := b.con.WriteString(MsgCodecInitialized); err != nil {
		return err
	}
	if err := b.readBack(); err != nil {
		return err
	}

	if err := b.con.WriteString(b.cfg.HPFMessage); err != nil {
		return err
	}
	return core.Delay(b.cfg.HPFWaitMs)
}

func (b *Bench) readBack() error {
	if b.cfg.Registers == RegistersHex {
		if err := b.con.WriteString(MsgReadingBack); err != nil {
			return err
		}
		return b.codec.DumpRegisters(b.con)
	}
	for reg := uint8(codec.FirstRegister); reg <= codec.LastRegister; reg++ {
		v, _ := b.codec.ReadRegister(reg)
		line := "Address " + core.Itoa(int(reg)) + ": " + core.Itoa(int(v)) + "\r\n"
		if err := b.con.WriteString(line); err != nil {
			return err
		}
		if err := core.Delay(b.cfg.RegisterDelayMs); err != nil {
			return err
		}
	}
	return nil
}

// SelectChannel asks for the output channel until a valid answer arrives.
// The choice holds for every later run; calling it again returns the
// same channel without asking.
func (b *Bench) SelectChannel() (i2s.Channel, error) {
	if b.selected || !b.cfg.SelectChannel {
		b.selected = true
		b.eng.Exchange().SetChannel(b.channel)
		return b.channel, nil
	}
	for {
		line, err := b.con.Prompt(MsgSelectChannel)
		if err != nil {
			return b.channel, err
		}
		if ch, ok := i2s.ParseChannel(line); ok {
			b.channel = ch
			b.selected = true
			b.eng.Exchange().SetChannel(ch)
			core.DebugPrintln("[BENCH] channel " + ch.String())
			return ch, nil
		}
		if err := b.con.WriteString(MsgInvalidChannel); err != nil {
			return b.channel, err
		}
	}
}

// RunOnce performs one complete run: reset the capture state, optionally
// wait for the go-ahead, run the engine and print the samples.
func (b *Bench) RunOnce(ctx context.Context) error {
	x := b.eng.Exchange()
	x.Reset()
	x.SetChannel(b.channel)

	if b.cfg.ConfirmStart {
		if err := b.con.Confirm(MsgStartPrompt); err != nil {
			return err
		}
	}
	if err := b.con.WriteString(b.cfg.StartMessage); err != nil {
		return err
	}

	if err := b.eng.Run(ctx); err != nil {
		return err
	}
	b.runs++

	if b.cfg.DoneMessage != "" {
		if err := b.con.WriteString(b.cfg.DoneMessage); err != nil {
			return err
		}
	}
	if err := b.PrintSamples(); err != nil {
		return err
	}
	return b.con.WriteString(b.cfg.EndMessage)
}

// PrintSamples writes the capture buffers in the configured format.
func (b *Bench) PrintSamples() error {
	x := b.eng.Exchange()
	sel := x.Samples(b.channel)

	for i := 0; i < x.Len(); i++ {
		var line string
		if b.cfg.Format == FormatPair {
			f := x.At(i)
			line = core.Itoa(int(f.Right)) + "," + core.Itoa(int(f.Left)) + "\r\n"
		} else {
			line = core.Itoa(int(sel[i])) + "\r\n"
		}
		if err := b.con.WriteString(line); err != nil {
			return err
		}
		if b.cfg.SampleDelayMs != 0 {
			if err := core.Delay(b.cfg.SampleDelayMs); err != nil {
				return err
			}
		}
	}
	return nil
}

// Run is the whole session: Setup, channel selection, then Repeat runs.
// A closed console ends an unbounded session cleanly.
func (b *Bench) Run(ctx context.Context) error {
	if err := b.Setup(); err != nil {
		return err
	}
	if _, err := b.SelectChannel(); err != nil {
		return err
	}
	for b.cfg.Repeat == 0 || b.runs < b.cfg.Repeat {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.RunOnce(ctx); err != nil {
			if b.cfg.Repeat == 0 && errors.Is(err, console.ErrClosed) {
				return nil
			}
			return err
		}
	}
	return nil
}
