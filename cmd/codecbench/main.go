// Command codecbench drives the CS4272 loopback bench from a host: it can
// simulate either board end to end, capture a real board's sample dump
// over its serial console, or bring the codec up from a Linux I2C adapter.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/shlex"

	"codecbench/codec"
	"codecbench/config"
	"codecbench/console"
	"codecbench/core"
	"codecbench/host/capture"
	"codecbench/host/linuxbus"
	"codecbench/host/serial"
	"codecbench/i2s"
	"codecbench/sim/board"
	"codecbench/sinetest"
)

type options struct {
	configPath string
	device     string
	baud       int
	variant    string
	channel    string
	runs       int
	repeat     int
	out        string
	answers    string
	verbose    bool
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd := os.Args[1]
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		usage()
		return
	}

	var opts options
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.StringVar(&opts.configPath, "config", "", "JSON configuration file")
	fs.StringVar(&opts.device, "device", "", "Serial device path")
	fs.IntVar(&opts.baud, "baud", 0, "Baud rate (ignored for USB CDC)")
	fs.StringVar(&opts.variant, "variant", "", "Board variant: a (FPGA) or b (Teensy)")
	fs.StringVar(&opts.channel, "channel", "", "Output channel: L or R")
	fs.IntVar(&opts.runs, "runs", 0, "Capture passes kept per run, after the warm-up pass")
	fs.IntVar(&opts.repeat, "repeat", 0, "Number of runs to capture, negative for until interrupted (default 1)")
	fs.StringVar(&opts.out, "out", "", "CSV output file (default stdout)")
	fs.StringVar(&opts.answers, "answers", "", "Scripted prompt answers, shell-quoted, e.g. \"y R y\"")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose output")
	fs.Parse(os.Args[2:])

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	core.SetDebugWriter(func(s string) {
		logger.Debug(strings.TrimRight(s, "\r\n"))
	})
	core.SetDebugEnabled(opts.verbose)

	cfg, err := loadConfig(opts)
	if err != nil {
		logger.Error("configuration", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cmd {
	case "sim":
		err = runSim(ctx, logger, cfg, opts)
	case "capture":
		err = runCapture(ctx, logger, cfg, opts)
	case "control":
		err = runControl(logger, cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(cmd+" failed", slog.Any("err", err))
		core.DumpEvents()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: codecbench <command> [flags]")
	fmt.Fprintln(os.Stderr, "\nCommands:")
	fmt.Fprintln(os.Stderr, "  sim       - Run the loopback test on a simulated board")
	fmt.Fprintln(os.Stderr, "  capture   - Answer a board's prompts and capture its samples")
	fmt.Fprintln(os.Stderr, "  control   - Initialize the codec over Linux I2C and dump registers")
	fmt.Fprintln(os.Stderr, "\nRun 'codecbench <command> -h' for flags.")
}

// loadConfig reads the configuration file, if any, and applies the flags
// that were set on top of it.
func loadConfig(opts options) (*config.Bench, error) {
	cfg := &config.Bench{}
	if opts.configPath != "" {
		loaded, err := config.LoadFile(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.variant != "" {
		cfg.Variant = opts.variant
	}
	if opts.channel != "" {
		cfg.Channel = opts.channel
	}
	if opts.runs != 0 {
		cfg.Runs = opts.runs
	}
	if opts.repeat != 0 {
		cfg.Repeat = opts.repeat
	}
	if opts.device != "" {
		cfg.Serial.Device = opts.device
	}
	if opts.baud != 0 {
		cfg.Serial.Baud = opts.baud
	}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func channelOf(cfg *config.Bench) (i2s.Channel, error) {
	if cfg.Channel == "" {
		return i2s.Left, nil
	}
	ch, ok := i2s.ParseChannel(cfg.Channel)
	if !ok {
		return ch, fmt.Errorf("invalid channel %q", cfg.Channel)
	}
	return ch, nil
}

func table(cfg *config.Bench) []int32 {
	if cfg.TableLen == len(sinetest.Sine48) && cfg.Amplitude == sinetest.Amplitude {
		return sinetest.Sine48[:]
	}
	return sinetest.GenerateSine(cfg.TableLen, cfg.Amplitude)
}

func benchConfig(cfg *config.Bench, ch i2s.Channel) sinetest.Config {
	var bc sinetest.Config
	if cfg.Variant == config.VariantB {
		bc = sinetest.VariantB()
	} else {
		bc = sinetest.VariantA()
	}
	bc.Channel = ch
	bc.Repeat = cfg.Sessions()
	if cfg.SkipWaits {
		bc.StartupDelayMs = 0
		bc.PostInitDelayMs = 0
		bc.RegisterDelayMs = 0
		bc.HPFWaitMs = 0
		bc.SampleDelayMs = 0
	}
	return bc
}

func answersOf(opts options, cfg *config.Bench) (capture.Answers, error) {
	script, err := shlex.Split(opts.answers)
	if err != nil {
		return capture.Answers{}, fmt.Errorf("parse answers: %w", err)
	}
	return capture.Answers{Script: script, Channel: cfg.Channel}, nil
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func writeCapture(c *capture.Capture, path string) error {
	w, err := openOutput(path)
	if err != nil {
		return err
	}
	if err := c.WriteCSV(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// runSim runs the firmware sequence against a simulated board and captures
// its console output through an in-memory serial link.
func runSim(ctx context.Context, logger *slog.Logger, cfg *config.Bench, opts options) error {
	ch, err := channelOf(cfg)
	if err != nil {
		return err
	}
	tbl := table(cfg)
	captureLen := cfg.CaptureLen
	if cfg.AlignCapture {
		captureLen = sinetest.AlignedLength(captureLen, len(tbl))
	}
	bo := board.Options{
		Table:      tbl,
		CaptureLen: captureLen,
		Runs:       cfg.Runs,
		Channel:    ch,
		Accumulate: *cfg.Accumulate,
		Latency:    *cfg.LoopbackLatency,
		SampleRate: cfg.SampleRate,
	}

	var b *board.Board
	if cfg.Variant == config.VariantB {
		b, err = board.NewB(bo)
	} else {
		b, err = board.NewA(bo)
	}
	if err != nil {
		return err
	}
	defer b.Close()

	answers, err := answersOf(opts, cfg)
	if err != nil {
		return err
	}

	core.ClearEvents()
	hostEnd, devEnd := serial.Pipe()
	bench := b.Bench(console.New(devEnd), benchConfig(cfg, ch))

	logger.Info("simulating", slog.String("variant", cfg.Variant),
		slog.Int("capture_len", captureLen), slog.Int("runs", cfg.Runs),
		slog.Int("table_len", len(tbl)))

	errc := make(chan error, 1)
	go func() {
		errc <- bench.Run(ctx)
		devEnd.Close()
	}()

	sess := capture.NewSession(hostEnd, answers, logger)
	c, err := sess.Run(ctx, cfg.Sessions())
	hostEnd.Close()
	benchErr := <-errc
	if err != nil {
		return err
	}
	if benchErr != nil && !errors.Is(benchErr, console.ErrClosed) {
		return benchErr
	}

	logger.Info("simulation done",
		slog.Int("runs", len(c.Runs)),
		slog.Int("bus_transactions", len(b.Bus.Transactions())),
		slog.Int("registers", len(c.Registers)))
	return writeCapture(c, opts.out)
}

// runCapture talks to a real board on its serial console.
func runCapture(ctx context.Context, logger *slog.Logger, cfg *config.Bench, opts options) error {
	sc := serial.DefaultConfig(cfg.Serial.Device)
	sc.Baud = cfg.Serial.Baud
	sc.ReadTimeout = cfg.Serial.ReadTimeoutMs
	port, err := serial.Open(sc)
	if err != nil {
		return err
	}
	defer port.Close()
	if err := port.Flush(); err != nil {
		logger.Warn("flush", slog.Any("err", err))
	}

	answers, err := answersOf(opts, cfg)
	if err != nil {
		return err
	}

	logger.Info("capturing", slog.Any("port", port), slog.Int("runs", cfg.Sessions()))
	sess := capture.NewSession(port, answers, logger)
	sess.Persistent = true
	c, err := sess.Run(ctx, cfg.Sessions())
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if werr := writeCapture(c, opts.out); werr != nil {
		return werr
	}
	return err
}

// runControl initializes the codec from a Linux host and prints its
// registers.
func runControl(logger *slog.Logger, cfg *config.Bench) error {
	bus, err := linuxbus.Open(cfg.Linux.Bus, cfg.Linux.SpeedHz)
	if err != nil {
		return err
	}
	defer bus.Close()

	core.SetDelayFunc(func(ms uint32) {
		time.Sleep(time.Duration(ms) * time.Millisecond)
	})

	ratio := uint8(codec.RatioFPGA)
	if cfg.Variant == config.VariantB {
		ratio = codec.RatioTeensy
	}
	gpio := linuxbus.NewGPIO(map[core.GPIOPin]string{board.ResetPin: cfg.Linux.ResetPin})
	dev := codec.New(bus, gpio, codec.Config{
		ResetPin:    board.ResetPin,
		RatioSelect: ratio,
	})
	dev.SetOutput(os.Stdout)

	logger.Info("initializing codec", slog.String("bus", bus.String()), slog.String("reset", cfg.Linux.ResetPin))
	if err := dev.Init(); err != nil {
		logger.Warn("codec init", slog.Any("err", err))
	}
	if err := dev.DumpRegisters(os.Stdout); err != nil {
		return err
	}
	part, rev, err := dev.ChipID()
	if err != nil {
		return err
	}
	logger.Info("chip id", slog.Int("part", int(part)), slog.Int("revision", int(rev)))
	return nil
}
