package sinetest_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"codecbench/console"
	"codecbench/core"
	"codecbench/i2s"
	"codecbench/sim/board"
	"codecbench/sinetest"
)

type stream struct {
	in  *strings.Reader
	out bytes.Buffer
}

func (s *stream) Read(p []byte) (int, error)  { return s.in.Read(p) }
func (s *stream) Write(p []byte) (int, error) { return s.out.Write(p) }

func runBench(t *testing.T, b *board.Board, cfg sinetest.Config, input string) (*sinetest.Bench, string, error) {
	t.Helper()
	s := &stream{in: strings.NewReader(input)}
	bench := b.Bench(console.New(s), cfg)
	err := bench.Run(context.Background())
	return bench, s.out.String(), err
}

// section returns the lines between the first occurrence of from and the
// next occurrence of to.
func section(out, from, to string) []string {
	i := strings.Index(out, from)
	if i < 0 {
		return nil
	}
	rest := out[i+len(from):]
	j := strings.Index(rest, to)
	if j < 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(rest[:j], "\r\n"), "\r\n")
}

func TestBenchVariantA(t *testing.T) {
	const latency = 2
	table := sinetest.Sine48[:]
	b, err := board.NewA(board.Options{Table: table, CaptureLen: 48, Runs: 1, Latency: latency})
	if err != nil {
		t.Fatal(err)
	}
	core.TimerInit()

	cfg := sinetest.VariantA()
	bench, out, err := runBench(t, b, cfg, "L\r\n")
	if err != nil {
		t.Fatalf("Run: %v\n%s", err, out)
	}
	if bench.Runs() != 1 || bench.Channel() != i2s.Left {
		t.Errorf("Runs = %d, Channel = %v", bench.Runs(), bench.Channel())
	}

	for _, want := range []string{
		sinetest.MsgCodecInitialized,
		sinetest.MsgReadingBack,
		"Address 00000001 00000038\r\n",
		"Address 00000007 00000002\r\n",
		cfg.HPFMessage,
		sinetest.MsgSelectChannel,
		cfg.StartMessage,
		cfg.EndMessage,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q", want)
		}
	}
	if core.GetTime() < core.TimerFromUS(1000*(cfg.StartupDelayMs+cfg.PostInitDelayMs+cfg.HPFWaitMs)) {
		t.Errorf("bench finished after %dus, shorter than its waits", core.TimerToUS(core.GetTime()))
	}

	lines := section(out, cfg.DoneMessage, cfg.EndMessage)
	if len(lines) != 48 {
		t.Fatalf("%d sample lines, want 48", len(lines))
	}
	for i, line := range lines {
		want := core.Itoa(int(table[(i-latency-1+48)%48]))
		if line != want {
			t.Errorf("sample %d = %q, want %q", i, line, want)
		}
	}
}

func TestBenchInvalidChannel(t *testing.T) {
	b, err := board.NewA(board.Options{Table: sinetest.Sine48[:], CaptureLen: 48, Runs: 1})
	if err != nil {
		t.Fatal(err)
	}
	cfg := sinetest.VariantA()
	cfg.StartupDelayMs, cfg.PostInitDelayMs, cfg.HPFWaitMs = 0, 0, 0
	cfg.Repeat = 2

	bench, out, err := runBench(t, b, cfg, "x\r\nR\r\n")
	if err != nil {
		t.Fatalf("Run: %v\n%s", err, out)
	}
	if bench.Channel() != i2s.Right {
		t.Errorf("Channel = %v, want R", bench.Channel())
	}
	if n := strings.Count(out, sinetest.MsgInvalidChannel); n != 1 {
		t.Errorf("invalid channel printed %d times, want 1", n)
	}
	// Asked until valid, then never again.
	if n := strings.Count(out, sinetest.MsgSelectChannel); n != 2 {
		t.Errorf("channel prompt printed %d times, want 2", n)
	}
	if n := strings.Count(out, cfg.EndMessage); n != 2 || bench.Runs() != 2 {
		t.Errorf("%d runs printed, Runs = %d, want 2", n, bench.Runs())
	}

	// Every run starts from a reset exchange, so both print the same.
	first := section(out, cfg.DoneMessage, cfg.EndMessage)
	second := section(out[strings.Index(out, cfg.EndMessage):], cfg.DoneMessage, cfg.EndMessage)
	if strings.Join(first, ",") != strings.Join(second, ",") {
		t.Error("second run differs from the first")
	}
}

func TestBenchVariantB(t *testing.T) {
	const latency = 2
	table := sinetest.Sine48[:]
	b, err := board.NewB(board.Options{
		Table:      table,
		CaptureLen: 48,
		Runs:       2,
		Channel:    i2s.Right,
		Accumulate: true,
		Latency:    latency,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	cfg := sinetest.VariantB()
	cfg.HPFWaitMs, cfg.SampleDelayMs = 0, 0
	bench, out, err := runBench(t, b, cfg, "y\r\ny\r\ny\r\n")
	if err != nil {
		t.Fatalf("Run: %v\n%s", err, out)
	}
	// The session ends when the console closes at the third start prompt.
	if bench.Runs() != 2 {
		t.Errorf("Runs = %d, want 2", bench.Runs())
	}
	if n := strings.Count(out, sinetest.MsgStartPrompt); n != 3 {
		t.Errorf("start prompt printed %d times, want 3", n)
	}
	if !strings.HasPrefix(out, sinetest.MsgInitPrompt) {
		t.Errorf("output does not open with the init prompt: %q", out)
	}
	for _, want := range []string{
		"Address 1: 40\r\n",
		"Address 2: 128\r\n",
		"Address 3: 41\r\n",
		"Address 7: 2\r\n",
		"Address 8: 0\r\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q", want)
		}
	}
	if b.SAI.TxUnderruns != 0 {
		t.Errorf("TxUnderruns = %d", b.SAI.TxUnderruns)
	}

	lines := section(out, cfg.StartMessage, cfg.EndMessage)
	if len(lines) != 48 {
		t.Fatalf("%d sample lines, want 48", len(lines))
	}
	delay := latency + i2s.PrimeWords/2
	for i, line := range lines {
		want := core.Itoa(int(2*table[(i-delay+48)%48])) + ",0"
		if line != want {
			t.Errorf("sample %d = %q, want %q", i, line, want)
		}
	}

	// Accumulation restarts with every run.
	second := section(out[strings.LastIndex(out, cfg.StartMessage):], cfg.StartMessage, cfg.EndMessage)
	if strings.Join(lines, ";") != strings.Join(second, ";") {
		t.Error("second run differs from the first")
	}
}

func TestBenchDelayErrors(t *testing.T) {
	testCases := []struct {
		name    string
		set     func(*sinetest.Config)
		printed string
		missing string
	}{
		{"register", func(c *sinetest.Config) { c.RegisterDelayMs = core.MaxDelayMs + 1 }, "Address 1: ", "Address 2: "},
		{"sample", func(c *sinetest.Config) { c.SampleDelayMs = core.MaxDelayMs + 1 }, "Starting test.\r\n", "End of data.\r\n"},
	}

	for _, tc := range testCases {
		b, err := board.NewB(board.Options{Table: sinetest.Sine48[:], CaptureLen: 48, Runs: 1, Channel: i2s.Right})
		if err != nil {
			t.Fatal(err)
		}
		cfg := sinetest.VariantB()
		cfg.StartupDelayMs, cfg.PostInitDelayMs, cfg.HPFWaitMs = 0, 0, 0
		cfg.RegisterDelayMs, cfg.SampleDelayMs = 0, 0
		tc.set(&cfg)

		_, out, err := runBench(t, b, cfg, "y\r\ny\r\n")
		b.Close()
		if !errors.Is(err, core.ErrDelayTooLong) {
			t.Errorf("%s: Run = %v, want ErrDelayTooLong", tc.name, err)
		}
		if !strings.Contains(out, tc.printed) || strings.Contains(out, tc.missing) {
			t.Errorf("%s: output %q", tc.name, out)
		}
	}
}

func TestBenchCancelled(t *testing.T) {
	b, err := board.NewA(board.Options{Table: sinetest.Sine48[:], CaptureLen: 48, Runs: 1})
	if err != nil {
		t.Fatal(err)
	}
	cfg := sinetest.VariantA()
	cfg.StartupDelayMs, cfg.PostInitDelayMs, cfg.HPFWaitMs = 0, 0, 0
	cfg.Repeat = 0

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &stream{in: strings.NewReader("L\r\n")}
	bench := b.Bench(console.New(s), cfg)
	if err := bench.Run(ctx); err != context.Canceled {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
	if bench.Runs() != 0 {
		t.Errorf("Runs = %d", bench.Runs())
	}
}
