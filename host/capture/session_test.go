package capture_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"codecbench/console"
	"codecbench/host/capture"
	"codecbench/host/serial"
	"codecbench/i2s"
	"codecbench/sim/board"
	"codecbench/sinetest"
)

type transcript struct {
	in  *strings.Reader
	out bytes.Buffer
}

func (s *transcript) Read(p []byte) (int, error)  { return s.in.Read(p) }
func (s *transcript) Write(p []byte) (int, error) { return s.out.Write(p) }

func TestSessionTranscript(t *testing.T) {
	rw := &transcript{in: strings.NewReader(
		"Init codec? (y/n)\r\n>Codec Initialized\r\n" +
			"Address 1: 40\r\nAddress 2: 128\r\n" +
			"Waiting 10 seconds for ADC high pass filter to stabilize\r\n" +
			"Start test? (y/n)\r\n>Starting test.\r\n" +
			"10,0\r\n-10,0\r\nEnd of data.\r\n" +
			"Start test? (y/n)\r\n>Starting test.\r\n" +
			"20,1\r\n",
	)}

	s := capture.NewSession(rw, capture.Answers{Script: []string{"Y"}}, nil)
	c, err := s.Run(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}

	if got := rw.out.String(); got != "Y\ny\ny\n" {
		t.Errorf("answers %q, want scripted Y then defaults", got)
	}
	if len(c.Registers) != 2 || c.Registers[1] != (capture.Register{Address: 2, Value: 128}) {
		t.Errorf("Registers = %+v", c.Registers)
	}
	if len(c.Runs) != 1 || len(c.Runs[0]) != 2 {
		t.Fatalf("Runs = %+v, want one complete run of 2 samples", c.Runs)
	}
	if c.Runs[0][1] != (capture.Sample{Right: -10, Pair: true}) {
		t.Errorf("sample 1 = %+v", c.Runs[0][1])
	}
	if len(c.Text) == 0 || c.Text[0] != "Codec Initialized" {
		t.Errorf("Text = %q", c.Text)
	}
}

func TestSessionStopsAfterRuns(t *testing.T) {
	rw := &transcript{in: strings.NewReader("1\r\nEnd of samples\r\n2\r\nEnd of samples\r\n")}
	c, err := capture.NewSession(rw, capture.Answers{}, nil).Run(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Runs) != 1 || c.Runs[0][0].Value != 1 {
		t.Errorf("Runs = %+v", c.Runs)
	}
}

func TestSessionCancelled(t *testing.T) {
	rw := &transcript{in: strings.NewReader("1\r\n")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := capture.NewSession(rw, capture.Answers{}, nil).Run(ctx, 1)
	if err != context.Canceled {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}

func TestSessionAgainstSimulatedBoard(t *testing.T) {
	const latency = 4
	table := sinetest.Sine48[:]
	b, err := board.NewA(board.Options{Table: table, CaptureLen: 48, Runs: 1, Channel: i2s.Right, Latency: latency})
	if err != nil {
		t.Fatal(err)
	}
	cfg := sinetest.VariantA()
	cfg.StartupDelayMs, cfg.PostInitDelayMs, cfg.HPFWaitMs = 0, 0, 0

	hostEnd, devEnd := serial.Pipe()
	bench := b.Bench(console.New(devEnd), cfg)
	errc := make(chan error, 1)
	go func() {
		errc <- bench.Run(context.Background())
		devEnd.Close()
	}()

	c, err := capture.NewSession(hostEnd, capture.Answers{Channel: "R"}, nil).Run(context.Background(), 1)
	hostEnd.Close()
	if benchErr := <-errc; benchErr != nil {
		t.Fatalf("bench: %v", benchErr)
	}
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	if bench.Channel() != i2s.Right {
		t.Errorf("bench ran on %v, want R", bench.Channel())
	}
	if len(c.Registers) != 8 {
		t.Errorf("%d registers captured, want 8", len(c.Registers))
	}
	if len(c.Runs) != 1 || len(c.Runs[0]) != 48 {
		t.Fatalf("captured %d runs", len(c.Runs))
	}
	for i, smp := range c.Runs[0] {
		if want := table[(i-latency-1+48)%48]; smp.Value != want {
			t.Errorf("sample %d = %d, want %d", i, smp.Value, want)
		}
	}
}
