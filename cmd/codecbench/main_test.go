package main

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"codecbench/config"
	"codecbench/core"
	"codecbench/i2s"
	"codecbench/sinetest"
)

func TestLoadConfigFlagsOverride(t *testing.T) {
	cfg, err := loadConfig(options{variant: "b", channel: "l", runs: 3, device: "/dev/ttyUSB0"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Variant != config.VariantB || cfg.Channel != "l" || cfg.Runs != 3 || cfg.Serial.Device != "/dev/ttyUSB0" {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.CaptureLen != 4080 {
		t.Errorf("CaptureLen = %d, want the variant default", cfg.CaptureLen)
	}

	if _, err := loadConfig(options{variant: "z"}); err == nil {
		t.Error("unknown variant accepted")
	}
}

func TestChannelOf(t *testing.T) {
	testCases := []struct {
		in      string
		want    i2s.Channel
		wantErr bool
	}{
		{"", i2s.Left, false},
		{"R", i2s.Right, false},
		{"left", i2s.Left, false},
		{"q", i2s.Left, true},
	}

	for _, tc := range testCases {
		got, err := channelOf(&config.Bench{Channel: tc.in})
		if (err != nil) != tc.wantErr || (err == nil && got != tc.want) {
			t.Errorf("channelOf(%q) = %v, %v", tc.in, got, err)
		}
	}
}

func TestTable(t *testing.T) {
	a, _ := config.Default(config.VariantA)
	if got := table(a); len(got) != 48 || got[12] != sinetest.Amplitude {
		t.Errorf("variant a table: len %d", len(got))
	}
	b, _ := config.Default(config.VariantB)
	if got := table(b); len(got) != 240 || got[60] != sinetest.Amplitude {
		t.Errorf("variant b table: len %d", len(got))
	}
}

func TestBenchConfigSkipWaits(t *testing.T) {
	cfg, _ := config.Default(config.VariantB)
	cfg.SkipWaits = true
	cfg.Repeat = 2
	bc := benchConfig(cfg, i2s.Left)
	if bc.HPFWaitMs != 0 || bc.StartupDelayMs != 0 || bc.SampleDelayMs != 0 {
		t.Errorf("waits kept: %+v", bc)
	}
	if bc.Channel != i2s.Left || bc.Repeat != 2 || !bc.ConfirmStart {
		t.Errorf("bench config = %+v", bc)
	}
}

func TestAnswersOf(t *testing.T) {
	ans, err := answersOf(options{answers: `y "R" y`}, &config.Bench{Channel: "L"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ans.Script) != 3 || ans.Script[1] != "R" || ans.Channel != "L" {
		t.Errorf("answers = %+v", ans)
	}
	if _, err := answersOf(options{answers: `"unterminated`}, &config.Bench{}); err == nil {
		t.Error("bad quoting accepted")
	}
}

func TestRepeatFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.json")
	data := `{"variant": "a", "channel": "L", "repeat": 3, "skip_waits": true, "capture_len": 96, "loopback_latency": 0}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		repeat int
		want   int
	}{
		{0, 3},
		{2, 2},
	}

	for _, tc := range testCases {
		opts := options{configPath: path, repeat: tc.repeat, out: filepath.Join(dir, "out.csv")}
		cfg, err := loadConfig(opts)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Repeat != tc.want || benchConfig(cfg, i2s.Left).Repeat != tc.want {
			t.Fatalf("-repeat %d: Repeat = %d, want %d", tc.repeat, cfg.Repeat, tc.want)
		}

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		if err := runSim(context.Background(), logger, cfg, opts); err != nil {
			t.Fatalf("-repeat %d: runSim: %v", tc.repeat, err)
		}

		f, err := os.Open(opts.out)
		if err != nil {
			t.Fatal(err)
		}
		rows, err := csv.NewReader(f).ReadAll()
		f.Close()
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 1+tc.want*96 {
			t.Fatalf("-repeat %d: %d rows, want %d", tc.repeat, len(rows), 1+tc.want*96)
		}
		if last := rows[len(rows)-1][0]; last != core.Itoa(tc.want-1) {
			t.Errorf("-repeat %d: last run %s, want %d", tc.repeat, last, tc.want-1)
		}
	}
}
