package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	testCases := []struct {
		variant    string
		runs       int
		capture    int
		table      int
		accumulate bool
		channel    string
		repeat     int
	}{
		{VariantA, 1, 4096, 48, false, "", 1},
		{VariantB, 255, 4080, 240, true, "R", 1},
		{"B", 255, 4080, 240, true, "R", 1},
		{"", 1, 4096, 48, false, "", 1},
	}

	for _, tc := range testCases {
		cfg, err := Default(tc.variant)
		if err != nil {
			t.Fatalf("Default(%q): %v", tc.variant, err)
		}
		if cfg.Runs != tc.runs || cfg.CaptureLen != tc.capture || cfg.TableLen != tc.table {
			t.Errorf("%q: runs=%d capture=%d table=%d", tc.variant, cfg.Runs, cfg.CaptureLen, cfg.TableLen)
		}
		if *cfg.Accumulate != tc.accumulate {
			t.Errorf("%q: accumulate = %v", tc.variant, *cfg.Accumulate)
		}
		if cfg.Channel != tc.channel || cfg.Repeat != tc.repeat {
			t.Errorf("%q: channel=%q repeat=%d", tc.variant, cfg.Channel, cfg.Repeat)
		}
		if *cfg.LoopbackLatency != 20 || cfg.Sessions() != 1 {
			t.Errorf("%q: latency=%d sessions=%d", tc.variant, *cfg.LoopbackLatency, cfg.Sessions())
		}
		if cfg.Amplitude != 7476354 || cfg.SampleRate != 48000 || cfg.Serial.Baud != 115200 {
			t.Errorf("%q: common defaults not applied: %+v", tc.variant, cfg)
		}
	}
}

func TestUnknownVariant(t *testing.T) {
	if _, err := Default("c"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("Default(c) = %v, want ErrUnknownVariant", err)
	}
	if _, err := LoadConfig([]byte(`{"variant": "x"}`)); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("LoadConfig = %v, want ErrUnknownVariant", err)
	}
}

func TestLoadConfigKeepsValues(t *testing.T) {
	data := []byte(`{
		"variant": "b",
		"channel": "L",
		"runs": 4,
		"capture_len": 480,
		"accumulate": false,
		"serial": {"device": "/dev/ttyUSB1", "baud": 9600}
	}`)
	cfg, err := LoadConfig(data)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Channel != "L" || cfg.Runs != 4 || cfg.CaptureLen != 480 {
		t.Errorf("values overwritten: %+v", cfg)
	}
	if *cfg.Accumulate {
		t.Error("explicit accumulate=false replaced by the variant default")
	}
	if cfg.Serial.Device != "/dev/ttyUSB1" || cfg.Serial.Baud != 9600 || cfg.Serial.ReadTimeoutMs != 100 {
		t.Errorf("serial = %+v", cfg.Serial)
	}
	if cfg.TableLen != 240 {
		t.Errorf("TableLen = %d, want the variant default", cfg.TableLen)
	}
}

func TestLoadConfigZeroLatencyAndRepeat(t *testing.T) {
	testCases := []struct {
		json     string
		latency  int
		repeat   int
		sessions int
	}{
		{`{"loopback_latency": 0}`, 0, 1, 1},
		{`{"loopback_latency": 7, "repeat": 3}`, 7, 3, 3},
		{`{"variant": "b", "repeat": -1}`, 20, -1, 0},
	}

	for _, tc := range testCases {
		cfg, err := LoadConfig([]byte(tc.json))
		if err != nil {
			t.Fatalf("%s: %v", tc.json, err)
		}
		if *cfg.LoopbackLatency != tc.latency {
			t.Errorf("%s: latency = %d, want %d", tc.json, *cfg.LoopbackLatency, tc.latency)
		}
		if cfg.Repeat != tc.repeat || cfg.Sessions() != tc.sessions {
			t.Errorf("%s: repeat = %d sessions = %d, want %d, %d", tc.json, cfg.Repeat, cfg.Sessions(), tc.repeat, tc.sessions)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.json")
	if err := os.WriteFile(path, []byte(`{"variant": "a", "runs": 3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Runs != 3 || !cfg.AlignCapture {
		t.Errorf("Runs = %d, AlignCapture = %v", cfg.Runs, cfg.AlignCapture)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadFile on a missing file succeeded")
	}
	if err := os.WriteFile(path, []byte(`{`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile on malformed JSON succeeded")
	}
}
