// Package config holds the host-side bench configuration, loaded from JSON
// and completed with per-variant defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Variants
const (
	VariantA = "a" // FPGA board: command register I2C, polled I2S
	VariantB = "b" // Teensy 3.x: Kinetis I2C controller, SAI interrupt
)

var ErrUnknownVariant = errors.New("config: unknown variant")

// Bench is the complete host configuration.
type Bench struct {
	Variant string `json:"variant"`
	Channel string `json:"channel"` // "L" or "R"; empty prompts on variant a

	Runs         int   `json:"runs"`          // kept passes after the warm-up pass
	CaptureLen   int   `json:"capture_len"`   // samples per pass
	AlignCapture bool  `json:"align_capture"` // round CaptureLen down to whole table periods
	Accumulate   *bool `json:"accumulate"`    // sum passes; nil takes the variant default
	TableLen     int   `json:"table_len"`     // 48 selects the built-in table
	Amplitude    int32 `json:"amplitude"`
	Repeat       int   `json:"repeat"`        // runs per session; negative runs until interrupted

	SampleRate      uint32 `json:"sample_rate"`
	LoopbackLatency *int   `json:"loopback_latency"` // frames, simulation only; nil takes the default
	SkipWaits       bool   `json:"skip_waits"`       // drop the bench's long waits, simulation only

	Serial SerialConfig `json:"serial"`
	Linux  LinuxConfig  `json:"linux"`
}

// SerialConfig is the target's console port.
type SerialConfig struct {
	Device        string `json:"device"`
	Baud          int    `json:"baud"`
	ReadTimeoutMs int    `json:"read_timeout_ms"`
}

// LinuxConfig wires the codec to a Linux host's I2C bus and GPIO.
type LinuxConfig struct {
	Bus      string `json:"bus"`       // i2creg name, empty for the first bus
	ResetPin string `json:"reset_pin"` // gpioreg name
	SpeedHz  int64  `json:"speed_hz"`
}

// LoadConfig parses a JSON configuration and applies defaults.
func LoadConfig(jsonData []byte) (*Bench, error) {
	var cfg Bench
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, err
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile reads and parses the configuration at path.
func LoadFile(path string) (*Bench, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := LoadConfig(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the defaults for variant.
func Default(variant string) (*Bench, error) {
	cfg := &Bench{Variant: variant}
	if err := applyDefaults(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills zero fields after flags have overridden a loaded
// configuration.
func (b *Bench) ApplyDefaults() error {
	return applyDefaults(b)
}

// applyDefaults fills in missing values from the variant's firmware.
func applyDefaults(cfg *Bench) error {
	cfg.Variant = strings.ToLower(cfg.Variant)
	if cfg.Variant == "" {
		cfg.Variant = VariantA
	}

	switch cfg.Variant {
	case VariantA:
		if cfg.Runs == 0 {
			cfg.Runs = 1
		}
		if cfg.CaptureLen == 0 {
			cfg.CaptureLen = 4096
			cfg.AlignCapture = true
		}
		if cfg.TableLen == 0 {
			cfg.TableLen = 48
		}
		if cfg.Accumulate == nil {
			cfg.Accumulate = boolPtr(false)
		}
	case VariantB:
		if cfg.Runs == 0 {
			cfg.Runs = 255
		}
		if cfg.CaptureLen == 0 {
			cfg.CaptureLen = 4080
		}
		if cfg.TableLen == 0 {
			cfg.TableLen = 240
		}
		if cfg.Accumulate == nil {
			cfg.Accumulate = boolPtr(true)
		}
		if cfg.Channel == "" {
			cfg.Channel = "R"
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVariant, cfg.Variant)
	}

	if cfg.Amplitude == 0 {
		cfg.Amplitude = 7476354
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 48000
	}
	if cfg.LoopbackLatency == nil {
		cfg.LoopbackLatency = intPtr(20)
	}
	if cfg.Repeat == 0 {
		cfg.Repeat = 1
	}

	if cfg.Serial.Device == "" {
		cfg.Serial.Device = "/dev/ttyACM0"
	}
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = 115200
	}
	if cfg.Serial.ReadTimeoutMs == 0 {
		cfg.Serial.ReadTimeoutMs = 100
	}

	if cfg.Linux.ResetPin == "" {
		cfg.Linux.ResetPin = "GPIO17"
	}
	if cfg.Linux.SpeedHz == 0 {
		cfg.Linux.SpeedHz = 100000
	}
	return nil
}

func boolPtr(v bool) *bool { return &v }

func intPtr(v int) *int { return &v }

// Sessions returns the number of runs to capture, zero meaning until
// interrupted.
func (b *Bench) Sessions() int {
	if b.Repeat < 0 {
		return 0
	}
	return b.Repeat
}
